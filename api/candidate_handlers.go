package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// CandidatesRequest is the object form of a candidate upload.
type CandidatesRequest struct {
	Candidates []string `json:"candidates"`
}

// SetCandidatesHandler replaces the candidate snapshot of a collection.
// Request Body: a JSON array of strings, or CandidatesRequest. Candidate IDs
// are the positions in the uploaded list.
func (api *API) SetCandidatesHandler(c *gin.Context) {
	accessor, ok := api.collection(c)
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		sendBindError(c, err)
		return
	}

	var texts []string
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &texts)
	} else {
		var req CandidatesRequest
		err = json.Unmarshal(trimmed, &req)
		texts = req.Candidates
	}
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateCandidates(texts); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	version := accessor.SetCandidates(model.NewCandidates(texts...))
	api.logger.Debug("Candidate snapshot uploaded",
		zap.String("collection", accessor.Settings().Name),
		zap.Int("count", len(texts)))

	c.JSON(http.StatusOK, gin.H{
		"message": "Candidates replaced",
		"count":   len(texts),
		"version": version,
	})
}
