package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// sessionIDHeader identifies a client session when the body omits session_id.
const sessionIDHeader = "X-Session-ID"

// MatchRequest defines the structure for match queries.
type MatchRequest struct {
	Query       string `json:"query"`
	SmartCase   *bool  `json:"smart_case,omitempty"`  // Optional: override the collection's smart case setting
	MaxResults  *int   `json:"max_results,omitempty"` // Optional: override the collection's result cap
	SessionID   string `json:"session_id,omitempty"`  // Optional: a newer query in the same session cancels this one
	Synchronous bool   `json:"synchronous,omitempty"`
}

// MatchHandler handles match requests to a collection.
// Request Body: MatchRequest
//
// The match stops early when the client disconnects or when a newer request
// arrives for the same session; the partial result is then flagged as cancelled.
func (api *API) MatchHandler(c *gin.Context) {
	accessor, ok := api.collection(c)
	if !ok {
		return
	}

	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			sendBindError(c, err)
			return
		}
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	if result := ValidateMatchRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.GetHeader(sessionIDHeader)
	}

	result, err := accessor.Match(c.Request.Context(), services.MatchQuery{
		QueryString: req.Query,
		SmartCase:   req.SmartCase,
		MaxResults:  req.MaxResults,
		SessionID:   sessionID,
		Synchronous: req.Synchronous,
	})
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
			return
		}
		SendMatchError(c, accessor.Settings().Name, err)
		return
	}

	if result.Cancelled {
		api.logger.Debug("Returning partial match result",
			zap.String("collection", accessor.Settings().Name),
			zap.String("session_id", sessionID),
			zap.Int("hits", result.Total))
	}

	c.JSON(http.StatusOK, result)
}
