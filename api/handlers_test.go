package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/internal/engine"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

func setupTestEngine(t *testing.T) *engine.Engine {
	return engine.NewEngine(engine.WithLogger(zaptest.NewLogger(t)), engine.WithWorkers(2))
}

func setupTestRouter(t *testing.T, eng *engine.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(), RequestSizeLimitMiddleware(1<<20))
	SetupRoutes(router, eng, zaptest.NewLogger(t))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestCreateCollectionHandler(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(t, eng)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedCode   ErrorCode
	}{
		{
			name:           "valid collection creation",
			requestBody:    config.CollectionSettings{Name: "files", SmartCase: true, MaxResults: 20},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate collection",
			requestBody:    config.CollectionSettings{Name: "files"},
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrorCodeCollectionExists,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeInvalidJSON,
		},
		{
			name:           "missing collection name",
			requestBody:    config.CollectionSettings{MaxResults: 5},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "negative max results",
			requestBody:    config.CollectionSettings{Name: "bad", MaxResults: -1},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/collections", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				apiErr := decodeError(t, w)
				assert.Equal(t, tt.expectedCode, apiErr.Code)
				assert.NotEmpty(t, apiErr.RequestID)
			}
		})
	}

	accessor, err := eng.GetCollection("files")
	require.NoError(t, err)
	assert.True(t, accessor.Settings().SmartCase)
	assert.Equal(t, 20, accessor.Settings().MaxResults)
}

func TestCollectionLifecycleHandlers(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(t, eng)

	require.NoError(t, eng.CreateCollection(config.CollectionSettings{Name: "b"}))
	require.NoError(t, eng.CreateCollection(config.CollectionSettings{Name: "a"}))

	w := doJSON(t, router, http.MethodGet, "/collections", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Collections []string `json:"collections"`
		Count       int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, []string{"a", "b"}, list.Collections)
	assert.Equal(t, 2, list.Count)

	w = doJSON(t, router, http.MethodGet, "/collections/a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details struct {
		Settings config.CollectionSettings `json:"settings"`
		Stats    services.CollectionStats  `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	assert.Equal(t, "a", details.Settings.Name)
	assert.Equal(t, config.DefaultMaxResults, details.Settings.MaxResults)
	assert.Zero(t, details.Stats.CandidateCount)

	w = doJSON(t, router, http.MethodDelete, "/collections/a", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/collections/a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorCodeCollectionNotFound, decodeError(t, w).Code)

	w = doJSON(t, router, http.MethodGet, "/collections/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSettingsAndRenameHandlers(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(t, eng)
	require.NoError(t, eng.CreateCollection(config.CollectionSettings{Name: "files"}))
	require.NoError(t, eng.CreateCollection(config.CollectionSettings{Name: "taken"}))

	w := doJSON(t, router, http.MethodPatch, "/collections/files/settings", config.CollectionSettings{SmartCase: true, MaxResults: 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	accessor, err := eng.GetCollection("files")
	require.NoError(t, err)
	assert.Equal(t, 3, accessor.Settings().MaxResults)

	w = doJSON(t, router, http.MethodPatch, "/collections/files/settings", config.CollectionSettings{MaxResults: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, router, http.MethodPatch, "/collections/missing/settings", config.CollectionSettings{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	tests := []struct {
		name           string
		path           string
		requestBody    interface{}
		expectedStatus int
		expectedCode   ErrorCode
	}{
		{"same name", "/collections/files/rename", RenameRequest{NewName: "files"}, http.StatusBadRequest, ErrorCodeSameName},
		{"target exists", "/collections/files/rename", RenameRequest{NewName: "taken"}, http.StatusConflict, ErrorCodeCollectionExists},
		{"missing new name", "/collections/files/rename", map[string]string{}, http.StatusBadRequest, ErrorCodeInvalidJSON},
		{"unknown collection", "/collections/missing/rename", RenameRequest{NewName: "x"}, http.StatusNotFound, ErrorCodeCollectionNotFound},
		{"success", "/collections/files/rename", RenameRequest{NewName: "paths"}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, tt.path, tt.requestBody)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
		})
	}

	assert.Equal(t, []string{"paths", "taken"}, eng.ListCollections())
}

func TestSetCandidatesHandler(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(t, eng)
	require.NoError(t, eng.CreateCollection(config.CollectionSettings{Name: "files"}))

	tests := []struct {
		name           string
		path           string
		requestBody    interface{}
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "array form",
			path:           "/collections/files/candidates",
			requestBody:    []string{"alpha", "beta", "gamma"},
			expectedStatus: http.StatusOK,
			expectedCount:  3,
		},
		{
			name:           "object form",
			path:           "/collections/files/candidates",
			requestBody:    CandidatesRequest{Candidates: []string{"delta", "epsilon"}},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "empty list clears the collection",
			path:           "/collections/files/candidates",
			requestBody:    []string{},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "candidate too long",
			path:           "/collections/files/candidates",
			requestBody:    []string{strings.Repeat("x", MaxCandidateLength+1)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			path:           "/collections/files/candidates",
			requestBody:    "[1, 2",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown collection",
			path:           "/collections/missing/candidates",
			requestBody:    []string{"a"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPut, tt.path, tt.requestBody)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}

			accessor, err := eng.GetCollection("files")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCount, accessor.Stats().CandidateCount)
		})
	}
}

func TestMatchHandler(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(t, eng)
	require.NoError(t, eng.CreateCollection(config.CollectionSettings{Name: "files", MaxResults: 5}))

	w := doJSON(t, router, http.MethodPut, "/collections/files/candidates", []string{
		"src/main.go",
		"src/matcher.go",
		"README.md",
		"docs/Makefile",
	})
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedTexts  []string
	}{
		{
			name:           "ranked hits",
			requestBody:    MatchRequest{Query: "matcher"},
			expectedStatus: http.StatusOK,
			expectedTexts:  []string{"src/matcher.go"},
		},
		{
			name:           "empty query lists everything in order",
			requestBody:    MatchRequest{Query: "", MaxResults: intPtr(1)},
			expectedStatus: http.StatusOK,
			expectedTexts:  []string{"src/main.go", "src/matcher.go", "README.md", "docs/Makefile"},
		},
		{
			name:           "smart case",
			requestBody:    MatchRequest{Query: "Ma", SmartCase: boolPtr(true)},
			expectedStatus: http.StatusOK,
			expectedTexts:  []string{"docs/Makefile"},
		},
		{
			name:           "forced synchronous",
			requestBody:    MatchRequest{Query: "readme", Synchronous: true},
			expectedStatus: http.StatusOK,
			expectedTexts:  []string{"README.md"},
		},
		{
			name:           "negative max results",
			requestBody:    MatchRequest{Query: "a", MaxResults: intPtr(-3)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "{",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/collections/files/_match", tt.requestBody)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var result services.MatchResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.False(t, result.Cancelled)
			assert.NotEmpty(t, result.QueryId)
			assert.Equal(t, 4, result.Candidates)

			texts := make([]string, len(result.Hits))
			for i, hit := range result.Hits {
				texts[i] = hit.Text
			}
			assert.Equal(t, tt.expectedTexts, texts)
		})
	}

	w = doJSON(t, router, http.MethodPost, "/collections/missing/_match", MatchRequest{Query: "a"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMatchHandler_Ranges(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(t, eng)
	require.NoError(t, eng.CreateCollection(config.CollectionSettings{Name: "words"}))
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPut, "/collections/words/candidates", []string{"héllo wörld"}).Code)

	w := doJSON(t, router, http.MethodPost, "/collections/words/_match", MatchRequest{Query: "héllo"})
	require.Equal(t, http.StatusOK, w.Code)

	var result services.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Hits, 1)
	hit := result.Hits[0]
	require.Len(t, hit.Ranges, 1)
	assert.Equal(t, "héllo", hit.Text[hit.Ranges[0].Start:hit.Ranges[0].End])
}

func TestHealthAndMetricsHandlers(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(t, eng)
	require.NoError(t, eng.CreateCollection(config.CollectionSettings{Name: "files"}))
	doJSON(t, router, http.MethodPost, "/collections/files/_match", MatchRequest{Query: "x"})

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = doJSON(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Metrics struct {
			MatchesServed int64 `json:"matches_served"`
		} `json:"metrics"`
		CancellationRate float64 `json:"cancellation_rate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Metrics.MatchesServed)
	assert.Zero(t, body.CancellationRate)
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	eng := setupTestEngine(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestSizeLimitMiddleware(64))
	SetupRoutes(router, eng, zaptest.NewLogger(t))
	require.NoError(t, eng.CreateCollection(config.CollectionSettings{Name: "files"}))

	w := doJSON(t, router, http.MethodPut, "/collections/files/candidates", []string{strings.Repeat("a", 200)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodOptions, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	req, _ = http.NewRequest(http.MethodGet, "/ping", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Len(t, w.Body.String(), 36)
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}
