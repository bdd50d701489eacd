// Package testing provides utilities and helpers for testing the fuzzy search service.
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/internal/engine"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// TestPaths is a small file-palette style candidate set.
var TestPaths = []string{
	"README.md",
	"go.mod",
	"cmd/fuzzy_search/main.go",
	"internal/engine/engine.go",
	"internal/engine/instance.go",
	"internal/fuzzy/fuzzy.go",
	"internal/fuzzy/merge.go",
	"internal/matcher/fzf.go",
	"internal/matcher/matcher.go",
	"api/handlers.go",
	"api/match_handlers.go",
	"config/settings.go",
	"model/match.go",
	"store/candidate_store.go",
}

// CreateTestEngine creates a new engine that logs to the test output.
func CreateTestEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	opts = append([]engine.Option{engine.WithLogger(zaptest.NewLogger(t))}, opts...)
	return engine.NewEngine(opts...)
}

// CreateTestCollection creates a collection with default settings.
func CreateTestCollection(t *testing.T, eng *engine.Engine, name string) config.CollectionSettings {
	t.Helper()
	settings := config.CollectionSettings{
		Name:       name,
		MaxResults: 10,
	}

	err := eng.CreateCollection(settings)
	require.NoError(t, err, "Failed to create test collection")

	settings.ApplyDefaults()
	return settings
}

// AddTestCandidates loads TestPaths into a collection.
func AddTestCandidates(t *testing.T, eng *engine.Engine, name string) []model.Candidate {
	t.Helper()
	accessor, err := eng.GetCollection(name)
	require.NoError(t, err, "Failed to get collection accessor")

	candidates := model.NewCandidates(TestPaths...)
	accessor.SetCandidates(candidates)
	return candidates
}

// MatchTestCase represents a test case for match operations
type MatchTestCase struct {
	Name          string
	Query         services.MatchQuery
	ExpectedCount int
	ExpectedFirst string // Expected text of the first hit
	ValidateFunc  func(t *testing.T, result *services.MatchResult)
}

// RunMatchTests runs a suite of match tests against a collection
func RunMatchTests(t *testing.T, accessor services.CollectionAccessor, tests []MatchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			result, err := accessor.Match(context.Background(), tt.Query)
			require.NoError(t, err, "Match should not fail")

			assert.Equal(t, tt.ExpectedCount, result.Total, "Hit count should match")
			assert.Len(t, result.Hits, result.Total)
			assert.NotEmpty(t, result.QueryId)

			if tt.ExpectedFirst != "" && len(result.Hits) > 0 {
				assert.Equal(t, tt.ExpectedFirst, result.Hits[0].Text, "First hit should match expected")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &result)
			}
		})
	}
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}
