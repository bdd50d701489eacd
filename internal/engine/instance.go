package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-fuzzy-search/config"
	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
	"github.com/gcbaptista/go-fuzzy-search/store"
)

// CollectionInstance holds the candidates and settings of a single collection.
// It implements the services.CollectionAccessor interface.
type CollectionInstance struct {
	mu       sync.RWMutex // guards settings
	settings config.CollectionSettings
	store    *store.CandidateStore
	engine   *Engine
}

func newCollectionInstance(settings config.CollectionSettings, engine *Engine) *CollectionInstance {
	return &CollectionInstance{
		settings: settings,
		store:    store.NewCandidateStore(),
		engine:   engine,
	}
}

// SetCandidates replaces the collection's candidate snapshot.
func (c *CollectionInstance) SetCandidates(candidates []model.Candidate) uint64 {
	version := c.store.Replace(candidates)
	c.engine.logger.Debug("Candidates replaced",
		zap.String("collection", c.Settings().Name),
		zap.Int("count", len(candidates)),
		zap.Uint64("version", version))
	return version
}

// Settings returns the configuration settings for this collection.
func (c *CollectionInstance) Settings() config.CollectionSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

func (c *CollectionInstance) setSettings(settings config.CollectionSettings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings
}

// Stats returns the size and version of the current snapshot.
func (c *CollectionInstance) Stats() services.CollectionStats {
	return services.CollectionStats{
		Name:           c.Settings().Name,
		CandidateCount: c.store.Len(),
		Version:        c.store.Version(),
		UpdatedAt:      c.store.UpdatedAt(),
	}
}

// Match runs a fuzzy match against the current snapshot.
//
// Cancelling ctx, or starting another query with the same SessionID, stops
// scoring early; the hits found so far are returned with Cancelled set.
func (c *CollectionInstance) Match(ctx context.Context, query services.MatchQuery) (services.MatchResult, error) {
	startTime := time.Now()
	settings := c.Settings()

	smartCase := settings.SmartCase
	if query.SmartCase != nil {
		smartCase = *query.SmartCase
	}
	maxResults := settings.MaxResults
	if query.MaxResults != nil {
		if *query.MaxResults < 0 {
			return services.MatchResult{}, internalErrors.NewValidationError("max_results", "must not be negative")
		}
		maxResults = *query.MaxResults
	}

	candidates := c.store.Snapshot()

	var cancel atomic.Bool
	if ctx.Err() != nil {
		cancel.Store(true)
	}
	stop := context.AfterFunc(ctx, func() { cancel.Store(true) })
	defer stop()
	if query.SessionID != "" {
		release := c.engine.beginSession(settings.Name, query.SessionID, &cancel)
		defer release()
	}

	searcher := c.engine.searcher
	var matches []model.StringMatch
	var mode metrics.MatchMode
	switch {
	case query.QueryString == "":
		mode = metrics.MatchModeEmptyQuery
		matches = searcher.MatchSynchronously(candidates, query.QueryString, smartCase, maxResults, &cancel)
	case query.Synchronous || len(candidates) < settings.ParallelThreshold:
		mode = metrics.MatchModeSynchronous
		matches = searcher.MatchSynchronously(candidates, query.QueryString, smartCase, maxResults, &cancel)
	default:
		mode = metrics.MatchModeParallel
		matches = searcher.Match(candidates, query.QueryString, smartCase, maxResults, &cancel, c.engine.executor)
	}
	cancelled := cancel.Load()

	hits := make([]services.HitResult, len(matches))
	for i, m := range matches {
		hits[i] = services.HitResult{
			CandidateID: m.CandidateID,
			Text:        m.Text,
			Score:       m.Score,
			Positions:   m.Positions,
			Ranges:      m.SpanList(),
		}
	}

	took := time.Since(startTime)
	c.engine.metrics.RecordMatch(mode, took, len(hits), cancelled)
	if cancelled {
		c.engine.logger.Debug("Match cancelled",
			zap.String("collection", settings.Name),
			zap.String("query", query.QueryString),
			zap.Int("partial_hits", len(hits)))
	}

	return services.MatchResult{
		Hits:       hits,
		Total:      len(hits),
		Candidates: len(candidates),
		Cancelled:  cancelled,
		Took:       took.Milliseconds(),
		QueryId:    uuid.New().String(),
	}, nil
}
