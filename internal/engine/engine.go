package engine

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-fuzzy-search/config"
	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/fuzzy"
	"github.com/gcbaptista/go-fuzzy-search/internal/matcher"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// Engine manages multiple candidate collections.
// It implements the services.CollectionManager interface.
type Engine struct {
	mu          sync.RWMutex
	collections map[string]*CollectionInstance

	searcher *fuzzy.Searcher
	executor fuzzy.Executor
	metrics  *metrics.MatchMetrics
	logger   *zap.Logger

	// sessions maps a collection/session key to the cancellation flag of its
	// in-flight match call.
	sessions sync.Map
}

// Option configures an Engine.
type Option func(*Engine)

// WithExecutor sets the executor used for parallel matching.
func WithExecutor(executor fuzzy.Executor) Option {
	return func(e *Engine) {
		e.executor = executor
	}
}

// WithWorkers sets the number of shard workers used for parallel matching.
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		e.executor = fuzzy.NewPoolExecutor(workers)
	}
}

// WithScorer replaces the default fzf scoring strategy.
func WithScorer(factory matcher.ScorerFactory) Option {
	return func(e *Engine) {
		e.searcher = fuzzy.NewSearcher(factory)
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a new fuzzy search engine.
func NewEngine(opts ...Option) *Engine {
	eng := &Engine{
		collections: make(map[string]*CollectionInstance),
		searcher:    fuzzy.NewSearcher(nil),
		executor:    fuzzy.NewPoolExecutor(0),
		metrics:     metrics.NewMatchMetrics(),
		logger:      zap.L(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// CreateCollection creates a new, empty collection.
func (e *Engine) CreateCollection(settings config.CollectionSettings) error {
	if problems := settings.Validate(); len(problems) > 0 {
		return internalErrors.NewValidationError("settings", problems[0])
	}
	settings.ApplyDefaults()

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.collections[settings.Name]; exists {
		return internalErrors.NewCollectionAlreadyExistsError(settings.Name)
	}

	e.collections[settings.Name] = newCollectionInstance(settings, e)
	e.logger.Info("Collection created",
		zap.String("collection", settings.Name),
		zap.Int("max_results", settings.MaxResults),
		zap.Bool("smart_case", settings.SmartCase))
	return nil
}

// GetCollection retrieves a collection by its name.
func (e *Engine) GetCollection(name string) (services.CollectionAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.collections[name]
	if !exists {
		return nil, internalErrors.NewCollectionNotFoundError(name)
	}
	return instance, nil
}

// DeleteCollection removes a collection. Match calls already holding its
// snapshot finish normally.
func (e *Engine) DeleteCollection(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.collections[name]; !exists {
		return internalErrors.NewCollectionNotFoundError(name)
	}
	delete(e.collections, name)
	e.logger.Info("Collection deleted", zap.String("collection", name))
	return nil
}

// ListCollections returns the sorted names of all collections.
func (e *Engine) ListCollections() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.collections))
	for name := range e.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metrics returns a snapshot of match metrics.
func (e *Engine) Metrics() metrics.MatchMetricsData {
	return e.metrics.GetMetrics()
}

// MatchMetrics returns the live metrics collector.
func (e *Engine) MatchMetrics() *metrics.MatchMetrics {
	return e.metrics
}

// Workers returns the number of shard workers available to a parallel match.
func (e *Engine) Workers() int {
	return e.executor.NumWorkers()
}

// beginSession registers cancel as the in-flight call of a session and
// cancels the call it replaces. The returned func unregisters it.
func (e *Engine) beginSession(collection, sessionID string, cancel *atomic.Bool) func() {
	key := collection + "\x00" + sessionID
	if previous, loaded := e.sessions.Swap(key, cancel); loaded {
		previous.(*atomic.Bool).Store(true)
		e.logger.Debug("Superseded in-flight match",
			zap.String("collection", collection),
			zap.String("session_id", sessionID))
	}
	return func() {
		e.sessions.CompareAndDelete(key, cancel)
	}
}
