package metrics

import (
	"sync"
	"time"
)

// MatchMode identifies which execution path served a match call.
type MatchMode string

const (
	MatchModeParallel    MatchMode = "parallel"
	MatchModeSynchronous MatchMode = "synchronous"
	MatchModeEmptyQuery  MatchMode = "empty_query"
)

// MatchMetricsData represents match metrics data without mutex (safe for copying)
type MatchMetricsData struct {
	MatchesServed        int64               `json:"matches_served"`
	MatchesCancelled     int64               `json:"matches_cancelled"`
	ResultsReturned      int64               `json:"results_returned"`
	TotalExecutionTime   time.Duration       `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration       `json:"average_execution_time_ns"`
	MatchesByMode        map[MatchMode]int64 `json:"matches_by_mode"`
	LastUpdated          time.Time           `json:"last_updated"`
}

// MatchMetrics tracks performance metrics for match calls
type MatchMetrics struct {
	mu                   sync.RWMutex
	matchesServed        int64
	matchesCancelled     int64
	resultsReturned      int64
	totalExecutionTime   time.Duration
	matchesByMode        map[MatchMode]int64
	executionTimesByMode map[MatchMode][]time.Duration
	lastUpdated          time.Time
}

// NewMatchMetrics creates a new metrics collector
func NewMatchMetrics() *MatchMetrics {
	return &MatchMetrics{
		matchesByMode:        make(map[MatchMode]int64),
		executionTimesByMode: make(map[MatchMode][]time.Duration),
		lastUpdated:          time.Now(),
	}
}

// RecordMatch records one finished match call
func (m *MatchMetrics) RecordMatch(mode MatchMode, executionTime time.Duration, resultCount int, cancelled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.matchesServed++
	if cancelled {
		m.matchesCancelled++
	}
	m.resultsReturned += int64(resultCount)
	m.totalExecutionTime += executionTime
	m.matchesByMode[mode]++

	// Keep only the last 100 execution times per mode
	m.executionTimesByMode[mode] = append(m.executionTimesByMode[mode], executionTime)
	if len(m.executionTimesByMode[mode]) > 100 {
		m.executionTimesByMode[mode] = m.executionTimesByMode[mode][1:]
	}

	m.lastUpdated = time.Now()
}

// GetMetrics returns a copy of current metrics without mutex (safe for copying)
func (m *MatchMetrics) GetMetrics() MatchMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byMode := make(map[MatchMode]int64, len(m.matchesByMode))
	for k, v := range m.matchesByMode {
		byMode[k] = v
	}

	var average time.Duration
	if m.matchesServed > 0 {
		average = m.totalExecutionTime / time.Duration(m.matchesServed)
	}

	return MatchMetricsData{
		MatchesServed:        m.matchesServed,
		MatchesCancelled:     m.matchesCancelled,
		ResultsReturned:      m.resultsReturned,
		TotalExecutionTime:   m.totalExecutionTime,
		AverageExecutionTime: average,
		MatchesByMode:        byMode,
		LastUpdated:          m.lastUpdated,
	}
}

// GetAverageExecutionTimeByMode returns the recent average execution time for a mode
func (m *MatchMetrics) GetAverageExecutionTimeByMode(mode MatchMode) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	times := m.executionTimesByMode[mode]
	if len(times) == 0 {
		return 0
	}

	var total time.Duration
	for _, t := range times {
		total += t
	}
	return total / time.Duration(len(times))
}

// GetCancellationRate returns the share of calls that were cancelled (0.0 to 1.0)
func (m *MatchMetrics) GetCancellationRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.matchesServed == 0 {
		return 0
	}
	return float64(m.matchesCancelled) / float64(m.matchesServed)
}
