// Package fuzzy matches a query against a snapshot of candidate strings,
// either on the calling goroutine or sharded across an Executor.
package fuzzy

import (
	"sync/atomic"

	"github.com/gcbaptista/go-fuzzy-search/internal/matcher"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

// Searcher runs match calls with a fixed scoring strategy.
type Searcher struct {
	newScorer matcher.ScorerFactory
}

// NewSearcher creates a Searcher. A nil factory selects the fzf scorer.
func NewSearcher(factory matcher.ScorerFactory) *Searcher {
	if factory == nil {
		factory = matcher.NewFzfScorer
	}
	return &Searcher{newScorer: factory}
}

var defaultSearcher = NewSearcher(nil)

// MatchStrings runs Searcher.Match with the default scorer.
func MatchStrings(candidates []model.Candidate, query string, smartCase bool, maxResults int, cancel *atomic.Bool, executor Executor) []model.StringMatch {
	return defaultSearcher.Match(candidates, query, smartCase, maxResults, cancel, executor)
}

// MatchStringsSynchronously runs Searcher.MatchSynchronously with the default scorer.
func MatchStringsSynchronously(candidates []model.Candidate, query string, smartCase bool, maxResults int, cancel *atomic.Bool) []model.StringMatch {
	return defaultSearcher.MatchSynchronously(candidates, query, smartCase, maxResults, cancel)
}

// Match scores candidates in parallel shards and returns at most maxResults
// matches, best first. Setting cancel stops scoring early; matches found
// before that point are still returned.
//
// An empty query returns every candidate in input order with a zero score,
// regardless of maxResults.
func (s *Searcher) Match(candidates []model.Candidate, query string, smartCase bool, maxResults int, cancel *atomic.Bool, executor Executor) []model.StringMatch {
	if results, done := degenerate(candidates, query, maxResults); done {
		return results
	}

	q := matcher.NewQuery(query, smartCase, maxResults)

	shardCount := min(max(executor.NumWorkers(), 1), len(candidates))
	shardSize := (len(candidates) + shardCount - 1) / shardCount

	shardResults := make([][]model.StringMatch, shardCount)
	executor.Scoped(func(spawn func(task func())) {
		for shard := range shardResults {
			start := min(shard*shardSize, len(candidates))
			end := min(start+shardSize, len(candidates))
			segment := candidates[start:end]
			spawn(func() {
				results := make([]model.StringMatch, 0, min(maxResults, len(segment)))
				m := matcher.New(q, s.newScorer)
				matcher.MatchCandidates(m, segment, &results, cancel, toStringMatch)
				shardResults[shard] = results
			})
		}
	})

	var results []model.StringMatch
	for _, shard := range shardResults {
		if results == nil {
			results = shard
			continue
		}
		results = extendSorted(results, shard, maxResults, byRank)
	}
	return results
}

// MatchSynchronously scores all candidates on the calling goroutine.
func (s *Searcher) MatchSynchronously(candidates []model.Candidate, query string, smartCase bool, maxResults int, cancel *atomic.Bool) []model.StringMatch {
	if results, done := degenerate(candidates, query, maxResults); done {
		return results
	}

	q := matcher.NewQuery(query, smartCase, maxResults)
	m := matcher.New(q, s.newScorer)

	results := make([]model.StringMatch, 0, min(maxResults, len(candidates)))
	matcher.MatchCandidates(m, candidates, &results, cancel, toStringMatch)
	return results
}

// degenerate handles inputs that need no scoring.
func degenerate(candidates []model.Candidate, query string, maxResults int) ([]model.StringMatch, bool) {
	if len(candidates) == 0 || maxResults <= 0 {
		return []model.StringMatch{}, true
	}
	if query == "" {
		results := make([]model.StringMatch, len(candidates))
		for i, c := range candidates {
			results[i] = toStringMatch(c, 0)
		}
		return results, true
	}
	return nil, false
}

func toStringMatch(c model.Candidate, score float64) model.StringMatch {
	return model.StringMatch{
		CandidateID: c.ID,
		Score:       score,
		Positions:   []int{},
		Text:        c.Text,
	}
}

// byRank sorts best-ranked matches first.
func byRank(a, b model.StringMatch) int {
	return b.Compare(a)
}
