package matcher

import (
	"slices"
	"sync/atomic"

	"github.com/gcbaptista/go-fuzzy-search/charbag"
)

// Scorer computes how well one candidate text matches the query it was built
// for. A Scorer is used by a single goroutine; it may keep scratch buffers.
type Scorer interface {
	// Score returns the candidate's score and the byte offsets of the matched
	// characters in text, strictly increasing and on UTF-8 boundaries. ok is
	// false when text does not match. The positions slice is only valid until
	// the next call.
	Score(text string) (score float64, positions []int, ok bool)
}

// ScorerFactory builds a Scorer bound to one query.
type ScorerFactory func(q *Query) Scorer

// Candidate is anything the matcher can pre-filter and score.
type Candidate interface {
	HasChars(bag charbag.CharBag) bool
	String() string
}

// Result is a ranked match value. Compare returns a positive number when the
// receiver ranks above other.
type Result[M any] interface {
	Compare(other M) int
	WithPositions(positions []int) M
}

// Matcher runs one Scorer over a sequence of candidates, keeping the best
// Query.MaxResults results. Each shard owns its own Matcher.
type Matcher struct {
	query  *Query
	scorer Scorer
}

// New creates a Matcher for query using a Scorer from factory.
func New(query *Query, factory ScorerFactory) *Matcher {
	return &Matcher{
		query:  query,
		scorer: factory(query),
	}
}

// MatchCandidates scores every admissible candidate and merges the results into
// results, which is kept sorted best-first and capped at the query's
// MaxResults. build materializes a result for a candidate and its score.
//
// cancel is polled before each candidate; once set, no further candidates are
// examined and whatever is already in results is kept.
func MatchCandidates[C Candidate, M Result[M]](m *Matcher, candidates []C, results *[]M, cancel *atomic.Bool, build func(C, float64) M) {
	limit := m.query.MaxResults
	if limit <= 0 {
		return
	}

	for _, candidate := range candidates {
		if cancel != nil && cancel.Load() {
			break
		}
		if !candidate.HasChars(m.query.Bag) {
			continue
		}

		score, positions, ok := m.scorer.Score(candidate.String())
		if !ok {
			continue
		}

		result := build(candidate, score)
		i, found := slices.BinarySearchFunc(*results, result, func(existing, target M) int {
			return target.Compare(existing)
		})
		if found || i >= limit {
			continue
		}

		*results = slices.Insert(*results, i, result.WithPositions(slices.Clone(positions)))
		if len(*results) > limit {
			*results = (*results)[:limit]
		}
	}
}
