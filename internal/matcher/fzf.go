package matcher

import (
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Slab sizes used by fzf for its own matcher goroutines.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

// caseFallbackPenalty scales the score when the best case-insensitive alignment
// had to be replaced by one that honors smart case.
const caseFallbackPenalty = 0.8

func init() {
	algo.Init("default")
}

// InitScheme selects fzf's bonus scheme ("default", "path" or "history").
// It changes process-wide tables and must be called before any matching starts.
func InitScheme(scheme string) error {
	if !algo.Init(scheme) {
		return fmt.Errorf("unknown scoring scheme '%s'", scheme)
	}
	return nil
}

// FzfScorer scores candidates with fzf's FuzzyMatchV2 algorithm.
type FzfScorer struct {
	query     *Query
	hasUpper  bool
	slab      *util.Slab
	offsets   []int
	positions []int
}

// NewFzfScorer is the default ScorerFactory.
func NewFzfScorer(q *Query) Scorer {
	return &FzfScorer{
		query:    q,
		hasUpper: q.SmartCase && q.HasUpper(),
		slab:     util.MakeSlab(slab16Size, slab32Size),
	}
}

// Score implements Scorer.
func (s *FzfScorer) Score(text string) (float64, []int, bool) {
	chars := util.ToChars([]byte(text))
	result, runeIndices := algo.FuzzyMatchV2(false, false, true, &chars, s.query.Lower, true, s.slab)
	if result.Start < 0 || runeIndices == nil {
		return 0, nil, false
	}

	// fzf reports rune indices; callers need byte offsets.
	s.offsets = s.offsets[:0]
	for offset := range text {
		s.offsets = append(s.offsets, offset)
	}
	positions := s.positions[:0]
	for _, ix := range *runeIndices {
		positions = append(positions, s.offsets[ix])
	}
	slices.Sort(positions)

	score := float64(result.Score)
	if s.hasUpper && !s.respectsCase(text, positions) {
		var ok bool
		positions, ok = s.caseAwareAlignment(text, positions[:0])
		if !ok {
			s.positions = positions
			return 0, nil, false
		}
		score *= caseFallbackPenalty
	}

	s.positions = positions
	return score, positions, true
}

// respectsCase checks that every uppercase query character landed on an
// identical character.
func (s *FzfScorer) respectsCase(text string, positions []int) bool {
	for i, offset := range positions {
		if !s.query.CaseSensitiveAt(i) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(text[offset:])
		if r != s.query.Chars[i] {
			return false
		}
	}
	return true
}

// caseAwareAlignment finds the leftmost alignment of the query in text where
// uppercase query characters match exactly and the rest match any case.
func (s *FzfScorer) caseAwareAlignment(text string, positions []int) ([]int, bool) {
	q := s.query
	j := 0
	for offset, r := range text {
		if j == len(q.Chars) {
			break
		}
		var matched bool
		if q.CaseSensitiveAt(j) {
			matched = r == q.Chars[j]
		} else {
			matched = unicode.ToLower(r) == q.Lower[j]
		}
		if matched {
			positions = append(positions, offset)
			j++
		}
	}
	return positions, j == len(q.Chars)
}
