package model

import (
	"iter"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Span is a half-open byte range [Start, End) within a match's text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// StringMatch is a single ranked result of a fuzzy match.
type StringMatch struct {
	CandidateID int     `json:"candidate_id"`
	Score       float64 `json:"score"`
	Positions   []int   `json:"positions"` // Byte offsets of matched characters, strictly increasing
	Text        string  `json:"text"`
}

// WithPositions returns a copy of m carrying the given matched byte offsets.
func (m StringMatch) WithPositions(positions []int) StringMatch {
	m.Positions = positions
	return m
}

// Compare orders matches by rank: a positive result means m ranks above other.
// Higher scores rank higher; equal scores rank the smaller CandidateID higher.
// Scores that cannot be ordered (NaN) compare as equal.
func (m StringMatch) Compare(other StringMatch) int {
	switch {
	case m.Score > other.Score:
		return 1
	case m.Score < other.Score:
		return -1
	}
	switch {
	case m.CandidateID < other.CandidateID:
		return 1
	case m.CandidateID > other.CandidateID:
		return -1
	}
	return 0
}

// Equal reports whether m and other hold the same rank.
func (m StringMatch) Equal(other StringMatch) bool {
	return m.Compare(other) == 0
}

// Ranges coalesces Positions into maximal runs of adjacent matched characters.
// The sequence is lazy and can be iterated any number of times.
//
// A position that is out of range or not on a UTF-8 boundary is an invariant
// violation: it is logged and the sequence ends before the affected span.
func (m StringMatch) Ranges() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		positions := m.Positions
		for i := 0; i < len(positions); {
			start := positions[i]
			charLen, ok := m.charLenAt(start)
			if !ok {
				m.logInvalidIndex(start)
				return
			}
			end := start + charLen
			i++
			for i < len(positions) && positions[i] == end {
				charLen, ok := m.charLenAt(end)
				if !ok {
					m.logInvalidIndex(end)
					return
				}
				end += charLen
				i++
			}
			if !yield(Span{Start: start, End: end}) {
				return
			}
		}
	}
}

// SpanList collects Ranges into a slice.
func (m StringMatch) SpanList() []Span {
	spans := make([]Span, 0, len(m.Positions))
	for span := range m.Ranges() {
		spans = append(spans, span)
	}
	return spans
}

// charLenAt returns the byte length of the character starting at index ix.
func (m StringMatch) charLenAt(ix int) (int, bool) {
	if ix < 0 || ix >= len(m.Text) || !utf8.RuneStart(m.Text[ix]) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(m.Text[ix:])
	if r == utf8.RuneError && size <= 1 {
		// Invalid byte sequences are still single characters in the text.
		return 1, true
	}
	return size, true
}

func (m StringMatch) logInvalidIndex(ix int) {
	zap.L().Error("Invariant violation: index out of range or not on a utf-8 boundary",
		zap.Int("index", ix),
		zap.String("string", m.Text))
}
