package model

import "github.com/gcbaptista/go-fuzzy-search/charbag"

// Candidate is one string that a query can be matched against.
// It is built once by the caller and never mutated by the matcher.
type Candidate struct {
	ID      int             `json:"id"`   // Caller-assigned identifier, unique within one match call
	Text    string          `json:"text"` // Original string
	CharBag charbag.CharBag `json:"-"`    // Fingerprint of Text, computed at construction
}

// NewCandidate creates a Candidate and precomputes its CharBag.
func NewCandidate(id int, text string) Candidate {
	return Candidate{
		ID:      id,
		Text:    text,
		CharBag: charbag.FromString(text),
	}
}

// NewCandidates creates one Candidate per string, using the slice index as ID.
func NewCandidates(texts ...string) []Candidate {
	candidates := make([]Candidate, len(texts))
	for i, text := range texts {
		candidates[i] = NewCandidate(i, text)
	}
	return candidates
}

// HasChars reports whether the candidate could contain every character of bag.
func (c Candidate) HasChars(bag charbag.CharBag) bool {
	return c.CharBag.IsSuperset(bag)
}

// String returns the candidate text.
func (c Candidate) String() string {
	return c.Text
}
