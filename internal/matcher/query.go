// Package matcher scores candidates against a normalized query and keeps the
// best results. The scoring heuristic sits behind the Scorer interface so that
// orchestration never depends on how a score is computed.
package matcher

import (
	"unicode"

	"github.com/gcbaptista/go-fuzzy-search/charbag"
)

// Query holds the artifacts derived once from a raw query string and shared
// read-only by every shard of a match call.
type Query struct {
	Chars      []rune          // Original-case characters
	Lower      []rune          // Lowercased characters
	Bag        charbag.CharBag // Fingerprint of Lower
	SmartCase  bool            // Uppercase query letters must match exactly
	MaxResults int             // Result cap
}

// NewQuery normalizes raw into matching artifacts. Lowercasing is done per
// character so that Chars and Lower stay index-aligned.
func NewQuery(raw string, smartCase bool, maxResults int) *Query {
	chars := []rune(raw)
	lower := make([]rune, len(chars))
	for i, r := range chars {
		lower[i] = unicode.ToLower(r)
	}
	return &Query{
		Chars:      chars,
		Lower:      lower,
		Bag:        charbag.FromRunes(lower),
		SmartCase:  smartCase,
		MaxResults: maxResults,
	}
}

// Empty reports whether the query has no characters.
func (q *Query) Empty() bool {
	return len(q.Chars) == 0
}

// CaseSensitiveAt reports whether the query character at i requires an exact
// case match.
func (q *Query) CaseSensitiveAt(i int) bool {
	return q.SmartCase && unicode.IsUpper(q.Chars[i])
}

// HasUpper reports whether any query character is uppercase.
func (q *Query) HasUpper() bool {
	for _, r := range q.Chars {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
