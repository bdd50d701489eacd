// Package charbag provides a compact, case-folded fingerprint of the characters
// in a string. It is used as a cheap pre-filter: a candidate whose bag is not a
// superset of the query's bag cannot contain the query as a subsequence.
package charbag

// CharBag packs character counts into a single uint64.
//
// Layout:
//   - bits 0..51: two bits per ASCII letter a-z, a saturating count (0, 1, 2+)
//     stored as 00, 01, 11 so that superset testing is a single mask check
//   - bits 52..61: one bit per digit 0-9
//   - bit 62: '-'
//
// Any other character (including all non-ASCII) is not recorded, which keeps
// the test conservative: it never rejects a string that could match.
type CharBag uint64

const (
	digitShift = 52
	dashBit    = 62
)

// FromString builds the bag for s.
func FromString(s string) CharBag {
	var bag CharBag
	for _, r := range s {
		bag.Insert(r)
	}
	return bag
}

// FromRunes builds the bag for a rune sequence.
func FromRunes(runes []rune) CharBag {
	var bag CharBag
	for _, r := range runes {
		bag.Insert(r)
	}
	return bag
}

// Insert records one occurrence of r.
func (b *CharBag) Insert(r rune) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	switch {
	case r >= 'a' && r <= 'z':
		shift := uint(r-'a') * 2
		count := (uint64(*b) >> shift) & 0b11
		count = ((count << 1) | 1) & 0b11
		*b |= CharBag(count << shift)
	case r >= '0' && r <= '9':
		*b |= CharBag(1) << (digitShift + uint(r-'0'))
	case r == '-':
		*b |= CharBag(1) << dashBit
	}
}

// IsSuperset reports whether b contains at least the characters of other.
func (b CharBag) IsSuperset(other CharBag) bool {
	return b&other == other
}
