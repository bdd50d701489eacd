package charbag

import "testing"

func TestIsSuperset(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     bool
	}{
		{"identical", "hello", "hello", true},
		{"subsequence", "src/main.go", "smg", true},
		{"case folded", "README.md", "readme", true},
		{"missing letter", "hello", "hex", false},
		{"double letter present", "aab", "aa", true},
		{"double letter missing", "ab", "aa", false},
		{"saturates at two", "aa", "aaaa", true},
		{"digits", "v1.2.3", "123", true},
		{"digit missing", "v1.2", "3", false},
		{"dash", "foo-bar", "o-b", true},
		{"dash missing", "foo_bar", "-", false},
		{"non ascii ignored", "abc", "é", true},
		{"empty needle", "abc", "", true},
		{"empty haystack", "", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromString(tt.haystack).IsSuperset(FromString(tt.needle))
			if got != tt.want {
				t.Errorf("FromString(%q).IsSuperset(FromString(%q)) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
			}
		})
	}
}

func TestFromRunesMatchesFromString(t *testing.T) {
	s := "Hello-World 42"
	if FromRunes([]rune(s)) != FromString(s) {
		t.Errorf("FromRunes and FromString disagree for %q", s)
	}
}

func TestInsertCounts(t *testing.T) {
	var bag CharBag
	bag.Insert('a')
	if bag != 0b01 {
		t.Fatalf("after one 'a': got %b, want 01", uint64(bag))
	}
	bag.Insert('A')
	if bag != 0b11 {
		t.Fatalf("after two 'a': got %b, want 11", uint64(bag))
	}
	bag.Insert('a')
	if bag != 0b11 {
		t.Fatalf("count should saturate: got %b, want 11", uint64(bag))
	}
}
