package analysis

// Filters is a conjunction of optional predicates over Properties.
// A nil field is not applied.
type Filters struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty" yaml:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty" yaml:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty" yaml:"contains_character,omitempty"`
}

// Empty reports whether no predicate is set.
func (f Filters) Empty() bool {
	return f.IsPalindrome == nil && f.MinLength == nil && f.MaxLength == nil &&
		f.WordCount == nil && f.ContainsCharacter == nil
}

// Match reports whether p satisfies every set predicate.
// Length bounds are inclusive. ContainsCharacter matches when it is a key
// of the frequency map, so a multi-character value never matches.
func (f Filters) Match(p Properties) bool {
	if f.IsPalindrome != nil && p.IsPalindrome != *f.IsPalindrome {
		return false
	}
	if f.MinLength != nil && p.Length < *f.MinLength {
		return false
	}
	if f.MaxLength != nil && p.Length > *f.MaxLength {
		return false
	}
	if f.WordCount != nil && p.WordCount != *f.WordCount {
		return false
	}
	if f.ContainsCharacter != nil {
		if _, ok := p.CharacterFrequencyMap[*f.ContainsCharacter]; !ok {
			return false
		}
	}
	return true
}
