package ops

import (
	"github.com/hpungsan/stringvault/internal/analysis"
)

// FiltersApplied echoes every list filter the caller could set.
// Filters that were not requested serialize as null.
type FiltersApplied struct {
	IsPalindrome      *bool   `json:"is_palindrome" yaml:"is_palindrome"`
	MinLength         *int    `json:"min_length" yaml:"min_length"`
	MaxLength         *int    `json:"max_length" yaml:"max_length"`
	WordCount         *int    `json:"word_count" yaml:"word_count"`
	ContainsCharacter *string `json:"contains_character" yaml:"contains_character"`
}

// echoFilters converts a filter set into its always-present echo form.
func echoFilters(f analysis.Filters) FiltersApplied {
	return FiltersApplied{
		IsPalindrome:      f.IsPalindrome,
		MinLength:         f.MinLength,
		MaxLength:         f.MaxLength,
		WordCount:         f.WordCount,
		ContainsCharacter: f.ContainsCharacter,
	}
}

// normalizeFilters drops an empty contains_character, which never
// restricts the result.
func normalizeFilters(f analysis.Filters) analysis.Filters {
	if f.ContainsCharacter != nil && *f.ContainsCharacter == "" {
		f.ContainsCharacter = nil
	}
	return f
}

// matchAll returns the records whose stored properties satisfy f, in input order.
// The result is never nil.
func matchAll(records []analysis.Record, f analysis.Filters) []analysis.Record {
	out := make([]analysis.Record, 0, len(records))
	for _, rec := range records {
		if f.Match(rec.Properties) {
			out = append(out, rec)
		}
	}
	return out
}
