package nlquery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/stringvault/internal/analysis"
)

func boolPtr(b bool) *bool       { return &b }
func intPtr(i int) *int          { return &i }
func stringPtr(s string) *string { return &s }

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  analysis.Filters
	}{
		{
			name:  "single word palindrome",
			query: "find a single word that is a palindrome",
			want:  analysis.Filters{WordCount: intPtr(1), IsPalindrome: boolPtr(true)},
		},
		{
			name:  "one word",
			query: "strings with one word",
			want:  analysis.Filters{WordCount: intPtr(1)},
		},
		{
			name:  "longer than is exclusive",
			query: "longer than 5",
			want:  analysis.Filters{MinLength: intPtr(6)},
		},
		{
			name:  "palindromic substring",
			query: "all palindromic strings",
			want:  analysis.Filters{IsPalindrome: boolPtr(true)},
		},
		{
			name:  "contains letter",
			query: "strings containing the letter z",
			want:  analysis.Filters{ContainsCharacter: stringPtr("z")},
		},
		{
			name:  "contains digit",
			query: "contains letter 7",
			want:  analysis.Filters{ContainsCharacter: stringPtr("7")},
		},
		{
			name:  "case insensitive",
			query: "PALINDROMES LONGER THAN 10 CONTAINING THE LETTER A",
			want: analysis.Filters{
				IsPalindrome:      boolPtr(true),
				MinLength:         intPtr(11),
				ContainsCharacter: stringPtr("a"),
			},
		},
		{
			name:  "first longer than wins",
			query: "longer than 3 or longer than 9",
			want:  analysis.Filters{MinLength: intPtr(4)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.query)
			require.True(t, ok)
			require.Equal(t, tt.query, got.Original)
			require.Equal(t, tt.want, got.ParsedFilters)
		})
	}
}

func TestParse_Unparseable(t *testing.T) {
	queries := []string{
		"hello",
		"",
		"longer than five",            // trigger phrase without digits
		"the letter a",                // letter without "contain"
		"containing something",        // "contain" without a letter
		"words with a capital letter", // no trigger
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			got, ok := Parse(q)
			require.False(t, ok)
			require.Nil(t, got)
		})
	}
}

func TestParse_NonASCIIDigits(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"arabic-indic", "longer than ٥", 6},
		{"arabic-indic multi", "longer than ١٢", 13},
		{"devanagari", "longer than ९", 10},
		{"fullwidth", "longer than ２０", 21},
		{"mixed scripts", "longer than 1٥", 16},
		{"mathematical double-struck zero", "longer than 1\U0001D7D8", 11},
		{"mathematical monospace nine", "longer than \U0001D7FF", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.query)
			require.True(t, ok)
			require.Equal(t, intPtr(tt.want), got.ParsedFilters.MinLength)
		})
	}
}

func TestDigitValue(t *testing.T) {
	require.Equal(t, 7, digitValue('7'))
	require.Equal(t, 3, digitValue('٣'))
	require.Equal(t, 0, digitValue('\U0001D7CE'))
	require.Equal(t, 9, digitValue('\U0001D7D7'))
	require.Equal(t, 0, digitValue('\U0001D7D8'))
	require.Equal(t, -1, digitValue('x'))
	require.Equal(t, -1, digitValue('Ⅳ'))
}

func TestParse_OverflowIgnored(t *testing.T) {
	_, ok := Parse("longer than 99999999999999999999999")
	require.False(t, ok)
}
