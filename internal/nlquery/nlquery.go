// Package nlquery turns a free-text query into a filter set using a fixed
// list of trigger phrases. It does no language understanding: a query is
// interpretable only when one of the phrases below appears in it.
//
//	"single word" / "one word"   word_count = 1
//	"palindrom"                  is_palindrome = true
//	"longer than N"              min_length = N+1 (N in any script's decimal digits)
//	"contain" ... "letter X"     contains_character = X
package nlquery

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/hpungsan/stringvault/internal/analysis"
)

var (
	longerThanRegex = regexp.MustCompile(`longer than (\p{Nd}+)`)
	letterRegex     = regexp.MustCompile(`letter ([a-z0-9])`)
)

// Interpretation is a parsed query along with the text it came from.
type Interpretation struct {
	Original      string           `json:"original" yaml:"original"`
	ParsedFilters analysis.Filters `json:"parsed_filters" yaml:"parsed_filters"`
}

// Parse interprets query. ok is false when no trigger matched.
func Parse(query string) (*Interpretation, bool) {
	q := strings.ToLower(query)
	var f analysis.Filters

	if strings.Contains(q, "single word") || strings.Contains(q, "one word") {
		one := 1
		f.WordCount = &one
	}

	if strings.Contains(q, "palindrom") {
		yes := true
		f.IsPalindrome = &yes
	}

	if strings.Contains(q, "longer than") {
		if m := longerThanRegex.FindStringSubmatch(q); m != nil {
			// Overflowing numbers are ignored rather than clamped.
			if n, ok := parseDigits(m[1]); ok && n < math.MaxInt {
				minLen := n + 1
				f.MinLength = &minLen
			}
		}
	}

	// The letter may appear anywhere in the query, not only after "contain".
	if strings.Contains(q, "contain") {
		if m := letterRegex.FindStringSubmatch(q); m != nil {
			ch := m[1]
			f.ContainsCharacter = &ch
		}
	}

	if f.Empty() {
		return nil, false
	}
	return &Interpretation{Original: query, ParsedFilters: f}, true
}

// parseDigits parses a run of Unicode decimal digits ("42", "٤٢", "４２").
// ok is false on overflow or a non-digit rune.
func parseDigits(s string) (int, bool) {
	n := 0
	for _, r := range s {
		d := digitValue(r)
		if d < 0 || n > (math.MaxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// digitValue returns the numeric value of a decimal digit rune, or -1.
// Decimal digits are encoded in contiguous runs of whole 0-9 sets, so the
// value is the offset from the start of the run, mod 10.
func digitValue(r rune) int {
	if r >= '0' && r <= '9' {
		return int(r - '0')
	}
	if !unicode.IsDigit(r) {
		return -1
	}
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return int(r-start) % 10
}
