package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Properties is the set of values derived from a stored string.
// All character counts are in runes (Unicode code points), not bytes.
type Properties struct {
	Length                int            `json:"length" yaml:"length"`
	IsPalindrome          bool           `json:"is_palindrome" yaml:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters" yaml:"unique_characters"`
	WordCount             int            `json:"word_count" yaml:"word_count"`
	SHA256Hash            string         `json:"sha256_hash" yaml:"sha256_hash"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map" yaml:"character_frequency_map"`
}

// Compute derives the full property set for value.
func Compute(value string) Properties {
	freq := Frequencies(value)
	return Properties{
		Length:                utf8.RuneCountInString(value),
		IsPalindrome:          IsPalindrome(value),
		UniqueCharacters:      len(freq),
		WordCount:             len(strings.Fields(value)),
		SHA256Hash:            Hash(value),
		CharacterFrequencyMap: freq,
	}
}

// Hash returns the lowercase hex SHA-256 digest of value's UTF-8 bytes.
// It doubles as the record ID.
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// IsPalindrome reports whether value reads the same in both directions
// once leading/trailing whitespace is trimmed and it is lowercased.
// Internal whitespace is significant: "race car" is not a palindrome.
func IsPalindrome(value string) bool {
	runes := []rune(strings.ToLower(strings.TrimSpace(value)))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}

// Frequencies counts occurrences of each rune in value, keyed by the rune
// as a one-character string.
func Frequencies(value string) map[string]int {
	freq := make(map[string]int)
	for _, r := range value {
		freq[string(r)]++
	}
	return freq
}
