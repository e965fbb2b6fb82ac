package search

import "strings"

// Tokenize lowercases text and splits it on any run of characters
// outside [a-z0-9]. No stemming, no stopword removal, no Unicode
// normalization beyond case folding. Queries and document titles go
// through the same function so term matching stays symmetric.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}
