package lexicon

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// Stem returns the Snowball (Porter2) English stem of a single word.
func Stem(word string) string {
	trimmed := strings.ToLower(strings.TrimSpace(word))
	if trimmed == "" {
		return trimmed
	}
	return english.Stem(trimmed, false)
}

// StemQuery stems every token of the query.
func StemQuery(query string) string {
	tokens := Tokenize(query)
	for i, t := range tokens {
		tokens[i] = Stem(t)
	}
	return strings.Join(tokens, " ")
}
