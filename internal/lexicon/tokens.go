// Package lexicon provides the lexical normalization primitives used by the
// query classifier and the refinement engine: tokenization, stop-word
// stripping, spelling correction, stemming, verb lemmatization, synonym
// lookup and part-of-speech tagging. All operations are pure.
package lexicon

import "strings"

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "in": {}, "on": {}, "at": {}, "of": {},
	"for": {}, "to": {}, "from": {}, "by": {}, "me": {}, "my": {}, "i": {},
	"you": {}, "your": {}, "it": {}, "its": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "there": {}, "here": {}, "do": {}, "does": {},
	"did": {}, "can": {}, "could": {}, "will": {}, "would": {}, "should": {},
	"show": {}, "find": {}, "get": {}, "give": {}, "display": {}, "fetch": {},
	"picture": {}, "pictures": {}, "photo": {}, "photos": {}, "image": {},
	"images": {}, "pic": {}, "pics": {}, "some": {}, "any": {}, "all": {},
	"please": {}, "want": {}, "need": {}, "see": {}, "look": {}, "looking": {},
}

// Tokenize lowercases the input, strips punctuation except intra-word
// apostrophes, and splits on whitespace.
func Tokenize(s string) []string {
	var b strings.Builder
	lower := strings.ToLower(s)
	for i, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '\'':
			// Keep apostrophes between letters ("what's"), drop quotes.
			if i > 0 && i+1 < len(lower) && isLetter(lower[i-1]) && isLetter(lower[i+1]) {
				b.WriteRune(r)
			} else {
				b.WriteByte(' ')
			}
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}

// IsStopWord reports whether the token belongs to the stop-word list.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}

// StripStopWords removes stop words from the query. If stripping would leave
// nothing, the original query is returned unchanged so downstream retrieval
// always has something to work with.
func StripStopWords(query string) string {
	tokens := Tokenize(query)
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !IsStopWord(t) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return query
	}
	return strings.Join(kept, " ")
}

// SignificantTokens returns the non-stop-word tokens of the query.
func SignificantTokens(query string) []string {
	tokens := Tokenize(query)
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !IsStopWord(t) {
			kept = append(kept, t)
		}
	}
	return kept
}
