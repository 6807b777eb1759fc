package lexicon

import (
	prose "github.com/jdkato/prose/v2"
)

// TaggedToken pairs a token with its Penn Treebank part-of-speech tag.
type TaggedToken struct {
	Text string
	Tag  string
}

// POSTags tags the query tokens. If the tagger fails, every token is tagged
// "NN" so callers can still treat the query as a bag of nouns.
func POSTags(query string) []TaggedToken {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}
	doc, err := prose.NewDocument(query, prose.WithSegmentation(false), prose.WithExtraction(false))
	if err != nil {
		return fallbackNounTags(tokens)
	}
	tagged := doc.Tokens()
	if len(tagged) == 0 {
		return fallbackNounTags(tokens)
	}
	out := make([]TaggedToken, 0, len(tagged))
	for _, t := range tagged {
		out = append(out, TaggedToken{Text: t.Text, Tag: t.Tag})
	}
	return out
}

func fallbackNounTags(tokens []string) []TaggedToken {
	out := make([]TaggedToken, len(tokens))
	for i, t := range tokens {
		out[i] = TaggedToken{Text: t, Tag: "NN"}
	}
	return out
}

// IsVerbTag reports whether a Penn Treebank tag denotes a verb form.
func IsVerbTag(tag string) bool {
	switch tag {
	case "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		return true
	}
	return false
}

// IsNounTag reports whether a Penn Treebank tag denotes a noun form.
func IsNounTag(tag string) bool {
	switch tag {
	case "NN", "NNS", "NNP", "NNPS":
		return true
	}
	return false
}

// IsAdjectiveTag reports whether a Penn Treebank tag denotes an adjective.
func IsAdjectiveTag(tag string) bool {
	switch tag {
	case "JJ", "JJR", "JJS":
		return true
	}
	return false
}

// NounVerbTokens extracts the noun and verb tokens of the query, lowercased,
// stop words removed, first occurrence kept.
func NounVerbTokens(query string) []string {
	return tokensByTag(query, func(tag string) bool {
		return IsNounTag(tag) || IsVerbTag(tag)
	})
}

// NounAdjectiveTokens extracts the noun and adjective tokens of the query,
// lowercased, stop words removed, first occurrence kept.
func NounAdjectiveTokens(query string) []string {
	return tokensByTag(query, func(tag string) bool {
		return IsNounTag(tag) || IsAdjectiveTag(tag)
	})
}

func tokensByTag(query string, keep func(string) bool) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tagged := range POSTags(query) {
		if !keep(tagged.Tag) {
			continue
		}
		norm := Tokenize(tagged.Text)
		if len(norm) == 0 {
			continue
		}
		word := norm[0]
		if IsStopWord(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}
