package query

import (
	"strings"

	"github.com/skddl007/cric-chat/internal/catalog"
	"github.com/skddl007/cric-chat/internal/lexicon"
)

var contextTerms = []string{"cricket", "player", "match", "joburg super kings", "jsk"}

var connectorSwaps = []string{" and ", " & ", ", ", " with ", " alongside ", " together with "}

var togetherQualifiers = []string{"together", "same frame"}

// RefineQuery generates the ordered rewrite variants for a failing query:
// original, spelling-corrected, synonym-substituted, stemmed, synonym+stem,
// entity-alias, multi-player, stop-word-stripped, keyword rotations,
// verb-lemmatized, context-augmented. The result is deduplicated
// case-insensitively with first occurrence winning; the original is always
// first.
func RefineQuery(q string, cat *catalog.Catalog) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	var variants []string
	variants = append(variants, q)

	corrected := lexicon.CorrectSpelling(q)
	variants = append(variants, corrected)

	synonymVariants := substituteSynonyms(corrected)
	variants = append(variants, synonymVariants...)

	variants = append(variants, lexicon.StemQuery(corrected))

	for _, sv := range synonymVariants {
		variants = append(variants, lexicon.StemQuery(sv))
	}

	variants = append(variants, entityAliasVariants(corrected, cat)...)

	variants = append(variants, multiPlayerVariants(corrected, cat)...)

	stripped := lexicon.StripStopWords(corrected)
	variants = append(variants, stripped)

	variants = append(variants, keywordRotations(stripped)...)

	variants = append(variants, lexicon.LemmatizeVerbs(corrected))

	variants = append(variants, contextAugmented(corrected)...)

	return dedupe(variants)
}

// substituteSynonyms produces one variant per (token position, synonym)
// pair for noun, verb and adjective tokens. No cross products: each variant
// differs from the input in exactly one position. A token the tagger did
// not cover stays eligible.
func substituteSynonyms(q string) []string {
	tokens := lexicon.Tokenize(q)
	tags := make(map[string]string, len(tokens))
	for _, tagged := range lexicon.POSTags(q) {
		norm := lexicon.Tokenize(tagged.Text)
		if len(norm) == 0 {
			continue
		}
		if _, ok := tags[norm[0]]; !ok {
			tags[norm[0]] = tagged.Tag
		}
	}
	var out []string
	for i, token := range tokens {
		if tag, ok := tags[token]; ok &&
			!lexicon.IsNounTag(tag) && !lexicon.IsVerbTag(tag) && !lexicon.IsAdjectiveTag(tag) {
			continue
		}
		for _, syn := range lexicon.Synonyms(token) {
			rewritten := make([]string, len(tokens))
			copy(rewritten, tokens)
			rewritten[i] = syn
			out = append(out, strings.Join(rewritten, " "))
		}
	}
	return out
}

// entityAliasVariants swaps a matched entity surface form for its canonical
// term and the canonical term for each of its variants.
func entityAliasVariants(q string, cat *catalog.Catalog) []string {
	lower := strings.ToLower(q)
	var out []string
	for _, kind := range []catalog.Kind{catalog.KindAction, catalog.KindEvent, catalog.KindMood, catalog.KindSublocation} {
		canonical, ok := matchByKind(cat, kind, q)
		if !ok {
			continue
		}
		canonicalLower := strings.ToLower(canonical)
		aliases := cat.Variants(kind, canonical)
		if containsPhrase(lower, canonicalLower) {
			for _, alias := range aliases {
				out = append(out, replacePhrase(lower, canonicalLower, alias))
			}
			continue
		}
		for _, alias := range aliases {
			if containsPhrase(lower, alias) {
				out = append(out, replacePhrase(lower, alias, canonicalLower))
				for _, other := range aliases {
					if other != alias {
						out = append(out, replacePhrase(lower, alias, other))
					}
				}
				break
			}
		}
	}
	return out
}

func matchByKind(cat *catalog.Catalog, kind catalog.Kind, q string) (string, bool) {
	switch kind {
	case catalog.KindAction:
		return cat.MatchAction(q)
	case catalog.KindEvent:
		return cat.MatchEvent(q)
	case catalog.KindMood:
		return cat.MatchMood(q)
	case catalog.KindSublocation:
		return cat.MatchSublocation(q)
	}
	return "", false
}

// multiPlayerVariants rewrites multi-player queries: connector swaps, player
// alias swaps, and appended together-qualifiers.
func multiPlayerVariants(q string, cat *catalog.Catalog) []string {
	players := cat.MatchPlayers(q)
	if len(players) < 2 {
		return nil
	}
	lower := strings.ToLower(q)
	var out []string

	for _, found := range connectorSwaps {
		if !strings.Contains(lower, found) {
			continue
		}
		for _, replacement := range connectorSwaps {
			if replacement == found {
				continue
			}
			out = append(out, strings.ReplaceAll(lower, found, replacement))
		}
	}

	for _, p := range players {
		nameLower := strings.ToLower(p.Name)
		if !containsPhrase(lower, nameLower) {
			continue
		}
		for _, alias := range catalog.PlayerAliasForms(p) {
			if alias == nameLower {
				continue
			}
			out = append(out, replacePhrase(lower, nameLower, alias))
		}
	}

	for _, qualifier := range togetherQualifiers {
		if !containsPhrase(lower, qualifier) {
			out = append(out, lower+" "+qualifier)
		}
	}
	return out
}

// keywordRotations rotates the noun and verb keywords so different leading
// keywords get a chance to drive the structured match. Fewer than two
// keywords yields nothing.
func keywordRotations(stripped string) []string {
	tokens := lexicon.NounVerbTokens(stripped)
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 1; i < len(tokens); i++ {
		rotated := append(append([]string{}, tokens[i:]...), tokens[:i]...)
		out = append(out, strings.Join(rotated, " "))
	}
	return out
}

// contextAugmented appends domain context terms not already present.
func contextAugmented(q string) []string {
	lower := strings.ToLower(q)
	var out []string
	for _, term := range contextTerms {
		if !containsPhrase(lower, term) {
			out = append(out, lower+" "+term)
		}
	}
	return out
}

// replacePhrase replaces the first word-boundary occurrence of phrase.
func replacePhrase(text, phrase, replacement string) string {
	start := 0
	for {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return text
		}
		idx += start
		end := idx + len(phrase)
		leftOK := idx == 0 || !isWordByte(text[idx-1])
		rightOK := end == len(text) || !isWordByte(text[end])
		if leftOK && rightOK {
			return text[:idx] + replacement + text[end:]
		}
		start = idx + 1
	}
}

func dedupe(variants []string) []string {
	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
