package lexicon

import "strings"

// Domain synonym groups. Lookup is bidirectional within a group: every
// member maps to the other members, in group order.
var synonymGroups = [][]string{
	{"batting", "hitting", "striking"},
	{"bowling", "pitching", "delivering"},
	{"fielding", "catching", "stopping"},
	{"celebrating", "celebration", "cheering", "rejoicing"},
	{"wicketkeeping", "keeping"},
	{"ground", "field", "stadium"},
	{"picture", "photo", "image"},
	{"match", "game", "fixture"},
	{"team", "squad", "side"},
	{"practice", "training", "nets"},
	{"fans", "supporters", "crowd", "spectators"},
	{"happy", "joyful", "cheerful"},
	{"captain", "skipper"},
	{"coach", "trainer"},
	{"huddle", "gathering"},
	{"victory", "win", "triumph"},
}

var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string][]string {
	index := make(map[string][]string)
	for _, group := range synonymGroups {
		for _, word := range group {
			for _, other := range group {
				if other == word {
					continue
				}
				index[word] = append(index[word], other)
			}
		}
	}
	return index
}

// Synonyms returns the domain synonyms for a word, in stable order, or nil.
func Synonyms(word string) []string {
	syns := synonymIndex[strings.ToLower(strings.TrimSpace(word))]
	if len(syns) == 0 {
		return nil
	}
	out := make([]string, len(syns))
	copy(out, syns)
	return out
}
