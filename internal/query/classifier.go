// Package query classifies free-text archive queries and generates the
// ordered rewrite variants the retriever retries when a query comes back
// empty.
package query

import (
	"strings"

	"github.com/skddl007/cric-chat/internal/catalog"
)

// Category is the kind of answer a query asks for.
type Category string

const (
	CategoryCounting    Category = "counting"
	CategoryTabular     Category = "tabular"
	CategoryDescriptive Category = "descriptive"
	CategoryImage       Category = "image"
)

var countingPhrases = []string{
	"how many", "count of", "number of", "total number", "total count",
	"count", "tally", "quantity", "sum",
}

var tabularPhrases = []string{
	"table", "list all", "show all", "display all", "summarize",
	"summary of", "statistics", "stats", "breakdown", "compare", "comparison",
}

var descriptivePhrases = []string{
	"describe", "description", "tell me about", "what is happening",
	"explain", "details of", "what's in",
}

var togetherTerms = []string{
	"together", "same frame", "single frame", "with each other",
	"standing together", "group", "team",
}

var soloTerms = []string{
	"solo", "alone", "individual", "single", "by himself", "by herself",
}

var groupPhotoTerms = []string{
	"group photo", "team photo", "players together", "group of players",
	"multiple players",
}

var fanTerms = []string{
	"fan", "fans", "crowd", "spectator", "spectators", "audience",
	"supporters", "meeting fans", "with fans",
}

var multiPlayerConnectors = []string{
	"and", "&", "with", "together", "same frame", "single frame",
	"standing together", "one frame",
}

// Classify buckets the query. Counting short-circuits everything, then
// tabular, then descriptive; image is the default.
func Classify(q string) Category {
	lower := strings.ToLower(q)
	if containsAnyPhrase(lower, countingPhrases) {
		return CategoryCounting
	}
	if containsAnyPhrase(lower, tabularPhrases) {
		return CategoryTabular
	}
	if containsAnyPhrase(lower, descriptivePhrases) {
		return CategoryDescriptive
	}
	return CategoryImage
}

// IsMultiPlayer reports whether the query carries multi-person intent: a
// connector term alongside at least one named catalog player. A single
// player "together with" unnamed others still counts.
func IsMultiPlayer(q string, cat *catalog.Catalog) bool {
	players := cat.MatchPlayers(q)
	if len(players) == 0 {
		return false
	}
	lower := strings.ToLower(q)
	return containsAnyPhrase(lower, multiPlayerConnectors) || IsGroupPhotoQuery(q)
}

// HasTogetherTerm reports whether the query asks for people in one frame.
func HasTogetherTerm(q string) bool {
	return containsAnyPhrase(strings.ToLower(q), togetherTerms)
}

// IsSoloQuery reports whether the query asks for exactly one person.
func IsSoloQuery(q string) bool {
	return containsAnyPhrase(strings.ToLower(q), soloTerms)
}

// IsGroupPhotoQuery reports whether the query asks for a group shot.
func IsGroupPhotoQuery(q string) bool {
	return containsAnyPhrase(strings.ToLower(q), groupPhotoTerms)
}

// IsFanQuery reports whether the query is about fan interaction.
func IsFanQuery(q string) bool {
	return containsAnyPhrase(strings.ToLower(q), fanTerms)
}

// IsPracticeQuery flags practice/training queries that did not resolve to a
// catalog event, the practice-images special case.
func IsPracticeQuery(q string, cat *catalog.Catalog) bool {
	lower := strings.ToLower(q)
	if !containsAnyPhrase(lower, []string{"practice", "practising", "practicing", "training", "nets"}) {
		return false
	}
	_, matched := cat.MatchEvent(q)
	return !matched
}

// containsAnyPhrase does word-boundary containment of any phrase in text.
// Text must already be lowercase.
func containsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if containsPhrase(text, p) {
			return true
		}
	}
	return false
}

func containsPhrase(text, phrase string) bool {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(phrase)
		leftOK := idx == 0 || !isWordByte(text[idx-1])
		rightOK := end == len(text) || !isWordByte(text[end])
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
