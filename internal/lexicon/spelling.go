package lexicon

import "strings"

// Common misspellings observed in archive search logs, mapped to their
// corrected forms. Correction is word-by-word; unknown words pass through.
var misspellings = map[string]string{
	"bating":      "batting",
	"battin":      "batting",
	"bowing":      "bowling",
	"bowlling":    "bowling",
	"feilding":    "fielding",
	"fileding":    "fielding",
	"celbrating":  "celebrating",
	"celebarting": "celebrating",
	"celebraton":  "celebration",
	"wiket":       "wicket",
	"wickt":       "wicket",
	"crickter":    "cricketer",
	"criket":      "cricket",
	"crickt":      "cricket",
	"plaer":       "player",
	"palyer":      "player",
	"playr":       "player",
	"grond":       "ground",
	"gorund":      "ground",
	"stadum":      "stadium",
	"stadiam":     "stadium",
	"practce":     "practice",
	"practise":    "practice",
	"traning":     "training",
	"trainning":   "training",
	"huddel":      "huddle",
	"celebs":      "celebrations",
	"captian":     "captain",
	"teem":        "team",
	"photoes":     "photos",
	"imags":       "images",
}

// CorrectSpelling replaces known misspellings token by token, preserving the
// original token order. The result is lowercase.
func CorrectSpelling(query string) string {
	tokens := Tokenize(query)
	for i, t := range tokens {
		if fixed, ok := misspellings[t]; ok {
			tokens[i] = fixed
		}
	}
	return strings.Join(tokens, " ")
}
