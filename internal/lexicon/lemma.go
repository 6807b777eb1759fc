package lexicon

import "strings"

// Irregular verb forms that suffix rules cannot recover.
var irregularVerbs = map[string]string{
	"ran":       "run",
	"running":   "run",
	"caught":    "catch",
	"catching":  "catch",
	"bowled":    "bowl",
	"threw":     "throw",
	"thrown":    "throw",
	"hit":       "hit",
	"hitting":   "hit",
	"won":       "win",
	"winning":   "win",
	"lost":      "lose",
	"held":      "hold",
	"holding":   "hold",
	"stood":     "stand",
	"standing":  "stand",
	"sat":       "sit",
	"sitting":   "sit",
	"ate":       "eat",
	"eating":    "eat",
	"met":       "meet",
	"meeting":   "meet",
	"took":      "take",
	"taken":     "take",
	"taking":    "take",
	"wore":      "wear",
	"wearing":   "wear",
	"swung":     "swing",
	"swinging":  "swing",
	"kept":      "keep",
	"keeping":   "keep",
	"led":       "lead",
	"leading":   "lead",
	"shook":     "shake",
	"shaking":   "shake",
	"practised": "practice",
	"practiced": "practice",
}

// LemmatizeVerb reduces a verb form to its base form using the irregular
// table and a few suffix rules with silent-e and doubled-consonant
// restoration. Non-verbs mostly pass through unchanged.
func LemmatizeVerb(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return w
	}
	if base, ok := irregularVerbs[w]; ok {
		return base
	}
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "ing") && len(w) > 5:
		return stripInflection(w[:len(w)-3])
	case strings.HasSuffix(w, "ed") && len(w) > 4:
		return stripInflection(w[:len(w)-2])
	case strings.HasSuffix(w, "es") && len(w) > 4:
		return w[:len(w)-2]
	case strings.HasSuffix(w, "s") && len(w) > 3 && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

// stripInflection undoes consonant doubling ("batt" -> "bat") and restores a
// silent e after a consonant-vowel-consonant-e pattern ("celebrat" ->
// "celebrate").
func stripInflection(stem string) string {
	n := len(stem)
	if n >= 3 && stem[n-1] == stem[n-2] && isConsonant(stem[n-1]) && stem[n-1] != 'l' && stem[n-1] != 's' {
		return stem[:n-1]
	}
	if n >= 3 && isConsonant(stem[n-1]) && isVowel(stem[n-2]) && needsSilentE(stem) {
		return stem + "e"
	}
	return stem
}

var silentEStems = map[string]struct{}{
	"celebrat": {}, "practic": {}, "pos": {}, "smil": {}, "wav": {},
	"rais": {}, "shar": {}, "star": {}, "danc": {},
}

func needsSilentE(stem string) bool {
	_, ok := silentEStems[stem]
	return ok
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isConsonant(c byte) bool {
	return c >= 'a' && c <= 'z' && !isVowel(c)
}

// LemmatizeVerbs applies LemmatizeVerb to every token of the query.
func LemmatizeVerbs(query string) string {
	tokens := Tokenize(query)
	for i, t := range tokens {
		tokens[i] = LemmatizeVerb(t)
	}
	return strings.Join(tokens, " ")
}
