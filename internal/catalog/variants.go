package catalog

import (
	"strings"

	"github.com/skddl007/cric-chat/internal/lexicon"
)

// Extra aliases for names the generated variants cannot cover.
var playerAliasOverrides = map[string][]string{
	"FAF DU PLESSIS":  {"faf", "duplessis", "du plessis"},
	"MOEEN ALI":       {"moeen", "mo ali"},
	"JP KING":         {"jp", "king jp"},
	"STEPHEN FLEMING": {"fleming", "coach fleming"},
}

var actionSynonyms = map[string][]string{
	"batting":        {"hitting", "striking", "playing shot"},
	"bowling":        {"pitching", "delivering", "throwing"},
	"fielding":       {"catching", "stopping", "defending"},
	"celebrating":    {"cheering", "rejoicing", "celebration"},
	"wicket keeping": {"keeping", "wicketkeeping", "behind stumps"},
}

var eventSynonyms = map[string][]string{
	"practice session": {"training session", "nets session", "practice"},
	"match day":        {"game day", "match"},
	"celebration":      {"party", "festivity"},
	"press conference": {"media interaction", "presser"},
	"team meeting":     {"huddle", "team talk"},
}

var moodSynonyms = map[string][]string{
	"happy":     {"joyful", "cheerful", "smiling"},
	"focused":   {"concentrated", "determined", "intense"},
	"relaxed":   {"casual", "calm", "at ease"},
	"energetic": {"lively", "animated", "pumped"},
	"serious":   {"stern", "grave"},
}

var sublocationSynonyms = map[string][]string{
	"dressing room": {"changing room", "locker room"},
	"practice nets": {"nets", "training nets"},
	"pitch":         {"wicket", "strip", "square"},
	"boundary":      {"rope", "outfield edge"},
	"pavilion":      {"clubhouse", "stands"},
}

func newPlayer(id int64, name string) Player {
	upper := strings.ToUpper(strings.TrimSpace(name))
	tokens := strings.Fields(strings.ToLower(upper))
	p := Player{ID: id, Name: upper}
	if len(tokens) > 0 {
		p.First = tokens[0]
	}
	if len(tokens) > 1 {
		p.Last = tokens[len(tokens)-1]
	}
	p.Aliases = playerAliases(upper, tokens)
	return p
}

// playerAliases generates lowercase lookup aliases: initials in dotted,
// spaced and joined forms, initials plus last name, and the curated
// overrides. Single-token names only get their override aliases.
func playerAliases(canonical string, tokens []string) []string {
	seen := make(map[string]struct{})
	var aliases []string
	add := func(a string) {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			return
		}
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		aliases = append(aliases, a)
	}

	if len(tokens) > 1 {
		last := tokens[len(tokens)-1]
		leading := tokens[:len(tokens)-1]
		var joined, dotted, spaced []string
		for _, t := range leading {
			initial := t[:1]
			joined = append(joined, initial)
			dotted = append(dotted, initial+".")
			spaced = append(spaced, initial)
		}
		add(strings.Join(joined, ""))
		add(strings.Join(dotted, ""))
		add(strings.Join(spaced, " "))
		add(strings.Join(joined, "") + " " + last)
		add(strings.Join(dotted, "") + " " + last)
		add(tokens[0] + " " + last)
	}
	for _, a := range playerAliasOverrides[canonical] {
		add(a)
	}
	return aliases
}

// PlayerAliasForms returns every known way to refer to a player, canonical
// name first, for query rewriting and SQL clause building.
func PlayerAliasForms(p Player) []string {
	forms := make([]string, 0, len(p.Aliases)+3)
	forms = append(forms, strings.ToLower(p.Name))
	if p.First != "" {
		forms = append(forms, p.First)
	}
	if p.Last != "" && p.Last != p.First {
		forms = append(forms, p.Last)
	}
	forms = append(forms, p.Aliases...)
	return dedupeStrings(forms)
}

func actionVariants(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var variants []string
	variants = append(variants, lexicon.StemQuery(lower))
	base := lexicon.LemmatizeVerbs(lower)
	variants = append(variants, base)
	if base != lower && !strings.Contains(base, " ") {
		variants = append(variants, base+"ing")
	}
	variants = append(variants, actionSynonyms[lower]...)
	return dedupeAgainst(lower, variants)
}

func eventVariants(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	return dedupeAgainst(lower, eventSynonyms[lower])
}

func moodVariants(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	return dedupeAgainst(lower, moodSynonyms[lower])
}

func sublocationVariants(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	return dedupeAgainst(lower, sublocationSynonyms[lower])
}

// dedupeAgainst drops empties, duplicates and the canonical term itself.
func dedupeAgainst(canonical string, variants []string) []string {
	seen := map[string]struct{}{canonical: {}}
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
