// Package catalog holds the immutable entity catalog: players, actions,
// events, moods and sublocations known to the photo archive, together with
// their generated alias variants. The catalog is loaded once from the
// relational store and injected into the components that need it.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/skddl007/cric-chat/internal/common"
)

// NamedRow is the minimal shape the catalog needs from entity tables.
type NamedRow struct {
	ID   int64
	Name string
}

// Source supplies the entity rows the catalog is built from.
type Source interface {
	Players(ctx context.Context) ([]NamedRow, error)
	Actions(ctx context.Context) ([]NamedRow, error)
	Events(ctx context.Context) ([]NamedRow, error)
	Moods(ctx context.Context) ([]NamedRow, error)
	Sublocations(ctx context.Context) ([]NamedRow, error)
}

// Player is a catalog player with generated lookup aliases.
type Player struct {
	ID      int64
	Name    string
	First   string
	Last    string
	Aliases []string
}

// Entity is a non-player catalog entry: a canonical term plus its variants.
type Entity struct {
	ID       int64
	Name     string
	Variants []string
}

// Kind selects an entity class for variant lookups.
type Kind string

const (
	KindAction      Kind = "action"
	KindEvent       Kind = "event"
	KindMood        Kind = "mood"
	KindSublocation Kind = "sublocation"
)

var locationTerms = []string{"stadium", "field", "nets", "dressing room", "press room"}

// Catalog is immutable after Load.
type Catalog struct {
	players      []Player
	actions      []Entity
	events       []Entity
	moods        []Entity
	sublocations []Entity
}

// Load builds the catalog from the store. Each entity class fails soft: a
// class that cannot be read yields an empty index and a logged warning. Load
// only errors when every class failed.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	logger := common.Logger()
	cat := &Catalog{}
	failures := 0

	if rows, err := src.Players(ctx); err != nil {
		logger.Warn("catalog: players unavailable", "error", err)
		failures++
	} else {
		cat.players = buildPlayers(rows)
	}
	if rows, err := src.Actions(ctx); err != nil {
		logger.Warn("catalog: actions unavailable", "error", err)
		failures++
	} else {
		cat.actions = buildEntities(rows, actionVariants)
	}
	if rows, err := src.Events(ctx); err != nil {
		logger.Warn("catalog: events unavailable", "error", err)
		failures++
	} else {
		cat.events = buildEntities(rows, eventVariants)
	}
	if rows, err := src.Moods(ctx); err != nil {
		logger.Warn("catalog: moods unavailable", "error", err)
		failures++
	} else {
		cat.moods = buildEntities(rows, moodVariants)
	}
	if rows, err := src.Sublocations(ctx); err != nil {
		logger.Warn("catalog: sublocations unavailable", "error", err)
		failures++
	} else {
		cat.sublocations = buildEntities(rows, sublocationVariants)
	}

	if failures == 5 {
		return nil, errors.New("catalog: no entity class could be loaded")
	}
	logger.Info("catalog: loaded",
		"players", len(cat.players),
		"actions", len(cat.actions),
		"events", len(cat.events),
		"moods", len(cat.moods),
		"sublocations", len(cat.sublocations),
	)
	return cat, nil
}

func buildPlayers(rows []NamedRow) []Player {
	players := make([]Player, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		players = append(players, newPlayer(row.ID, name))
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

func buildEntities(rows []NamedRow, variants func(string) []string) []Entity {
	entities := make([]Entity, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		entities = append(entities, Entity{ID: row.ID, Name: name, Variants: variants(name)})
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })
	return entities
}

// Players returns the catalog players in ascending ID order.
func (c *Catalog) Players() []Player {
	if c == nil {
		return nil
	}
	return c.players
}

// MatchPlayers resolves the players mentioned in a query. Matching is tiered:
// exact canonical-name containment first, then alias containment, then a
// word-boundary first-name or last-name match. Within a tier players are
// scanned in ascending ID order and each player matches at most once.
func (c *Catalog) MatchPlayers(query string) []Player {
	if c == nil || strings.TrimSpace(query) == "" {
		return nil
	}
	q := strings.ToLower(query)
	matched := make([]Player, 0, 2)
	seen := make(map[int64]struct{})

	add := func(p Player) {
		if _, ok := seen[p.ID]; ok {
			return
		}
		seen[p.ID] = struct{}{}
		matched = append(matched, p)
	}

	for _, p := range c.players {
		if containsPhrase(q, strings.ToLower(p.Name)) {
			add(p)
		}
	}
	for _, p := range c.players {
		for _, alias := range p.Aliases {
			if containsPhrase(q, alias) {
				add(p)
				break
			}
		}
	}
	for _, p := range c.players {
		// First/last matching only applies to multi-part names; a
		// single-token name already is its own canonical form.
		if p.Last == "" {
			continue
		}
		if containsPhrase(q, p.First) || containsPhrase(q, p.Last) {
			add(p)
		}
	}
	return matched
}

// MatchAction maps any action variant in the query to the best canonical
// term.
func (c *Catalog) MatchAction(query string) (string, bool) { return matchEntity(c.actionsOf(), query) }

// MatchEvent maps any event variant in the query to the best canonical term.
func (c *Catalog) MatchEvent(query string) (string, bool) { return matchEntity(c.eventsOf(), query) }

// MatchMood maps any mood variant in the query to the best canonical term.
func (c *Catalog) MatchMood(query string) (string, bool) { return matchEntity(c.moodsOf(), query) }

// MatchSublocation maps any sublocation variant in the query to the best
// canonical term.
func (c *Catalog) MatchSublocation(query string) (string, bool) {
	return matchEntity(c.sublocationsOf(), query)
}

// MatchActions returns every canonical action the query matches, best match
// first. A matched keyword also pulls in every other canonical whose name
// contains it, so "batting" reaches both "batting" and "power batting".
func (c *Catalog) MatchActions(query string) []string { return matchEntities(c.actionsOf(), query) }

// MatchEvents returns every canonical event the query matches.
func (c *Catalog) MatchEvents(query string) []string { return matchEntities(c.eventsOf(), query) }

// MatchMoods returns every canonical mood the query matches.
func (c *Catalog) MatchMoods(query string) []string { return matchEntities(c.moodsOf(), query) }

// MatchSublocations returns every canonical sublocation the query matches.
func (c *Catalog) MatchSublocations(query string) []string {
	return matchEntities(c.sublocationsOf(), query)
}

// MatchLocation matches one of the fixed location terms.
func (c *Catalog) MatchLocation(query string) (string, bool) {
	q := strings.ToLower(query)
	for _, term := range locationTerms {
		if containsPhrase(q, term) {
			return term, true
		}
	}
	return "", false
}

// Locations returns the fixed location vocabulary.
func (c *Catalog) Locations() []string {
	out := make([]string, len(locationTerms))
	copy(out, locationTerms)
	return out
}

func (c *Catalog) actionsOf() []Entity {
	if c == nil {
		return nil
	}
	return c.actions
}

func (c *Catalog) eventsOf() []Entity {
	if c == nil {
		return nil
	}
	return c.events
}

func (c *Catalog) moodsOf() []Entity {
	if c == nil {
		return nil
	}
	return c.moods
}

func (c *Catalog) sublocationsOf() []Entity {
	if c == nil {
		return nil
	}
	return c.sublocations
}

// matchEntity returns the best single match from matchEntities.
func matchEntity(entities []Entity, query string) (string, bool) {
	matches := matchEntities(entities, query)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// matchEntities scans longest variant first so "wicket keeping" beats
// "keeping" when both are present, then unions in every canonical whose own
// name contains a matched keyword. Direct matches come first in descending
// matched-variant length then ascending ID; containment matches follow in
// ascending ID.
func matchEntities(entities []Entity, query string) []string {
	q := strings.ToLower(query)
	type candidate struct {
		canonical string
		variant   string
		id        int64
	}
	var candidates []candidate
	for _, e := range entities {
		candidates = append(candidates, candidate{canonical: e.Name, variant: strings.ToLower(e.Name), id: e.ID})
		for _, v := range e.Variants {
			candidates = append(candidates, candidate{canonical: e.Name, variant: v, id: e.ID})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if len(candidates[i].variant) != len(candidates[j].variant) {
			return len(candidates[i].variant) > len(candidates[j].variant)
		}
		return candidates[i].id < candidates[j].id
	})
	seen := make(map[string]struct{})
	var matched []string
	var keywords []string
	for _, cand := range candidates {
		if cand.variant == "" || !containsPhrase(q, cand.variant) {
			continue
		}
		keywords = append(keywords, cand.variant)
		if _, ok := seen[cand.canonical]; ok {
			continue
		}
		seen[cand.canonical] = struct{}{}
		matched = append(matched, cand.canonical)
	}
	if len(matched) == 0 {
		return nil
	}
	for _, e := range entities {
		if _, ok := seen[e.Name]; ok {
			continue
		}
		name := strings.ToLower(e.Name)
		for _, kw := range keywords {
			if containsPhrase(name, kw) {
				seen[e.Name] = struct{}{}
				matched = append(matched, e.Name)
				break
			}
		}
	}
	return matched
}

// Variants returns the lookup variants for a canonical entity term, used by
// the refinement engine to rewrite queries with equivalent phrasing.
func (c *Catalog) Variants(kind Kind, canonical string) []string {
	var entities []Entity
	switch kind {
	case KindAction:
		entities = c.actionsOf()
	case KindEvent:
		entities = c.eventsOf()
	case KindMood:
		entities = c.moodsOf()
	case KindSublocation:
		entities = c.sublocationsOf()
	default:
		return nil
	}
	for _, e := range entities {
		if strings.EqualFold(e.Name, canonical) {
			out := make([]string, len(e.Variants))
			copy(out, e.Variants)
			return out
		}
	}
	return nil
}

// EntityID resolves a canonical entity term to its table row ID.
func (c *Catalog) EntityID(kind Kind, canonical string) (int64, bool) {
	var entities []Entity
	switch kind {
	case KindAction:
		entities = c.actionsOf()
	case KindEvent:
		entities = c.eventsOf()
	case KindMood:
		entities = c.moodsOf()
	case KindSublocation:
		entities = c.sublocationsOf()
	default:
		return 0, false
	}
	for _, e := range entities {
		if strings.EqualFold(e.Name, canonical) {
			return e.ID, true
		}
	}
	return 0, false
}

// containsPhrase reports whether phrase occurs in text on word boundaries.
// Both arguments must already be lowercase.
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
