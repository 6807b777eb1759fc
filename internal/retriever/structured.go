package retriever

import (
	"context"
	"sort"
	"strings"

	"github.com/skddl007/cric-chat/internal/catalog"
	"github.com/skddl007/cric-chat/internal/common"
	"github.com/skddl007/cric-chat/internal/lexicon"
	"github.com/skddl007/cric-chat/internal/query"
	"github.com/skddl007/cric-chat/internal/store"
)

var timeOfDayTerms = []string{"morning", "afternoon", "evening", "night", "sunset", "sunrise"}

// genericGroupTerms broaden the together-clause for group queries. The
// face-count predicate stays ANDed on, so the broadening can only widen the
// candidate set, never admit a sub-two-face row.
var genericGroupTerms = []string{"players", "team", "group", "together", "multiple"}

var activityKeywords = map[string][]string{
	"traveling":        {"travel", "traveling", "travelling", "bus", "airport", "flight", "journey"},
	"celebrating":      {"celebrate", "celebration", "celebrating", "cheering", "victory", "trophy"},
	"training":         {"training", "practice", "nets", "drill", "warm up", "warmup"},
	"meeting fans":     {"fan", "fans", "autograph", "selfie", "crowd", "supporters"},
	"press conference": {"press", "media", "interview", "conference", "microphone"},
	"team huddle":      {"huddle", "team talk", "gathered", "circle"},
	"eating":           {"eating", "meal", "lunch", "dinner", "food", "snack"},
	"relaxing":         {"relax", "relaxing", "rest", "chill", "leisure", "downtime"},
}

// structuredSearch runs the filter dispatch ladder. Every rung soft-fails:
// SQL errors log and fall through to the next rung or return empty so the
// caller can try the semantic path. multiPerson pins the multi-person intent
// of the query the caller originally asked; a refinement variant that lost
// its connector word still goes through the multi-person gates.
func (r *Retriever) structuredSearch(ctx context.Context, q string, multiPerson bool) []Result {
	players := r.cat.MatchPlayers(q)

	if multiPerson || query.IsGroupPhotoQuery(q) || query.IsMultiPlayer(q, r.cat) {
		return r.multiPlayerSearch(ctx, q, players)
	}
	if len(players) >= 1 {
		if results := r.singlePlayerSearch(ctx, q, players[0]); len(results) > 0 {
			return results
		}
	}
	if results := r.entitySearch(ctx, q); len(results) > 0 {
		return results
	}
	if results := r.activitySearch(ctx, q); len(results) > 0 {
		return results
	}
	return r.keywordSearch(ctx, q)
}

// multiPlayerSearch finds images showing people together. The no_of_faces
// >= 2 predicate is unconditional, and rows are verified after the query:
// face count again, plus co-mention of at least one named player by full
// name or by both first and last name. With no named players the clause
// falls back to the generic group terms alone.
func (r *Retriever) multiPlayerSearch(ctx context.Context, q string, players []catalog.Player) []Result {
	logger := common.Logger()
	var clause store.Expr
	if len(players) == 0 {
		clause = groupTermsClause()
	} else {
		clause = playersClause(players)
		if query.HasTogetherTerm(q) || query.IsGroupPhotoQuery(q) {
			clause = store.Or(clause, groupTermsClause())
		}
	}
	clauses := []store.Expr{clause, store.Cond("no_of_faces", ">=", 2)}
	clauses = append(clauses, r.entityFilters(q)...)
	rows, err := r.archive.SearchImages(ctx, store.And(clauses...), r.cfg.MaxResults)
	if err != nil {
		logger.Warn("retriever: multi-player query failed", "error", err)
		return nil
	}
	verified := rows[:0]
	for _, row := range rows {
		if verifyMultiPlayerRow(row.Caption+" "+row.Description, row.NoOfFaces, players) {
			verified = append(verified, row)
		}
	}
	return resultsFromRows(verified)
}

func playersClause(players []catalog.Player) store.Expr {
	clauses := make([]store.Expr, 0, len(players))
	for _, p := range players {
		forms := catalog.PlayerAliasForms(p)
		sub := make([]store.Expr, 0, len(forms)*2)
		for _, form := range forms {
			sub = append(sub, store.Like("caption", form), store.Like("description", form))
		}
		clauses = append(clauses, store.Or(sub...))
	}
	return store.Or(clauses...)
}

func groupTermsClause() store.Expr {
	terms := make([]store.Expr, 0, len(genericGroupTerms)*2)
	for _, term := range genericGroupTerms {
		terms = append(terms, store.Like("caption", term), store.Like("description", term))
	}
	return store.Or(terms...)
}

// verifyMultiPlayerRow enforces the invariants a broadened SQL clause cannot:
// at least two faces, and a genuine mention of at least one requested player.
// A row surviving on a generic group term alone is only valid when the query
// named nobody.
func verifyMultiPlayerRow(text string, faces int, players []catalog.Player) bool {
	if faces < 2 {
		return false
	}
	if len(players) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, p := range players {
		if mentionsPlayer(lower, p) {
			return true
		}
	}
	return false
}

func mentionsPlayer(lowerText string, p catalog.Player) bool {
	if containsPhrase(lowerText, strings.ToLower(p.Name)) {
		return true
	}
	if p.First != "" && p.Last != "" &&
		containsPhrase(lowerText, p.First) && containsPhrase(lowerText, p.Last) {
		return true
	}
	return false
}

func (r *Retriever) singlePlayerSearch(ctx context.Context, q string, player catalog.Player) []Result {
	logger := common.Logger()
	clauses := []store.Expr{playersClause([]catalog.Player{player})}
	clauses = append(clauses, r.entityFilters(q)...)
	if query.IsSoloQuery(q) {
		clauses = append(clauses, store.Cond("no_of_faces", "=", 1))
	} else if query.IsGroupPhotoQuery(q) {
		clauses = append(clauses, store.Cond("no_of_faces", ">=", 2))
	}
	rows, err := r.archive.SearchImages(ctx, store.And(clauses...), r.cfg.MaxResults)
	if err != nil {
		logger.Warn("retriever: single-player query failed", "player", player.Name, "error", err)
		return nil
	}
	return resultsFromRows(rows)
}

// entityFilters collects the ID-based predicates for every catalog entity
// the query mentions, plus time-of-day. A keyword matching several canonical
// entities of one class yields an OR across their IDs.
func (r *Retriever) entityFilters(q string) []store.Expr {
	var filters []store.Expr
	appendIDs := func(kind catalog.Kind, names []string, column string) {
		ids := make([]store.Expr, 0, len(names))
		for _, name := range names {
			if id, ok := r.cat.EntityID(kind, name); ok {
				ids = append(ids, store.Cond(column, "=", id))
			}
		}
		if len(ids) > 0 {
			filters = append(filters, store.Or(ids...))
		}
	}
	appendIDs(catalog.KindAction, r.cat.MatchActions(q), "action_id")
	appendIDs(catalog.KindEvent, r.cat.MatchEvents(q), "event_id")
	appendIDs(catalog.KindMood, r.cat.MatchMoods(q), "mood_id")
	appendIDs(catalog.KindSublocation, r.cat.MatchSublocations(q), "sublocation_id")
	lower := strings.ToLower(q)
	for _, term := range timeOfDayTerms {
		if containsPhrase(lower, term) {
			filters = append(filters, store.Like("timeofday", term))
			break
		}
	}
	return filters
}

func (r *Retriever) entitySearch(ctx context.Context, q string) []Result {
	logger := common.Logger()
	filters := r.entityFilters(q)
	if loc, ok := r.cat.MatchLocation(q); ok {
		filters = append(filters, store.Or(
			store.Like("caption", loc),
			store.Like("description", loc),
			store.Like("focus", loc),
		))
	}
	if query.IsSoloQuery(q) {
		filters = append(filters, store.Cond("no_of_faces", "=", 1))
	} else if query.IsGroupPhotoQuery(q) || query.HasTogetherTerm(q) {
		filters = append(filters, store.Cond("no_of_faces", ">=", 2))
	}
	if len(filters) == 0 {
		return nil
	}
	rows, err := r.archive.SearchImages(ctx, store.And(filters...), r.cfg.MaxResults)
	if err != nil {
		logger.Warn("retriever: entity query failed", "error", err)
		return nil
	}
	return resultsFromRows(rows)
}

func (r *Retriever) activitySearch(ctx context.Context, q string) []Result {
	logger := common.Logger()
	lower := strings.ToLower(q)
	matched := make(map[string]bool, len(activityKeywords))
	// Fan and practice intents cover phrasings the keyword lists miss,
	// e.g. "spectator" or "practising".
	if query.IsFanQuery(q) {
		matched["meeting fans"] = true
	}
	if query.IsPracticeQuery(q, r.cat) {
		matched["training"] = true
	}
	for activity, keywords := range activityKeywords {
		for _, kw := range keywords {
			if containsPhrase(lower, kw) {
				matched[activity] = true
				break
			}
		}
	}
	activities := make([]string, 0, len(matched))
	for activity := range matched {
		activities = append(activities, activity)
	}
	sort.Strings(activities)
	var clauses []store.Expr
	for _, activity := range activities {
		clauses = append(clauses,
			store.Like("caption", activity),
			store.Like("description", activity),
			store.Like("focus", activity),
		)
		for _, kw := range activityKeywords[activity] {
			clauses = append(clauses,
				store.Like("caption", kw),
				store.Like("description", kw),
			)
		}
	}
	if len(clauses) == 0 {
		return nil
	}
	rows, err := r.archive.SearchImages(ctx, store.Or(clauses...), r.cfg.MaxResults)
	if err != nil {
		logger.Warn("retriever: activity query failed", "error", err)
		return nil
	}
	return resultsFromRows(rows)
}

// keywordSearch is the last structured rung: nouns and adjectives extracted
// from the query, each matched against the free-text columns.
func (r *Retriever) keywordSearch(ctx context.Context, q string) []Result {
	logger := common.Logger()
	tokens := lexicon.NounAdjectiveTokens(q)
	if len(tokens) == 0 {
		tokens = lexicon.SignificantTokens(q)
	}
	if len(tokens) == 0 {
		return nil
	}
	columns := []string{"caption", "description", "focus", "shot_type", "apparel", "brands_and_logos"}
	var clauses []store.Expr
	for _, token := range tokens {
		for _, col := range columns {
			clauses = append(clauses, store.Like(col, token))
		}
	}
	rows, err := r.archive.SearchImages(ctx, store.Or(clauses...), r.cfg.MaxResults)
	if err != nil {
		logger.Warn("retriever: keyword query failed", "error", err)
		return nil
	}
	return resultsFromRows(rows)
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
