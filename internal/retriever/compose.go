package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/skddl007/cric-chat/internal/common"
	"github.com/skddl007/cric-chat/internal/llm"
	"github.com/skddl007/cric-chat/internal/query"
	"github.com/skddl007/cric-chat/internal/store"
)

var breakdownDimensions = []struct {
	dimension string
	cues      []string
}{
	{"action", []string{"per action", "by action", "each action", "action"}},
	{"event", []string{"per event", "by event", "each event", "event"}},
	{"mood", []string{"per mood", "by mood", "each mood", "mood"}},
	{"sublocation", []string{"per location", "by location", "per sublocation", "by sublocation"}},
	{"timeofday", []string{"per time", "by time", "time of day", "timeofday"}},
}

var playerBreakdownCues = []string{"per player", "by player", "each player", "player"}

// handleCounting counts images matching the query's filters and, when the
// query names a breakdown dimension, adds a markdown table of per-bucket
// counts.
func (r *Retriever) handleCounting(ctx context.Context, q string) (Response, error) {
	logger := common.Logger()
	resp := Response{Category: query.CategoryCounting}

	filter := r.countingFilter(q)
	total, err := r.archive.CountImages(ctx, filter)
	if err != nil {
		logger.Warn("retriever: counting query failed", "query", q, "error", err)
		resp.Text = "No matching images found."
		return resp, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching image", total)
	if total != 1 {
		b.WriteString("s")
	}
	b.WriteString(".")

	if groups := r.breakdownFor(ctx, q); len(groups) > 0 {
		b.WriteString("\n\n")
		b.WriteString(renderCountTable(breakdownHeader(q), groups))
	}
	resp.Text = b.String()
	return resp, nil
}

// countingFilter reuses the structured predicates an image query would get,
// minus the keyword fallback: counting an unconstrained archive is correct,
// counting keyword noise is not.
func (r *Retriever) countingFilter(q string) store.Expr {
	var clauses []store.Expr
	players := r.cat.MatchPlayers(q)
	if len(players) > 0 {
		clauses = append(clauses, playersClause(players))
	}
	clauses = append(clauses, r.entityFilters(q)...)
	if query.IsSoloQuery(q) {
		clauses = append(clauses, store.Cond("no_of_faces", "=", 1))
	} else if query.IsGroupPhotoQuery(q) || (len(players) >= 1 && query.HasTogetherTerm(q)) {
		clauses = append(clauses, store.Cond("no_of_faces", ">=", 2))
	}
	if len(clauses) == 0 {
		return nil
	}
	return store.And(clauses...)
}

func (r *Retriever) breakdownFor(ctx context.Context, q string) []store.GroupCount {
	logger := common.Logger()
	lower := strings.ToLower(q)
	for _, cue := range playerBreakdownCues {
		if strings.Contains(lower, cue) {
			groups, err := r.archive.PlayerCounts(ctx, r.cat.Players())
			if err != nil {
				logger.Warn("retriever: player breakdown failed", "error", err)
				return nil
			}
			return groups
		}
	}
	for _, dim := range breakdownDimensions {
		for _, cue := range dim.cues {
			if strings.Contains(lower, cue) {
				groups, err := r.archive.GroupCounts(ctx, dim.dimension)
				if err != nil {
					logger.Warn("retriever: breakdown failed", "dimension", dim.dimension, "error", err)
					return nil
				}
				return groups
			}
		}
	}
	return nil
}

func breakdownHeader(q string) string {
	lower := strings.ToLower(q)
	for _, cue := range playerBreakdownCues {
		if strings.Contains(lower, cue) {
			return "Player"
		}
	}
	for _, dim := range breakdownDimensions {
		for _, cue := range dim.cues {
			if strings.Contains(lower, cue) {
				return capitalize(dim.dimension)
			}
		}
	}
	return "Group"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// handleTabular renders a markdown table over the grouping dimension the
// query names, defaulting to a per-player table.
func (r *Retriever) handleTabular(ctx context.Context, q string) (Response, error) {
	logger := common.Logger()
	resp := Response{Category: query.CategoryTabular}
	groups := r.breakdownFor(ctx, q)
	if len(groups) == 0 {
		var err error
		groups, err = r.archive.PlayerCounts(ctx, r.cat.Players())
		if err != nil {
			logger.Warn("retriever: tabular query failed", "query", q, "error", err)
			resp.Text = "No data available."
			return resp, nil
		}
	}
	if len(groups) == 0 {
		resp.Text = "No data available."
		return resp, nil
	}
	resp.Text = renderCountTable(breakdownHeader(q), groups)
	return resp, nil
}

// renderCountTable renders rows sorted descending by count then ascending
// by name, the order the aggregates already return.
func renderCountTable(header string, groups []store.GroupCount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| %s | Count |\n", header)
	b.WriteString("| --- | --- |\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "| %s | %d |\n", g.Name, g.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// describeResults composes a description for descriptive queries. When a
// chat provider is configured it may rephrase the composition; any provider
// failure degrades to the deterministic text.
func (r *Retriever) describeResults(ctx context.Context, q string, results []Result) string {
	var b strings.Builder
	for i, res := range results {
		if i >= 3 {
			break
		}
		if res.Caption != "" {
			fmt.Fprintf(&b, "%s\n", res.Caption)
		}
	}
	composed := strings.TrimSpace(b.String())
	if composed == "" {
		return ""
	}
	if r.provider == nil {
		return composed
	}
	phrased, err := r.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "Describe the retrieved cricket photos in one short paragraph."},
		{Role: "user", Content: fmt.Sprintf("Query: %s\nCaptions:\n%s", q, composed)},
	})
	if err != nil || strings.TrimSpace(phrased) == "" {
		common.Logger().Debug("retriever: description phrasing unavailable", "error", err)
		return composed
	}
	return strings.TrimSpace(phrased)
}
