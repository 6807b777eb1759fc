// Package retriever routes archive queries between structured SQL filtering
// and semantic vector search, retries failing queries through refinement
// variants, and composes counting and tabular answers.
package retriever

import (
	"context"
	"strings"

	"github.com/skddl007/cric-chat/internal/catalog"
	"github.com/skddl007/cric-chat/internal/common"
	"github.com/skddl007/cric-chat/internal/llm"
	"github.com/skddl007/cric-chat/internal/query"
	"github.com/skddl007/cric-chat/internal/store"
	"github.com/skddl007/cric-chat/internal/vector"
)

// structuredDistance is the sentinel distance carried by every structured
// result, keeping the two result streams comparable for clients.
const structuredDistance = 0.1

// Result is one retrieved image.
type Result struct {
	ImageURL string  `json:"image_url"`
	Caption  string  `json:"caption"`
	Distance float64 `json:"distance"`
}

// Response is the full answer to a query.
type Response struct {
	Category     query.Category `json:"category"`
	Results      []Result       `json:"results"`
	Text         string         `json:"text,omitempty"`
	UsedSemantic bool           `json:"used_semantic"`
	Variant      string         `json:"variant,omitempty"`
}

// Archive is the slice of the relational store the retriever needs.
type Archive interface {
	SearchImages(ctx context.Context, filter store.Expr, limit int) ([]store.ImageRow, error)
	CountImages(ctx context.Context, filter store.Expr) (int, error)
	GroupCounts(ctx context.Context, dimension string) ([]store.GroupCount, error)
	PlayerCounts(ctx context.Context, players []catalog.Player) ([]store.GroupCount, error)
	ImageByID(ctx context.Context, id int64) (store.ImageRow, error)
	ImageDetails(ctx context.Context) ([]store.ImageDetail, error)
	UpsertDocument(ctx context.Context, imageID int64, content string) error
}

// Config tunes retrieval behavior.
type Config struct {
	MaxResults           int
	SemanticThreshold    float64
	MultiPlayerThreshold float64
	EmbedBatchSize       int
}

// DefaultConfig returns the standard retrieval settings.
func DefaultConfig() Config {
	return Config{
		MaxResults:           25,
		SemanticThreshold:    0.4,
		MultiPlayerThreshold: 0.3,
		EmbedBatchSize:       64,
	}
}

// Merge overlays positive override values onto the base configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if override.MaxResults > 0 {
		result.MaxResults = override.MaxResults
	}
	if override.SemanticThreshold > 0 {
		result.SemanticThreshold = override.SemanticThreshold
	}
	if override.MultiPlayerThreshold > 0 {
		result.MultiPlayerThreshold = override.MultiPlayerThreshold
	}
	if override.EmbedBatchSize > 0 {
		result.EmbedBatchSize = override.EmbedBatchSize
	}
	return result
}

// Retriever answers archive queries. Construct with New; all dependencies
// are injected and the catalog is immutable.
type Retriever struct {
	archive  Archive
	cat      *catalog.Catalog
	vec      vector.Store
	provider llm.Provider
	cfg      Config
}

// Option customizes a Retriever.
type Option func(*Retriever)

// WithConfig overrides the default retrieval settings.
func WithConfig(cfg Config) Option {
	return func(r *Retriever) {
		r.cfg = DefaultConfig().Merge(cfg)
	}
}

// New constructs a Retriever. The vector store and provider may be nil or
// unavailable; retrieval then degrades to the structured path.
func New(archive Archive, cat *catalog.Catalog, vec vector.Store, provider llm.Provider, opts ...Option) *Retriever {
	r := &Retriever{
		archive:  archive,
		cat:      cat,
		vec:      vec,
		provider: provider,
		cfg:      DefaultConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Answer is the single entry point: classify, retrieve, refine. Counting and
// tabular queries run aggregate composition; image and descriptive queries
// run the structured path, fall back to semantic search, and finally retry
// refinement variants. forceSemantic skips the structured path.
func (r *Retriever) Answer(ctx context.Context, q string, forceSemantic bool) (Response, error) {
	logger := common.Logger()
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return Response{Category: query.CategoryImage}, nil
	}
	category := query.Classify(trimmed)
	logger.Debug("retriever: query classified", "query", trimmed, "category", category)

	switch category {
	case query.CategoryCounting:
		return r.handleCounting(ctx, trimmed)
	case query.CategoryTabular:
		return r.handleTabular(ctx, trimmed)
	}

	resp := Response{Category: category}

	// Multi-person intent is classified once from the query as asked and
	// pinned for every refinement variant, so a rewrite that drops the
	// connector word cannot sidestep the face-count and co-mention gates.
	multiPerson := query.IsGroupPhotoQuery(trimmed) || query.IsMultiPlayer(trimmed, r.cat)

	if !forceSemantic {
		resp.Results = r.structuredSearch(ctx, trimmed, multiPerson)
	}
	if len(resp.Results) == 0 {
		resp.Results = r.semanticSearch(ctx, trimmed, r.thresholdFor(multiPerson), multiPerson)
		resp.UsedSemantic = len(resp.Results) > 0
	}
	if len(resp.Results) == 0 {
		results, usedSemantic, variant := r.tryRefined(ctx, trimmed, forceSemantic, multiPerson)
		resp.Results = results
		resp.UsedSemantic = usedSemantic
		resp.Variant = variant
	}

	if category == query.CategoryDescriptive && len(resp.Results) > 0 {
		resp.Text = r.describeResults(ctx, trimmed, resp.Results)
	}
	return resp, nil
}

func (r *Retriever) thresholdFor(multiPerson bool) float64 {
	if multiPerson {
		return r.cfg.MultiPlayerThreshold
	}
	return r.cfg.SemanticThreshold
}

// tryRefined walks the refinement variants after the original, trying the
// structured path then the semantic path for each. The first variant that
// yields results wins.
func (r *Retriever) tryRefined(ctx context.Context, q string, forceSemantic, multiPerson bool) ([]Result, bool, string) {
	logger := common.Logger()
	variants := query.RefineQuery(q, r.cat)
	for i, variant := range variants {
		if i == 0 {
			continue
		}
		if !forceSemantic {
			if results := r.structuredSearch(ctx, variant, multiPerson); len(results) > 0 {
				logger.Debug("retriever: refinement hit", "variant", variant, "path", "structured")
				return results, false, variant
			}
		}
		if results := r.semanticSearch(ctx, variant, r.thresholdFor(multiPerson), multiPerson); len(results) > 0 {
			logger.Debug("retriever: refinement hit", "variant", variant, "path", "semantic")
			return results, true, variant
		}
	}
	return nil, false, ""
}

func resultsFromRows(rows []store.ImageRow) []Result {
	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, Result{
			ImageURL: row.ImageURL,
			Caption:  row.Caption,
			Distance: structuredDistance,
		})
	}
	return results
}
