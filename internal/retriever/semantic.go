package retriever

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/skddl007/cric-chat/internal/catalog"
	"github.com/skddl007/cric-chat/internal/common"
	"github.com/skddl007/cric-chat/internal/query"
	"github.com/skddl007/cric-chat/internal/vector"
)

// semanticSearch embeds the query and walks the vector index. It never
// returns an error: provider or index failures log and yield empty so the
// structured path's caller can keep going. Results come back in ascending
// distance order; hits below the similarity threshold are dropped. For
// multi-player queries the hits are additionally verified against face
// count and co-mention from the payload.
func (r *Retriever) semanticSearch(ctx context.Context, q string, threshold float64, multiPerson bool) []Result {
	logger := common.Logger()
	if r.vec == nil || !r.vec.Available() {
		logger.Debug("retriever: vector index unavailable", "query", q)
		return nil
	}
	if r.provider == nil {
		logger.Debug("retriever: no embedding provider", "query", q)
		return nil
	}
	vectors, err := r.provider.Embed(ctx, []string{q})
	if err != nil || len(vectors) == 0 {
		logger.Warn("retriever: query embedding failed", "query", q, "error", err)
		return nil
	}
	hits, err := r.vec.Search(ctx, vectors[0], r.cfg.MaxResults)
	if err != nil {
		logger.Warn("retriever: vector search failed", "query", q, "error", err)
		return nil
	}

	multiPlayer := multiPerson || query.IsMultiPlayer(q, r.cat)
	players := r.cat.MatchPlayers(q)

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		similarity := 1 - hit.Distance
		if similarity < threshold {
			continue
		}
		if multiPlayer && !verifySemanticHit(hit, players) {
			continue
		}
		result, ok := r.hydrateHit(ctx, hit)
		if !ok {
			continue
		}
		results = append(results, result)
	}
	return results
}

func verifySemanticHit(hit vector.SearchResult, players []catalog.Player) bool {
	faces := payloadInt(hit.Payload, "no_of_faces")
	if faces < 2 {
		return false
	}
	if len(players) == 0 {
		return true
	}
	text := strings.ToLower(payloadString(hit.Payload, "caption") + " " + payloadString(hit.Payload, "content"))
	for _, p := range players {
		if mentionsPlayer(text, p) {
			return true
		}
	}
	return false
}

// hydrateHit resolves a vector hit to a Result, preferring payload metadata
// and falling back to a store lookup by image ID.
func (r *Retriever) hydrateHit(ctx context.Context, hit vector.SearchResult) (Result, bool) {
	url := payloadString(hit.Payload, "image_url")
	caption := payloadString(hit.Payload, "caption")
	if url == "" {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			return Result{}, false
		}
		row, err := r.archive.ImageByID(ctx, id)
		if err != nil {
			return Result{}, false
		}
		url = row.ImageURL
		caption = row.Caption
	}
	return Result{ImageURL: url, Caption: caption, Distance: hit.Distance}, true
}

func payloadString(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadInt(payload map[string]interface{}, key string) int {
	if payload == nil {
		return 0
	}
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// ComposeDocument renders the caption document for an image in the fixed
// format the semantic index is built on.
func ComposeDocument(caption, action, event, mood, location, timeOfDay, focus, shotType, apparel, brands string, faces int) string {
	return fmt.Sprintf(
		"%s Action: %s. Event: %s. Mood: %s. Location: %s. Time of day: %s. Focus: %s. Shot type: %s. Apparel: %s. Brands and logos: %s. Number of faces: %d",
		caption, action, event, mood, location, timeOfDay, focus, shotType, apparel, brands, faces,
	)
}

// ReindexAll composes the document for every image, persists it, embeds in
// batches and upserts into the vector collection.
func (r *Retriever) ReindexAll(ctx context.Context) (int, error) {
	logger := common.Logger()
	details, err := r.archive.ImageDetails(ctx)
	if err != nil {
		return 0, fmt.Errorf("load images for reindex: %w", err)
	}
	if len(details) == 0 {
		return 0, nil
	}
	if r.provider == nil {
		return 0, fmt.Errorf("no embedding provider configured")
	}
	if r.vec == nil || !r.vec.Available() {
		return 0, fmt.Errorf("vector index unavailable")
	}

	docs := make([]vector.Doc, 0, len(details))
	for _, d := range details {
		content := ComposeDocument(
			d.Caption, d.ActionName, d.EventName, d.MoodName,
			d.SublocationName, d.TimeOfDay, d.Focus, d.ShotType,
			d.Apparel, d.BrandsAndLogos, d.NoOfFaces,
		)
		if err := r.archive.UpsertDocument(ctx, d.ID, content); err != nil {
			return 0, fmt.Errorf("persist document %d: %w", d.ID, err)
		}
		docs = append(docs, vector.Doc{
			ID:      strconv.FormatInt(d.ID, 10),
			Content: content,
			Metadata: map[string]interface{}{
				"image_url":   d.ImageURL,
				"caption":     d.Caption,
				"no_of_faces": d.NoOfFaces,
			},
		})
	}

	batch := r.cfg.EmbedBatchSize
	if batch <= 0 {
		batch = 64
	}
	indexed := 0
	for start := 0; start < len(docs); start += batch {
		end := start + batch
		if end > len(docs) {
			end = len(docs)
		}
		chunk := docs[start:end]
		texts := make([]string, len(chunk))
		for i, doc := range chunk {
			texts[i] = doc.Content
		}
		vectors, err := r.provider.Embed(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		if err := r.vec.UpsertDocs(ctx, chunk, vectors); err != nil {
			return indexed, fmt.Errorf("upsert batch at %d: %w", start, err)
		}
		indexed += len(chunk)
	}
	logger.Info("retriever: reindex complete", "documents", indexed)
	return indexed, nil
}
