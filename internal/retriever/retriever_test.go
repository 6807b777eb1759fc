package retriever

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skddl007/cric-chat/internal/catalog"
	"github.com/skddl007/cric-chat/internal/llm/providers"
	"github.com/skddl007/cric-chat/internal/query"
	"github.com/skddl007/cric-chat/internal/store"
	"github.com/skddl007/cric-chat/internal/vector"
)

type fakeVector struct {
	available bool
	hits      []vector.SearchResult
	upserted  []vector.Doc
}

func (f *fakeVector) Available() bool    { return f.available }
func (f *fakeVector) Collection() string { return "test" }

func (f *fakeVector) UpsertDocs(ctx context.Context, docs []vector.Doc, vectors [][]float32) error {
	f.upserted = append(f.upserted, docs...)
	return nil
}

func (f *fakeVector) Search(ctx context.Context, vec []float32, limit int) ([]vector.SearchResult, error) {
	return f.hits, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenWithConfig(store.Config{
		Path:         filepath.Join(t.TempDir(), "archive.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 2,
		BusyTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	for _, name := range []string{"FAF DU PLESSIS", "MOEEN ALI", "JP KING"} {
		if _, err := s.EnsureEntity(ctx, "players", name); err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}
	actionID, err := s.EnsureEntity(ctx, "action", "batting")
	if err != nil {
		t.Fatalf("seed action: %v", err)
	}
	eventID, err := s.EnsureEntity(ctx, "event", "practice session")
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	images := []store.ImageRow{
		{
			ImageURL:    "https://img/1.jpg",
			Caption:     "FAF DU PLESSIS batting at the nets",
			Description: "Faf du Plessis plays a drive during practice",
			ActionID:    sql.NullInt64{Int64: actionID, Valid: true},
			EventID:     sql.NullInt64{Int64: eventID, Valid: true},
			TimeOfDay:   "morning",
			Focus:       "player",
			NoOfFaces:   1,
		},
		{
			ImageURL:    "https://img/2.jpg",
			Caption:     "MOEEN ALI and JP KING share a laugh",
			Description: "Moeen Ali stands with JP King near the boundary",
			TimeOfDay:   "afternoon",
			NoOfFaces:   2,
		},
		{
			// Mentions both players but only one face: must never
			// survive multi-player verification.
			ImageURL:    "https://img/3.jpg",
			Caption:     "MOEEN ALI poster featuring JP KING artwork",
			Description: "Close-up of Moeen Ali with a JP King banner",
			NoOfFaces:   1,
		},
		{
			ImageURL:    "https://img/4.jpg",
			Caption:     "Team huddle before the match",
			Description: "The whole squad gathers on the field",
			TimeOfDay:   "evening",
			NoOfFaces:   11,
		},
		{
			ImageURL:    "https://img/5.jpg",
			Caption:     "Players signing autographs for supporters",
			Description: "A queue of young admirers waits by the boundary rope",
			TimeOfDay:   "afternoon",
			NoOfFaces:   5,
		},
	}
	for _, img := range images {
		if _, err := s.InsertImage(ctx, img); err != nil {
			t.Fatalf("seed image: %v", err)
		}
	}
	return s
}

func newTestRetriever(t *testing.T, vec vector.Store) (*Retriever, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	cat, err := catalog.Load(context.Background(), s)
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return New(s, cat, vec, providers.NewLocalProvider()), s
}

func TestAnswerCountingShortCircuits(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "how many photos of faf du plessis", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.Category != query.CategoryCounting {
		t.Fatalf("category = %q", resp.Category)
	}
	if resp.Text != "Found 1 matching image." {
		t.Fatalf("text = %q", resp.Text)
	}
	if resp.UsedSemantic {
		t.Fatal("counting must not use the semantic path")
	}
}

func TestAnswerStructuredSentinelDistance(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "faf du plessis batting", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.UsedSemantic {
		t.Fatal("structured hit should not report semantic")
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected structured results")
	}
	for _, res := range resp.Results {
		if res.Distance != structuredDistance {
			t.Fatalf("structured result distance = %v", res.Distance)
		}
	}
	if resp.Results[0].ImageURL != "https://img/1.jpg" {
		t.Fatalf("results = %v", resp.Results)
	}
}

func TestMultiPlayerInvariants(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "moeen ali and jp king together", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %v", resp.Results)
	}
	if resp.Results[0].ImageURL != "https://img/2.jpg" {
		t.Fatalf("wrong image: %v", resp.Results[0])
	}
	// The one-face poster and the no-mention huddle must both be gone.
	for _, res := range resp.Results {
		if res.ImageURL == "https://img/3.jpg" || res.ImageURL == "https://img/4.jpg" {
			t.Fatalf("verification failed to drop %s", res.ImageURL)
		}
	}
}

func TestSinglePlayerTogetherKeepsFaceGate(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "faf du plessis together with teammates", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	// Only one catalog player is named, but the together phrasing still
	// demands at least two faces: the one-face rows must never come back,
	// not even through a refinement variant that drops "together".
	for _, res := range resp.Results {
		if res.ImageURL == "https://img/1.jpg" || res.ImageURL == "https://img/3.jpg" {
			t.Fatalf("one-face row leaked: %v", resp.Results)
		}
	}
}

func TestMultiPlayerPartialMentionSurvives(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "faf du plessis and moeen ali together", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	// img/2 names Moeen Ali but not Faf; mentioning one of the requested
	// players is enough to survive verification.
	if len(resp.Results) != 1 || resp.Results[0].ImageURL != "https://img/2.jpg" {
		t.Fatalf("results = %v", resp.Results)
	}
	if resp.UsedSemantic {
		t.Fatal("expected a structured hit")
	}
}

func TestGroupPhotoPhrasingWithoutNamedPlayers(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "show me a group photo", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	// Generic group terms plus the face gate: the huddle and the autograph
	// crowd qualify, the two-face candid without group wording does not.
	if len(resp.Results) != 2 {
		t.Fatalf("results = %v", resp.Results)
	}
	if resp.Results[0].ImageURL != "https://img/4.jpg" || resp.Results[1].ImageURL != "https://img/5.jpg" {
		t.Fatalf("results = %v", resp.Results)
	}
}

func TestSemanticFallbackThresholdAndOrder(t *testing.T) {
	vec := &fakeVector{
		available: true,
		hits: []vector.SearchResult{
			{ID: "1", Distance: 0.2, Payload: map[string]interface{}{
				"image_url": "https://img/1.jpg", "caption": "one",
			}},
			{ID: "2", Distance: 0.5, Payload: map[string]interface{}{
				"image_url": "https://img/2.jpg", "caption": "two",
			}},
			{ID: "4", Distance: 0.7, Payload: map[string]interface{}{
				"image_url": "https://img/4.jpg", "caption": "four",
			}},
		},
	}
	r, _ := newTestRetriever(t, vec)
	resp, err := r.Answer(context.Background(), "xyzzy qwerty", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !resp.UsedSemantic {
		t.Fatal("expected semantic fallback")
	}
	// Similarity 0.3 for distance 0.7 is below the 0.4 threshold.
	if len(resp.Results) != 2 {
		t.Fatalf("results = %v", resp.Results)
	}
	if resp.Results[0].Distance > resp.Results[1].Distance {
		t.Fatal("semantic results must ascend by distance")
	}
}

func TestForceSemanticSkipsStructured(t *testing.T) {
	vec := &fakeVector{
		available: true,
		hits: []vector.SearchResult{
			{ID: "2", Distance: 0.1, Payload: map[string]interface{}{
				"image_url": "https://img/2.jpg", "caption": "two",
			}},
		},
	}
	r, _ := newTestRetriever(t, vec)
	resp, err := r.Answer(context.Background(), "faf du plessis batting", true)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !resp.UsedSemantic {
		t.Fatal("forceSemantic must use the semantic path")
	}
	if len(resp.Results) != 1 || resp.Results[0].ImageURL != "https://img/2.jpg" {
		t.Fatalf("results = %v", resp.Results)
	}
}

func TestRefinementRetryFirstSuccessWins(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "plaer bating", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("refinement should recover the misspelled query")
	}
	if resp.UsedSemantic {
		t.Fatal("the corrected variant should hit the structured path")
	}
	if resp.Variant != "player batting" {
		t.Fatalf("variant = %q", resp.Variant)
	}
	if resp.Results[0].ImageURL != "https://img/1.jpg" {
		t.Fatalf("results = %v", resp.Results)
	}
}

func TestTabularBreakdown(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "show a table of photos per action", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.Category != query.CategoryTabular {
		t.Fatalf("category = %q", resp.Category)
	}
	if !strings.Contains(resp.Text, "| Action | Count |") {
		t.Fatalf("text = %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "| batting | 1 |") {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestCountingBreakdownTable(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "how many photos per player", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.Category != query.CategoryCounting {
		t.Fatalf("category = %q", resp.Category)
	}
	if !strings.Contains(resp.Text, "| Player | Count |") {
		t.Fatalf("text = %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "| MOEEN ALI | 2 |") {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestFanQueryRoutesToActivity(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "players with spectators", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.UsedSemantic {
		t.Fatal("fan query should resolve on the structured path")
	}
	if len(resp.Results) != 1 || resp.Results[0].ImageURL != "https://img/5.jpg" {
		t.Fatalf("results = %v", resp.Results)
	}
}

func TestEmptyQuery(t *testing.T) {
	r, _ := newTestRetriever(t, &fakeVector{})
	resp, err := r.Answer(context.Background(), "   ", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if len(resp.Results) != 0 || resp.UsedSemantic {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestReindexAllComposesDocuments(t *testing.T) {
	vec := &fakeVector{available: true}
	r, s := newTestRetriever(t, vec)
	indexed, err := r.ReindexAll(context.Background())
	if err != nil {
		t.Fatalf("ReindexAll: %v", err)
	}
	if indexed != 5 {
		t.Fatalf("indexed = %d", indexed)
	}
	if len(vec.upserted) != 5 {
		t.Fatalf("upserted = %d", len(vec.upserted))
	}

	doc, err := s.DocumentByImage(context.Background(), 1)
	if err != nil {
		t.Fatalf("DocumentByImage: %v", err)
	}
	want := "FAF DU PLESSIS batting at the nets Action: batting. Event: practice session. " +
		"Mood: . Location: . Time of day: morning. Focus: player. Shot type: . " +
		"Apparel: . Brands and logos: . Number of faces: 1"
	if doc.Content != want {
		t.Fatalf("document content:\n got %q\nwant %q", doc.Content, want)
	}
	if vec.upserted[0].Metadata["image_url"] != "https://img/1.jpg" {
		t.Fatalf("metadata = %v", vec.upserted[0].Metadata)
	}
}
