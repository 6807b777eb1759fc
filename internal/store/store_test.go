package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenWithConfig(Config{
		Path:         filepath.Join(t.TempDir(), "archive.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 2,
		BusyTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedArchive(t *testing.T, s *Store) (actionID, eventID int64) {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{"FAF DU PLESSIS", "MOEEN ALI", "JP KING"} {
		if _, err := s.EnsureEntity(ctx, "players", name); err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}
	var err error
	actionID, err = s.EnsureEntity(ctx, "action", "batting")
	if err != nil {
		t.Fatalf("seed action: %v", err)
	}
	eventID, err = s.EnsureEntity(ctx, "event", "practice session")
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	images := []ImageRow{
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
			ImageURL:    "https://img/3.jpg",
			Caption:     "Team huddle before the match",
			Description: "The whole squad gathers on the field",
			TimeOfDay:   "evening",
			NoOfFaces:   11,
		},
	}
	for _, img := range images {
		if _, err := s.InsertImage(ctx, img); err != nil {
			t.Fatalf("seed image: %v", err)
		}
	}
	return actionID, eventID
}

func TestOpenAppliesConnectionPragmas(t *testing.T) {
	s := openTestStore(t)
	var mode string
	if err := s.DB().Get(&mode, `PRAGMA journal_mode`); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}
	var fk int
	if err := s.DB().Get(&fk, `PRAGMA foreign_keys`); err != nil {
		t.Fatalf("foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys = %d, want 1", fk)
	}
}

func TestMigrateAndEntityListing(t *testing.T) {
	s := openTestStore(t)
	seedArchive(t, s)
	players, err := s.Players(context.Background())
	if err != nil {
		t.Fatalf("Players: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("players = %v", players)
	}
	if players[0].ID >= players[1].ID {
		t.Fatal("players must come back in ascending ID order")
	}
}

func TestEnsureEntityIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	first, err := s.EnsureEntity(ctx, "mood", "happy")
	if err != nil {
		t.Fatalf("EnsureEntity: %v", err)
	}
	second, err := s.EnsureEntity(ctx, "mood", "happy")
	if err != nil {
		t.Fatalf("EnsureEntity repeat: %v", err)
	}
	if first != second {
		t.Fatalf("expected same id, got %d and %d", first, second)
	}
}

func TestSearchImagesFilters(t *testing.T) {
	s := openTestStore(t)
	actionID, _ := seedArchive(t, s)
	ctx := context.Background()

	rows, err := s.SearchImages(ctx, And(
		Or(Like("caption", "faf du plessis"), Like("description", "faf du plessis")),
		Cond("action_id", "=", actionID),
	), 0)
	if err != nil {
		t.Fatalf("SearchImages: %v", err)
	}
	if len(rows) != 1 || rows[0].ImageURL != "https://img/1.jpg" {
		t.Fatalf("rows = %v", rows)
	}

	rows, err = s.SearchImages(ctx, Cond("no_of_faces", ">=", 2), 0)
	if err != nil {
		t.Fatalf("SearchImages faces: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 multi-face rows, got %d", len(rows))
	}
	if rows[0].ID > rows[1].ID {
		t.Fatal("results must be ordered by id")
	}

	rows, err = s.SearchImages(ctx, nil, 2)
	if err != nil {
		t.Fatalf("SearchImages limit: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("limit ignored, got %d rows", len(rows))
	}
}

func TestCountAndGroupCounts(t *testing.T) {
	s := openTestStore(t)
	seedArchive(t, s)
	ctx := context.Background()

	count, err := s.CountImages(ctx, Cond("no_of_faces", ">=", 2))
	if err != nil {
		t.Fatalf("CountImages: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d", count)
	}

	groups, err := s.GroupCounts(ctx, "timeofday")
	if err != nil {
		t.Fatalf("GroupCounts: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("groups = %v", groups)
	}

	if _, err := s.GroupCounts(ctx, "nope"); err == nil {
		t.Fatal("expected error for unknown dimension")
	}
}

func TestDocumentsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	seedArchive(t, s)
	ctx := context.Background()

	if err := s.UpsertDocument(ctx, 1, "first version"); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	if err := s.UpsertDocument(ctx, 1, "second version"); err != nil {
		t.Fatalf("UpsertDocument update: %v", err)
	}
	doc, err := s.DocumentByImage(ctx, 1)
	if err != nil {
		t.Fatalf("DocumentByImage: %v", err)
	}
	if doc.Content != "second version" {
		t.Fatalf("content = %q", doc.Content)
	}
}

func TestFeedbackRoundTrip(t *testing.T) {
	s := openTestStore(t)
	seedArchive(t, s)
	ctx := context.Background()

	err := s.InsertFeedback(ctx, FeedbackRow{
		ImageID: sql.NullInt64{Int64: 1, Valid: true},
		Query:   "faf batting",
		Helpful: true,
		Note:    "exactly right",
	})
	if err != nil {
		t.Fatalf("InsertFeedback: %v", err)
	}
	rows, err := s.ListFeedback(ctx, 10)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(rows) != 1 || !rows[0].Helpful || rows[0].Query != "faf batting" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestImageDetailsJoinsNames(t *testing.T) {
	s := openTestStore(t)
	seedArchive(t, s)
	details, err := s.ImageDetails(context.Background())
	if err != nil {
		t.Fatalf("ImageDetails: %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("details = %d", len(details))
	}
	if details[0].ActionName != "batting" || details[0].EventName != "practice session" {
		t.Fatalf("joined names = %q %q", details[0].ActionName, details[0].EventName)
	}
	if details[1].ActionName != "" {
		t.Fatalf("missing action should join empty, got %q", details[1].ActionName)
	}
}
