package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// EnsureEntity inserts an entity name if absent and returns its row ID.
// Table is one of players, action, event, mood, sublocation.
func (s *Store) EnsureEntity(ctx context.Context, table, name string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialised")
	}
	spec, ok := entityTables[table]
	if !ok {
		return 0, fmt.Errorf("unknown entity table %q", table)
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, errors.New("entity name required")
	}
	var id int64
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = ?`, spec[0], spec[1])
		err := tx.GetContext(ctx, &id, query, trimmed)
		if errors.Is(err, sql.ErrNoRows) {
			res, ierr := tx.ExecContext(ctx,
				fmt.Sprintf(`INSERT INTO %s(%s) VALUES(?)`, spec[0], spec[1]), trimmed)
			if ierr != nil {
				return fmt.Errorf("insert %s: %w", table, ierr)
			}
			id, ierr = res.LastInsertId()
			if ierr != nil {
				return fmt.Errorf("%s id: %w", table, ierr)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", table, err)
		}
		return nil
	})
	return id, err
}

// InsertImage persists an image row and returns its ID.
func (s *Store) InsertImage(ctx context.Context, row ImageRow) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialised")
	}
	if strings.TrimSpace(row.ImageURL) == "" {
		return 0, errors.New("image url required")
	}
	playerIDs := row.PlayerIDs
	if strings.TrimSpace(playerIDs) == "" {
		playerIDs = "[]"
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cricket_data(image_url, caption, description, player_ids,
                        datefrom, event_id, mood_id, sublocation_id, action_id,
                        timeofday, focus, shot_type, apparel, brands_and_logos, no_of_faces)
                VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ImageURL, row.Caption, row.Description, playerIDs, row.DateFrom,
		row.EventID, row.MoodID, row.SublocationID, row.ActionID,
		row.TimeOfDay, row.Focus, row.ShotType, row.Apparel,
		row.BrandsAndLogos, row.NoOfFaces)
	if err != nil {
		return 0, fmt.Errorf("insert image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("image id: %w", err)
	}
	return id, nil
}

// UpsertDocument stores the composed caption document for an image.
func (s *Store) UpsertDocument(ctx context.Context, imageID int64, content string) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialised")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents(image_id, content) VALUES(?, ?)
                ON CONFLICT(image_id) DO UPDATE SET content = excluded.content`,
		imageID, content)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// DocumentByImage loads the stored document for an image.
func (s *Store) DocumentByImage(ctx context.Context, imageID int64) (DocumentRow, error) {
	if s == nil || s.db == nil {
		return DocumentRow{}, errors.New("store not initialised")
	}
	var row DocumentRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, image_id, content FROM documents WHERE image_id = ?`, imageID)
	if err != nil {
		return DocumentRow{}, fmt.Errorf("load document for image %d: %w", imageID, err)
	}
	return row, nil
}

// InsertFeedback records user feedback on a result.
func (s *Store) InsertFeedback(ctx context.Context, row FeedbackRow) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialised")
	}
	if strings.TrimSpace(row.Query) == "" {
		return errors.New("feedback query required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback(image_id, query, helpful, note) VALUES(?, ?, ?, ?)`,
		row.ImageID, row.Query, row.Helpful, row.Note)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListFeedback returns the most recent feedback rows.
func (s *Store) ListFeedback(ctx context.Context, limit int) ([]FeedbackRow, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	if limit <= 0 {
		limit = 100
	}
	var rows []FeedbackRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, image_id, query, helpful, note, created_at
                FROM feedback ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return rows, nil
}
