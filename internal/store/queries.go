package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/skddl007/cric-chat/internal/catalog"
)

const imageColumns = `id, image_url, caption, description, player_ids, datefrom,
        event_id, mood_id, sublocation_id, action_id, timeofday, focus,
        shot_type, apparel, brands_and_logos, no_of_faces`

var entityTables = map[string][2]string{
	"players":     {"players", "player_name"},
	"action":      {"action", "action_name"},
	"event":       {"event", "event_name"},
	"mood":        {"mood", "mood_name"},
	"sublocation": {"sublocation", "sublocation_name"},
}

func (s *Store) listEntities(ctx context.Context, key string) ([]catalog.NamedRow, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	table := entityTables[key]
	query := fmt.Sprintf(`SELECT id, %s AS name FROM %s ORDER BY id`, table[1], table[0])
	var rows []struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", key, err)
	}
	out := make([]catalog.NamedRow, len(rows))
	for i, r := range rows {
		out[i] = catalog.NamedRow{ID: r.ID, Name: r.Name}
	}
	return out, nil
}

// Players lists player rows for the catalog.
func (s *Store) Players(ctx context.Context) ([]catalog.NamedRow, error) {
	return s.listEntities(ctx, "players")
}

// Actions lists action rows for the catalog.
func (s *Store) Actions(ctx context.Context) ([]catalog.NamedRow, error) {
	return s.listEntities(ctx, "action")
}

// Events lists event rows for the catalog.
func (s *Store) Events(ctx context.Context) ([]catalog.NamedRow, error) {
	return s.listEntities(ctx, "event")
}

// Moods lists mood rows for the catalog.
func (s *Store) Moods(ctx context.Context) ([]catalog.NamedRow, error) {
	return s.listEntities(ctx, "mood")
}

// Sublocations lists sublocation rows for the catalog.
func (s *Store) Sublocations(ctx context.Context) ([]catalog.NamedRow, error) {
	return s.listEntities(ctx, "sublocation")
}

// SearchImages is the single parameterized structured lookup. The filter is
// rendered to a WHERE clause; rows come back ordered by primary key so
// results are deterministic. limit <= 0 means no limit.
func (s *Store) SearchImages(ctx context.Context, filter Expr, limit int) ([]ImageRow, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	query := `SELECT ` + imageColumns + ` FROM cricket_data`
	clause, args := Render(filter)
	if clause != "" {
		query += " WHERE " + clause
	}
	query += " ORDER BY id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	var rows []ImageRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search images: %w", err)
	}
	return rows, nil
}

// CountImages counts rows matching the filter.
func (s *Store) CountImages(ctx context.Context, filter Expr) (int, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialised")
	}
	query := `SELECT COUNT(*) FROM cricket_data`
	clause, args := Render(filter)
	if clause != "" {
		query += " WHERE " + clause
	}
	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return count, nil
}

// ImageByID fetches one image row.
func (s *Store) ImageByID(ctx context.Context, id int64) (ImageRow, error) {
	if s == nil || s.db == nil {
		return ImageRow{}, errors.New("store not initialised")
	}
	var row ImageRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+imageColumns+` FROM cricket_data WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ImageRow{}, fmt.Errorf("image %d: %w", id, err)
	}
	if err != nil {
		return ImageRow{}, fmt.Errorf("load image %d: %w", id, err)
	}
	return row, nil
}

// ImageDetails returns every image joined with its entity names, the shape
// document composition works from.
func (s *Store) ImageDetails(ctx context.Context) ([]ImageDetail, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	query := `SELECT d.id, d.image_url, d.caption, d.description, d.player_ids,
                d.datefrom, d.event_id, d.mood_id, d.sublocation_id, d.action_id,
                d.timeofday, d.focus, d.shot_type, d.apparel, d.brands_and_logos,
                d.no_of_faces,
                COALESCE(a.action_name, '') AS action_name,
                COALESCE(e.event_name, '') AS event_name,
                COALESCE(m.mood_name, '') AS mood_name,
                COALESCE(sl.sublocation_name, '') AS sublocation_name
        FROM cricket_data d
        LEFT JOIN action a ON a.id = d.action_id
        LEFT JOIN event e ON e.id = d.event_id
        LEFT JOIN mood m ON m.id = d.mood_id
        LEFT JOIN sublocation sl ON sl.id = d.sublocation_id
        ORDER BY d.id`
	var rows []ImageDetail
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load image details: %w", err)
	}
	return rows, nil
}

// GroupCounts aggregates image counts over a join dimension: action, event,
// mood, sublocation or timeofday.
func (s *Store) GroupCounts(ctx context.Context, dimension string) ([]GroupCount, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	var query string
	switch dimension {
	case "action", "event", "mood", "sublocation":
		table := entityTables[dimension]
		query = fmt.Sprintf(`SELECT t.%s AS name, COUNT(d.id) AS count
                        FROM %s t
                        INNER JOIN cricket_data d ON d.%s_id = t.id
                        GROUP BY t.%s
                        ORDER BY count DESC, name ASC`, table[1], table[0], dimension, table[1])
	case "timeofday":
		query = `SELECT timeofday AS name, COUNT(*) AS count
                        FROM cricket_data
                        WHERE TRIM(timeofday) != ''
                        GROUP BY timeofday
                        ORDER BY count DESC, name ASC`
	default:
		return nil, fmt.Errorf("unsupported group dimension %q", dimension)
	}
	var rows []GroupCount
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("group counts by %s: %w", dimension, err)
	}
	return rows, nil
}

// PlayerCounts counts, per player, the images whose caption or description
// mention the player. player_ids is denormalized JSON text, so the mention
// count is the reliable aggregate.
func (s *Store) PlayerCounts(ctx context.Context, players []catalog.Player) ([]GroupCount, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	out := make([]GroupCount, 0, len(players))
	for _, p := range players {
		clause, args := Render(Or(
			Like("caption", p.Name),
			Like("description", p.Name),
		))
		var count int
		if err := s.db.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM cricket_data WHERE `+clause, args...); err != nil {
			return nil, fmt.Errorf("count images for %s: %w", p.Name, err)
		}
		if count > 0 {
			out = append(out, GroupCount{Name: p.Name, Count: count})
		}
	}
	sortGroupCounts(out)
	return out, nil
}

func sortGroupCounts(rows []GroupCount) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
}
