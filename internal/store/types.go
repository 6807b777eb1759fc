package store

import (
	"database/sql"
	"time"
)

// ImageRow is a cricket_data row.
type ImageRow struct {
	ID             int64         `db:"id"`
	ImageURL       string        `db:"image_url"`
	Caption        string        `db:"caption"`
	Description    string        `db:"description"`
	PlayerIDs      string        `db:"player_ids"`
	DateFrom       string        `db:"datefrom"`
	EventID        sql.NullInt64 `db:"event_id"`
	MoodID         sql.NullInt64 `db:"mood_id"`
	SublocationID  sql.NullInt64 `db:"sublocation_id"`
	ActionID       sql.NullInt64 `db:"action_id"`
	TimeOfDay      string        `db:"timeofday"`
	Focus          string        `db:"focus"`
	ShotType       string        `db:"shot_type"`
	Apparel        string        `db:"apparel"`
	BrandsAndLogos string        `db:"brands_and_logos"`
	NoOfFaces      int           `db:"no_of_faces"`
}

// ImageDetail joins an image with its resolved entity names, used for
// document composition.
type ImageDetail struct {
	ImageRow
	ActionName      string `db:"action_name"`
	EventName       string `db:"event_name"`
	MoodName        string `db:"mood_name"`
	SublocationName string `db:"sublocation_name"`
}

// DocumentRow is a composed caption document persisted for an image.
type DocumentRow struct {
	ID      int64  `db:"id"`
	ImageID int64  `db:"image_id"`
	Content string `db:"content"`
}

// FeedbackRow records user feedback on a result. Feedback never affects
// ranking.
type FeedbackRow struct {
	ID        int64         `db:"id"`
	ImageID   sql.NullInt64 `db:"image_id"`
	Query     string        `db:"query"`
	Helpful   bool          `db:"helpful"`
	Note      string        `db:"note"`
	CreatedAt time.Time     `db:"created_at"`
}

// GroupCount is one bucket of an aggregate breakdown.
type GroupCount struct {
	Name  string `db:"name"`
	Count int    `db:"count"`
}
