package api

import "time"

type queryRequest struct {
	Query         string `json:"query"`
	ForceSemantic bool   `json:"force_semantic"`
}

type feedbackRequest struct {
	ImageID *int64 `json:"image_id"`
	Query   string `json:"query"`
	Helpful bool   `json:"helpful"`
	Note    string `json:"note"`
}

type feedbackEntry struct {
	ID        int64     `json:"id"`
	ImageID   *int64    `json:"image_id,omitempty"`
	Query     string    `json:"query"`
	Helpful   bool      `json:"helpful"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type reindexResponse struct {
	Indexed int `json:"indexed"`
}
