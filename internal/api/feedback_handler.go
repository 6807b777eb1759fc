package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/skddl007/cric-chat/internal/common"
	"github.com/skddl007/cric-chat/internal/store"
)

func (s *Server) handleFeedbackSubmit(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if s.feedback == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("feedback store unavailable"))
		return
	}
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: feedback decode failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query required"))
		return
	}
	row := store.FeedbackRow{
		Query:   query,
		Helpful: req.Helpful,
		Note:    strings.TrimSpace(req.Note),
	}
	if req.ImageID != nil {
		row.ImageID = sql.NullInt64{Int64: *req.ImageID, Valid: true}
	}
	if err := s.feedback.InsertFeedback(r.Context(), row); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: feedback recorded", "query", query, "helpful", req.Helpful)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (s *Server) handleFeedbackList(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if s.feedback == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("feedback store unavailable"))
		return
	}
	limit := s.cfg.FeedbackLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	rows, err := s.feedback.ListFeedback(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	entries := make([]feedbackEntry, 0, len(rows))
	for _, row := range rows {
		entry := feedbackEntry{
			ID:        row.ID,
			Query:     row.Query,
			Helpful:   row.Helpful,
			Note:      row.Note,
			CreatedAt: row.CreatedAt,
		}
		if row.ImageID.Valid {
			id := row.ImageID.Int64
			entry.ImageID = &id
		}
		entries = append(entries, entry)
	}
	logger.Debug("api: feedback listed", "entries", len(entries))
	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": entries})
}
