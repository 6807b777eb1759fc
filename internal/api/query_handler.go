package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/skddl007/cric-chat/internal/common"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: query decode failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		logger.Warn("api: query missing")
		writeError(w, http.StatusBadRequest, fmt.Errorf("query required"))
		return
	}
	if len(query) > s.cfg.MaxQueryLength {
		logger.Warn("api: query too long", "length", len(query))
		writeError(w, http.StatusBadRequest, fmt.Errorf("query exceeds %d characters", s.cfg.MaxQueryLength))
		return
	}
	logger.Info("api: query request", "query", query, "force_semantic", req.ForceSemantic)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()
	resp, err := s.querier.Answer(ctx, query, req.ForceSemantic)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Debug("api: query answered",
		"category", resp.Category, "results", len(resp.Results),
		"semantic", resp.UsedSemantic, "variant", resp.Variant)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if s.vector == nil || !s.vector.Available() {
		logger.Warn("api: reindex requested with vector index unavailable")
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("vector index unavailable"))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ReindexTimeout)
	defer cancel()
	indexed, err := s.querier.ReindexAll(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: reindex finished", "indexed", indexed)
	writeJSON(w, http.StatusOK, reindexResponse{Indexed: indexed})
}
