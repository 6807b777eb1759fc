// Package api exposes the retrieval service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skddl007/cric-chat/internal/common"
	"github.com/skddl007/cric-chat/internal/retriever"
	"github.com/skddl007/cric-chat/internal/store"
	"github.com/skddl007/cric-chat/internal/vector"
)

// Querier answers archive queries and rebuilds the semantic index.
type Querier interface {
	Answer(ctx context.Context, q string, forceSemantic bool) (retriever.Response, error)
	ReindexAll(ctx context.Context) (int, error)
}

// FeedbackStore records and lists user feedback on results.
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, row store.FeedbackRow) error
	ListFeedback(ctx context.Context, limit int) ([]store.FeedbackRow, error)
}

type Server struct {
	router   chi.Router
	querier  Querier
	feedback FeedbackStore
	vector   vector.Store
	cfg      Config
}

// Config controls request handling limits.
type Config struct {
	RequestTimeout time.Duration
	ReindexTimeout time.Duration
	MaxQueryLength int
	FeedbackLimit  int
}

// DefaultConfig returns the standard configuration used when no overrides are
// provided.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
		ReindexTimeout: 10 * time.Minute,
		MaxQueryLength: 512,
		FeedbackLimit:  100,
	}
}

// Merge overlays positive values from the override onto the base
// configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if override.RequestTimeout > 0 {
		result.RequestTimeout = override.RequestTimeout
	}
	if override.ReindexTimeout > 0 {
		result.ReindexTimeout = override.ReindexTimeout
	}
	if override.MaxQueryLength > 0 {
		result.MaxQueryLength = override.MaxQueryLength
	}
	if override.FeedbackLimit > 0 {
		result.FeedbackLimit = override.FeedbackLimit
	}
	return result
}

func NewServer(querier Querier, feedback FeedbackStore, vectorClient vector.Store, cfg *Config) (*Server, error) {
	logger := common.Logger()
	if querier == nil {
		return nil, fmt.Errorf("querier required")
	}
	configuration := DefaultConfig()
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	logger.Info(
		"api: building server",
		"vector_available", vectorClient != nil && vectorClient.Available(),
		"feedback_enabled", feedback != nil,
	)
	srv := &Server{
		router:   chi.NewRouter(),
		querier:  querier,
		feedback: feedback,
		vector:   vectorClient,
		cfg:      configuration,
	}
	srv.routes()
	logger.Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r)
			logger.Debug("request", "id", requestID, "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/v1/query", s.handleQuery)
	s.router.Post("/v1/feedback", s.handleFeedbackSubmit)
	s.router.Get("/v1/feedback", s.handleFeedbackList)
	s.router.Post("/v1/reindex", s.handleReindex)
	s.router.Get("/v1/logs", s.handleLogs)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := append([]common.LogEntry(nil), common.LogEntries()...)
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
