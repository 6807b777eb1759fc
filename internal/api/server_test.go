package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skddl007/cric-chat/internal/query"
	"github.com/skddl007/cric-chat/internal/retriever"
	"github.com/skddl007/cric-chat/internal/store"
)

type stubQuerier struct {
	resp       retriever.Response
	err        error
	lastQuery  string
	lastForced bool
	indexed    int
}

func (s *stubQuerier) Answer(ctx context.Context, q string, forceSemantic bool) (retriever.Response, error) {
	s.lastQuery = q
	s.lastForced = forceSemantic
	return s.resp, s.err
}

func (s *stubQuerier) ReindexAll(ctx context.Context) (int, error) {
	return s.indexed, s.err
}

type stubFeedback struct {
	rows []store.FeedbackRow
	err  error
}

func (s *stubFeedback) InsertFeedback(ctx context.Context, row store.FeedbackRow) error {
	if s.err != nil {
		return s.err
	}
	row.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, row)
	return nil
}

func (s *stubFeedback) ListFeedback(ctx context.Context, limit int) ([]store.FeedbackRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > 0 && limit < len(s.rows) {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func newTestServer(t *testing.T, querier *stubQuerier, feedback *stubFeedback) *Server {
	t.Helper()
	srv, err := NewServer(querier, feedback, nil, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func TestHandleQuery(t *testing.T) {
	querier := &stubQuerier{resp: retriever.Response{
		Category: query.CategoryImage,
		Results:  []retriever.Result{{ImageURL: "https://img/1.jpg", Caption: "one", Distance: 0.1}},
	}}
	srv := newTestServer(t, querier, &stubFeedback{})

	body := bytes.NewBufferString(`{"query":"faf du plessis batting","force_semantic":true}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/query", body)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
	if querier.lastQuery != "faf du plessis batting" || !querier.lastForced {
		t.Fatalf("querier saw %q forced=%v", querier.lastQuery, querier.lastForced)
	}
	var resp retriever.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ImageURL != "https://img/1.jpg" {
		t.Fatalf("results = %v", resp.Results)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}
}

func TestHandleQueryValidation(t *testing.T) {
	srv := newTestServer(t, &stubQuerier{}, &stubFeedback{})

	cases := []struct {
		name string
		body string
	}{
		{"empty query", `{"query":"  "}`},
		{"bad json", `{"query":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewBufferString(tc.body))
			rr := httptest.NewRecorder()
			srv.ServeHTTP(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rr.Code)
			}
		})
	}
}

func TestHandleQueryTooLong(t *testing.T) {
	srv := newTestServer(t, &stubQuerier{}, &stubFeedback{})
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	body := fmt.Sprintf(`{"query":%q}`, long)
	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestHandleQueryError(t *testing.T) {
	srv := newTestServer(t, &stubQuerier{err: fmt.Errorf("archive offline")}, &stubFeedback{})
	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewBufferString(`{"query":"nets"}`))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestFeedbackRoundTrip(t *testing.T) {
	feedback := &stubFeedback{}
	srv := newTestServer(t, &stubQuerier{}, feedback)

	post := httptest.NewRequest(http.MethodPost, "/v1/feedback",
		bytes.NewBufferString(`{"image_id":7,"query":"faf batting","helpful":true,"note":"spot on"}`))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, post)
	if rr.Code != http.StatusCreated {
		t.Fatalf("post status = %d body = %s", rr.Code, rr.Body.String())
	}
	if len(feedback.rows) != 1 {
		t.Fatalf("rows = %d", len(feedback.rows))
	}
	if !feedback.rows[0].ImageID.Valid || feedback.rows[0].ImageID.Int64 != 7 {
		t.Fatalf("image id = %v", feedback.rows[0].ImageID)
	}

	get := httptest.NewRequest(http.MethodGet, "/v1/feedback", nil)
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, get)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	var listed struct {
		Feedback []feedbackEntry `json:"feedback"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed.Feedback) != 1 || listed.Feedback[0].Query != "faf batting" {
		t.Fatalf("feedback = %v", listed.Feedback)
	}
	if listed.Feedback[0].ImageID == nil || *listed.Feedback[0].ImageID != 7 {
		t.Fatalf("image id = %v", listed.Feedback[0].ImageID)
	}
}

func TestFeedbackValidation(t *testing.T) {
	srv := newTestServer(t, &stubQuerier{}, &stubFeedback{})
	req := httptest.NewRequest(http.MethodPost, "/v1/feedback", bytes.NewBufferString(`{"helpful":true}`))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestReindexRequiresVector(t *testing.T) {
	srv := newTestServer(t, &stubQuerier{indexed: 4}, &stubFeedback{})
	req := httptest.NewRequest(http.MethodPost, "/v1/reindex", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &stubQuerier{}, &stubFeedback{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("status = %d body = %q", rr.Code, rr.Body.String())
	}
}

func TestLogsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubQuerier{}, &stubFeedback{})
	req := httptest.NewRequest(http.MethodGet, "/v1/logs", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var payload struct {
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
