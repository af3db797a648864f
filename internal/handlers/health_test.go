package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/session"
	sessionmocks "consumer-assistant/internal/session/mocks"
)

type stubCollections struct {
	exists bool
	err    error
}

func (s stubCollections) CollectionExists(ctx context.Context, collection string) (bool, error) {
	return s.exists, s.err
}

func testSnapshot(t *testing.T) *corpus.Snapshot {
	t.Helper()
	snap, err := corpus.NewSnapshot([]corpus.Document{
		{ID: "about-1", Title: "เกี่ยวกับ สคบ.", Source: corpus.SourceAbout},
		{ID: "article-1", Title: "สิทธิผู้บริโภค", Source: corpus.SourceArticle},
	})
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	return snap
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	empty, err := corpus.NewSnapshot(nil)
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}

	tests := []struct {
		name       string
		method     string
		snapshot   *corpus.Snapshot
		storeErr   error
		vectors    CollectionChecker
		wantStatus int
		wantChecks map[string]string
		wantIssues int
	}{
		{
			name:       "healthy without vector store",
			method:     http.MethodGet,
			snapshot:   testSnapshot(t),
			storeErr:   session.ErrNotFound,
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"corpus": "ok", "session_store": "ok", "vector_store": "disabled"},
		},
		{
			name:       "healthy with vector store",
			method:     http.MethodGet,
			snapshot:   testSnapshot(t),
			storeErr:   session.ErrNotFound,
			vectors:    stubCollections{exists: true},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"corpus": "ok", "session_store": "ok", "vector_store": "ok"},
		},
		{
			name:       "missing collection",
			method:     http.MethodGet,
			snapshot:   testSnapshot(t),
			storeErr:   session.ErrNotFound,
			vectors:    stubCollections{exists: false},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"vector_store": "error"},
			wantIssues: 1,
		},
		{
			name:       "vector store error",
			method:     http.MethodGet,
			snapshot:   testSnapshot(t),
			storeErr:   session.ErrNotFound,
			vectors:    stubCollections{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"vector_store": "error"},
			wantIssues: 1,
		},
		{
			name:       "empty corpus and broken session store",
			method:     http.MethodGet,
			snapshot:   empty,
			storeErr:   errors.New("redis down"),
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"corpus": "error", "session_store": "error"},
			wantIssues: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := sessionmocks.NewMockStore(ctrl)
			store.EXPECT().Get(gomock.Any(), "health", "ping").Return(nil, tt.storeErr)

			handler := NewHealthHandler(tt.snapshot, store, tt.vectors, "corpus")
			req := httptest.NewRequest(tt.method, "/api/health", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			for k, v := range tt.wantChecks {
				if resp.Checks[k] != v {
					t.Errorf("Checks[%q] = %q, want %q", k, resp.Checks[k], v)
				}
			}
			if len(resp.Issues) != tt.wantIssues {
				t.Errorf("Issues = %v, want %d entries", resp.Issues, tt.wantIssues)
			}
			if resp.Documents != tt.snapshot.Len() {
				t.Errorf("Documents = %d, want %d", resp.Documents, tt.snapshot.Len())
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	handler := NewHealthHandler(nil, nil, nil, "corpus")
	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("ServeHTTP() status = %v, want %v", w.Code, http.StatusMethodNotAllowed)
	}
}
