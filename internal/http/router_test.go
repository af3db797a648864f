package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/service"
	"consumer-assistant/internal/service/mocks"
	"consumer-assistant/internal/session"
)

func newTestDeps(t *testing.T, ctrl *gomock.Controller) (*Deps, *mocks.MockAssistant) {
	t.Helper()
	snap, err := corpus.NewSnapshot([]corpus.Document{
		{ID: "about-1", Title: "เกี่ยวกับ สคบ.", Source: corpus.SourceAbout},
	})
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	assistant := mocks.NewMockAssistant(ctrl)
	return &Deps{
		Assistant:  assistant,
		Snapshot:   snap,
		Sessions:   session.NewMemoryStore(0),
		Collection: "corpus",
		IndexHTML:  "<html><body>Test</body></html>",
	}, assistant
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps, _ := newTestDeps(t, ctrl)
	router := NewRouter(deps)

	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps, _ := newTestDeps(t, ctrl)
	router := NewRouter(deps)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "GET root serves HTML",
			method:     http.MethodGet,
			path:       "/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/chat exists",
			method:     http.MethodPost,
			path:       "/api/chat",
			wantStatus: http.StatusBadRequest, // Bad request due to empty body, but route exists
		},
		{
			name:       "GET /api/chat method not allowed",
			method:     http.MethodGet,
			path:       "/api/chat",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "OPTIONS preflight",
			method:     http.MethodOptions,
			path:       "/api/chat",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_ChatRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps, assistant := newTestDeps(t, ctrl)
	assistant.EXPECT().
		HandleMessage(gomock.Any(), service.MessageRequest{SessionID: "abc", Text: "ร้องเรียน"}).
		Return(service.MessageResponse{Reply: "กรุณาระบุชื่อ", Route: service.IntentComplaint}, nil)

	router := NewRouter(deps)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"session_id":"abc","message":"ร้องเรียน"}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Router POST /api/chat status = %v, want %v", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"route":"COMPLAINT"`) {
		t.Errorf("Router POST /api/chat body = %s, want COMPLAINT route", w.Body.String())
	}
}

func TestRouter_RootServesHTML(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps, _ := newTestDeps(t, ctrl)
	htmlContent := "<html><body>Test HTML</body></html>"
	deps.IndexHTML = htmlContent

	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Router GET / status = %v, want %v", w.Code, http.StatusOK)
	}

	if w.Body.String() != htmlContent {
		t.Errorf("Router GET / body = %v, want %v", w.Body.String(), htmlContent)
	}

	if w.Header().Get("Content-Type") != "text/html; charset=utf-8" {
		t.Errorf("Router GET / Content-Type = %v, want text/html; charset=utf-8", w.Header().Get("Content-Type"))
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps, _ := newTestDeps(t, ctrl)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Check CORS headers are present
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}
