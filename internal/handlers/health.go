package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"consumer-assistant/internal/contextutil"
	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/session"
)

// CollectionChecker reports whether a vector collection exists.
type CollectionChecker interface {
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

// Check results.
const (
	checkOK       = "ok"
	checkError    = "error"
	checkDisabled = "disabled"
)

// HealthHandler reports whether the corpus is loaded and the session and vector
// stores answer.
type HealthHandler struct {
	snapshot   *corpus.Snapshot
	sessions   session.Store
	vectors    CollectionChecker
	collection string
	timeout    time.Duration
}

// NewHealthHandler creates a HealthHandler. vectors is nil when semantic retrieval
// is disabled.
func NewHealthHandler(snapshot *corpus.Snapshot, sessions session.Store, vectors CollectionChecker, collection string) *HealthHandler {
	return &HealthHandler{
		snapshot:   snapshot,
		sessions:   sessions,
		vectors:    vectors,
		collection: collection,
		timeout:    5 * time.Second,
	}
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	// Status is "healthy" or "unhealthy".
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Documents int               `json:"documents"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

type healthCheck struct {
	name  string
	issue string
	run   func(ctx context.Context, logger *slog.Logger) string
}

// ServeHTTP answers 200 when every check passes and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]string, 3),
	}
	if h.snapshot != nil {
		resp.Documents = h.snapshot.Len()
	}

	for _, c := range []healthCheck{
		{name: "corpus", issue: "corpus_empty", run: func(context.Context, *slog.Logger) string {
			if resp.Documents == 0 {
				return checkError
			}
			return checkOK
		}},
		{name: "session_store", issue: "session_store_unavailable", run: h.checkSessions},
		{name: "vector_store", issue: "vector_store_unavailable", run: h.checkVectors},
	} {
		result := c.run(ctx, logger)
		resp.Checks[c.name] = result
		if result == checkError {
			resp.Issues = append(resp.Issues, c.issue)
		}
	}

	code := http.StatusOK
	if len(resp.Issues) > 0 {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

// checkSessions reads a key that never exists; ErrNotFound means the store answered.
func (h *HealthHandler) checkSessions(ctx context.Context, logger *slog.Logger) string {
	if h.sessions == nil {
		return checkError
	}
	if _, err := h.sessions.Get(ctx, "health", "ping"); err != nil && !errors.Is(err, session.ErrNotFound) {
		logger.WarnContext(ctx, "session store unreachable", "error", err)
		return checkError
	}
	return checkOK
}

func (h *HealthHandler) checkVectors(ctx context.Context, logger *slog.Logger) string {
	if h.vectors == nil {
		return checkDisabled
	}
	exists, err := h.vectors.CollectionExists(ctx, h.collection)
	switch {
	case err != nil:
		logger.WarnContext(ctx, "vector store unreachable", "error", err)
		return checkError
	case !exists:
		logger.WarnContext(ctx, "vector collection missing", "collection", h.collection)
		return checkError
	}
	return checkOK
}
