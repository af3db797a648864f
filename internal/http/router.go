package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/handlers"
	"consumer-assistant/internal/service"
	"consumer-assistant/internal/session"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Assistant service.Assistant
	Snapshot  *corpus.Snapshot
	Sessions  session.Store
	// Vectors is nil when semantic retrieval is disabled.
	Vectors    handlers.CollectionChecker
	Collection string
	IndexHTML  string // Embedded HTML content
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Add CORS middleware
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.Assistant)
	healthHandler := handlers.NewHealthHandler(deps.Snapshot, deps.Sessions, deps.Vectors, deps.Collection)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	// Serve HTML page at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(deps.IndexHTML))
	})

	return r
}
