package main

import (
	"context"
	_ "embed"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"consumer-assistant/internal/app"
	"consumer-assistant/internal/complaint"
	"consumer-assistant/internal/config"
	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/handlers"
	"consumer-assistant/internal/http"
	"consumer-assistant/internal/indexer"
	"consumer-assistant/internal/oracle"
	"consumer-assistant/internal/rag"
	"consumer-assistant/internal/service"
	"consumer-assistant/internal/session"
	"consumer-assistant/internal/telemetry"
	"consumer-assistant/internal/vectorstore"
)

const version = "1.0.0"

//go:embed index.html
var indexHTML string

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(app.NewLogger(cfg))
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.ServiceName, version, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	// Load the corpus snapshot (fatal on failure)
	snap, err := corpus.Load(cfg.CorpusDir)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	slog.Info("Corpus loaded",
		"dir", cfg.CorpusDir,
		"documents", snap.Len(),
		"about", snap.Count(corpus.SourceAbout),
		"embedded", len(snap.Embedded()),
		"dimension", snap.Dimension(),
	)

	guide, err := complaint.LoadGuide(cfg.CategoryGuidePath)
	if err != nil {
		log.Fatalf("Failed to load category guide: %v", err)
	}

	dim := cfg.EmbeddingDim
	if dim == 0 {
		dim = snap.Dimension()
	}
	if err := snap.ValidateDimension(dim); err != nil {
		log.Fatalf("Corpus does not match EMBEDDING_DIM: %v", err)
	}

	providers, err := app.NewProviders(ctx, cfg, dim)
	if err != nil {
		log.Fatalf("Failed to create LLM providers: %v", err)
	}
	defer func() {
		_ = providers.Close()
	}()
	slog.Info("LLM provider configured", "provider", cfg.LLMProvider)

	sessions, closeSessions, err := app.NewSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	defer func() {
		_ = closeSessions()
	}()
	slog.Info("Session store initialized", "backend", cfg.SessionBackend, "ttl", cfg.SessionTTL)

	detector := rag.NewCategoryDetector(rag.DefaultTriggers)
	analyzer := app.NewAnalyzer(snap, detector, guide)

	semantic, vectors := setupSemantic(ctx, cfg, snap, providers)

	var (
		intents    service.IntentClassifier
		categories complaint.CategoryClassifier
		extractor  complaint.FieldExtractor
		reranker   rag.Reranker
	)
	if providers.Completer != nil {
		intents = oracle.NewIntentClassifier(providers.Completer, cfg.OracleTimeout)
		categories = oracle.NewCategoryClassifier(providers.Completer, cfg.OracleTimeout)
		extractor = oracle.NewFieldExtractor(providers.Completer, cfg.OracleTimeout)
		reranker = oracle.NewReranker(providers.Completer, cfg.OracleTimeout)
	} else {
		intents = oracle.NewKeywordIntentClassifier(analyzer)
		categories = oracle.NewKeywordCategoryClassifier(analyzer)
	}

	engineCfg := rag.DefaultEngineConfig()
	engineCfg.OrgAnswerChars = cfg.OrgAnswerChars
	engineCfg.LinksTopK = cfg.LinksTopK
	engine := rag.NewEngine(snap, analyzer, detector, semantic, reranker, engineCfg)
	slog.Info("RAG engine initialized", "semantic", semantic != nil, "rerank", reranker != nil)

	machine := complaint.NewMachine(guide, categories, extractor, sessions, session.NewLocker())
	assistant := service.NewAssistant(intents, engine, machine)

	// Create router with dependencies
	deps := &http.Deps{
		Assistant:  assistant,
		Snapshot:   snap,
		Sessions:   sessions,
		Vectors:    vectors,
		Collection: cfg.QdrantCollection,
		IndexHTML:  indexHTML,
	}
	router := http.NewRouter(deps)

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           otelhttp.NewHandler(router, "http.server"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	// Start API server
	slog.Info("Starting API server", "addr", server.Addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
}

// setupSemantic builds the semantic retriever. It returns nils, and the engine
// runs lexical-only, when no embedder is configured, the corpus has no
// embeddings, or the provider cannot be reached. A provider whose vectors do not
// match the corpus is fatal.
func setupSemantic(ctx context.Context, cfg *config.Config, snap *corpus.Snapshot, providers *app.Providers) (*rag.SemanticRetriever, handlers.CollectionChecker) {
	if providers.Embedder == nil || snap.Dimension() == 0 {
		slog.Info("Semantic retrieval disabled", "provider", cfg.LLMProvider, "corpus_dimension", snap.Dimension())
		return nil, nil
	}

	// Validate embedding client vector size (fail-fast)
	dim, err := app.ValidateEmbeddings(ctx, providers.Embedder, snap)
	if errors.Is(err, corpus.ErrDimensionMismatch) {
		log.Fatalf("Embedding vector size mismatch: %v", err)
	}
	if err != nil {
		slog.Warn("Embedding provider unavailable, semantic retrieval disabled", "error", err)
		return nil, nil
	}
	slog.Info("Embedding client validated", "vector_size", dim)

	store, err := app.NewVectorStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create vector store: %v", err)
	}

	if mem, ok := store.(*vectorstore.MemoryStore); ok {
		pipeline, err := indexer.NewPipeline(nil, mem, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create indexing pipeline: %v", err)
		}
		defer pipeline.Release()
		stats, err := pipeline.Index(ctx, snap)
		if err != nil {
			log.Fatalf("Failed to build in-memory vector index: %v", err)
		}
		slog.Info("In-memory vector index built", "points", stats.Upserted)
	}

	checker, _ := store.(handlers.CollectionChecker)
	if checker != nil {
		exists, err := checker.CollectionExists(ctx, cfg.QdrantCollection)
		if err != nil || !exists {
			slog.Warn("Vector collection not ready, run the corpus index command", "collection", cfg.QdrantCollection, "error", err)
		}
	}

	return rag.NewSemanticRetriever(providers.Embedder, store, cfg.QdrantCollection, snap), checker
}
