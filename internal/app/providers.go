// Package app builds the shared runtime dependencies of the commands from
// configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"consumer-assistant/internal/complaint"
	"consumer-assistant/internal/config"
	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/llm"
	"consumer-assistant/internal/oracle"
	"consumer-assistant/internal/rag"
	"consumer-assistant/internal/session"
	"consumer-assistant/internal/storage"
	"consumer-assistant/internal/textnorm"
	"consumer-assistant/internal/vectorstore"
)

// redisKeyPrefix namespaces session keys in a shared Redis.
const redisKeyPrefix = "consumer-assistant:session:"

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// Providers holds the LLM-backed completer and embedder. Both are nil when
// LLM_PROVIDER is none.
type Providers struct {
	Completer llm.Completer
	Embedder  llm.Embedder
	closers   []func() error
}

// NewProviders creates guarded LLM clients. dim is the expected embedding size;
// zero accepts any size.
func NewProviders(ctx context.Context, cfg *config.Config, dim int) (*Providers, error) {
	p := &Providers{}

	var completer llm.Completer
	var embedder llm.Embedder
	switch cfg.LLMProvider {
	case config.ProviderNone:
		return p, nil
	case config.ProviderGemini:
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, "", "", dim)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, gemini.Close)
		completer, embedder = gemini, gemini
	default:
		completer = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
		embedder = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, dim)
	}

	// Completions and embeddings trip independently.
	p.Completer = llm.NewGuardedCompleter(completer, llm.NewGuard(llm.GuardConfig{
		Name:              cfg.LLMProvider + "-chat",
		Timeout:           cfg.OracleTimeout,
		RequestsPerMinute: cfg.OracleRPM,
	}))
	p.Embedder = llm.NewGuardedEmbedder(embedder, llm.NewGuard(llm.GuardConfig{
		Name:    cfg.LLMProvider + "-embed",
		Timeout: cfg.OracleTimeout,
	}))
	return p, nil
}

// Close releases provider connections.
func (p *Providers) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// ValidateEmbeddings embeds a sample text and checks its size against the corpus.
// It returns the provider's dimension.
func ValidateEmbeddings(ctx context.Context, embedder llm.Embedder, snap *corpus.Snapshot) (int, error) {
	vectors, err := embedder.EmbedTexts(ctx, []string{"ทดสอบ"})
	if err != nil {
		return 0, fmt.Errorf("failed to validate embedding provider: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return 0, fmt.Errorf("embedding provider returned no vector")
	}
	dim := len(vectors[0])
	if err := snap.ValidateDimension(dim); err != nil {
		return 0, err
	}
	return dim, nil
}

// NewVectorStore creates the configured vector store.
func NewVectorStore(cfg *config.Config) (vectorstore.VectorStore, error) {
	if cfg.VectorBackend == config.VectorQdrant {
		return vectorstore.NewQdrantStore(cfg.QdrantURL)
	}
	return vectorstore.NewMemoryStore(), nil
}

// NewSessionStore creates the configured session store. The returned function
// releases it; SQLite stores are swept for idle sessions until ctx is done.
func NewSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	switch cfg.SessionBackend {
	case config.SessionSQLite:
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := storage.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		store := session.NewSQLiteStore(storage.NewSessionRepo(db), cfg.SessionTTL)
		go store.RunSweeper(ctx, time.Minute)
		return store, db.Close, nil
	case config.SessionRedis:
		client, err := session.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, redisKeyPrefix, cfg.SessionTTL), client.Close, nil
	default:
		store := session.NewMemoryStore(cfg.SessionTTL)
		go store.RunSweeper(ctx, time.Minute)
		return store, func() error { return nil }, nil
	}
}

// NewAnalyzer builds the query analyzer with a tokenizer that knows the corpus
// vocabulary, the intent keywords and the complaint category labels.
func NewAnalyzer(snap *corpus.Snapshot, detector *rag.CategoryDetector, guide *complaint.Guide) *rag.Analyzer {
	var labelWords []string
	if guide != nil {
		for _, pair := range guide.Pairs() {
			labelWords = append(labelWords, oracle.LabelWords(pair)...)
		}
	}
	tokenizer := textnorm.NewDictionaryTokenizer(
		textnorm.CommonWords,
		rag.Vocabulary(snap, detector),
		oracle.AboutKeywords,
		oracle.ComplaintKeywords,
		labelWords,
	)
	return rag.NewAnalyzer(tokenizer, rag.StopWords())
}
