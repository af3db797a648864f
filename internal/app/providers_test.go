package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consumer-assistant/internal/complaint"
	"consumer-assistant/internal/config"
	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/llm"
	"consumer-assistant/internal/rag"
	"consumer-assistant/internal/session"
	"consumer-assistant/internal/vectorstore"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		debug   bool
		warnOff bool
	}{
		{level: "debug", debug: true},
		{level: "info"},
		{level: "error", warnOff: true},
		{level: "nonsense"},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: "json"})
			ctx := context.Background()
			assert.Equal(t, tt.debug, logger.Enabled(ctx, -4))
			assert.Equal(t, !tt.warnOff, logger.Enabled(ctx, 4))
		})
	}
}

func TestNewProviders(t *testing.T) {
	ctx := context.Background()

	p, err := NewProviders(ctx, &config.Config{LLMProvider: config.ProviderNone}, 0)
	require.NoError(t, err)
	assert.Nil(t, p.Completer)
	assert.Nil(t, p.Embedder)
	assert.NoError(t, p.Close())

	p, err = NewProviders(ctx, &config.Config{
		LLMProvider:      config.ProviderOpenAI,
		LLMBaseURL:       "http://localhost:8080",
		EmbeddingBaseURL: "http://localhost:8081",
		OracleTimeout:    time.Second,
		OracleRPM:        60,
	}, 768)
	require.NoError(t, err)
	assert.IsType(t, &llm.GuardedCompleter{}, p.Completer)
	assert.IsType(t, &llm.GuardedEmbedder{}, p.Embedder)

	_, err = NewProviders(ctx, &config.Config{LLMProvider: config.ProviderGemini}, 0)
	assert.Error(t, err, "gemini needs an api key")
}

type fixedEmbedder struct {
	vec []float32
	err error
}

func (e fixedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return [][]float32{e.vec}, nil
}

func TestValidateEmbeddings(t *testing.T) {
	snap, err := corpus.NewSnapshot([]corpus.Document{
		{ID: "about-0", Title: "ก", Source: corpus.SourceAbout, Embedding: []float32{1, 0, 0}},
	})
	require.NoError(t, err)
	ctx := context.Background()

	dim, err := ValidateEmbeddings(ctx, fixedEmbedder{vec: []float32{0, 1, 0}}, snap)
	require.NoError(t, err)
	assert.Equal(t, 3, dim)

	_, err = ValidateEmbeddings(ctx, fixedEmbedder{vec: []float32{0, 1}}, snap)
	assert.ErrorIs(t, err, corpus.ErrDimensionMismatch)

	_, err = ValidateEmbeddings(ctx, fixedEmbedder{err: errors.New("connection refused")}, snap)
	require.Error(t, err)
	assert.NotErrorIs(t, err, corpus.ErrDimensionMismatch)

	_, err = ValidateEmbeddings(ctx, fixedEmbedder{}, snap)
	assert.Error(t, err)
}

func TestNewVectorStore(t *testing.T) {
	store, err := NewVectorStore(&config.Config{VectorBackend: config.VectorMemory})
	require.NoError(t, err)
	assert.IsType(t, &vectorstore.MemoryStore{}, store)

	_, err = NewVectorStore(&config.Config{VectorBackend: config.VectorQdrant, QdrantURL: "://invalid"})
	assert.Error(t, err)
}

func TestNewSessionStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeFn, err := NewSessionStore(ctx, &config.Config{SessionBackend: config.SessionMemory})
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryStore{}, store)
	assert.NoError(t, closeFn())

	store, closeFn, err = NewSessionStore(ctx, &config.Config{
		SessionBackend: config.SessionSQLite,
		DBPath:         t.TempDir() + "/sessions.db",
		SessionTTL:     time.Hour,
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "s1", "form", []byte("{}")))
	got, err := store.Get(ctx, "s1", "form")
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), got)
	cancel()
	assert.NoError(t, closeFn())
}

func TestNewAnalyzer_KnowsLabelWordsAndKeywords(t *testing.T) {
	guide, err := complaint.DefaultGuide()
	require.NoError(t, err)
	snap, err := corpus.NewSnapshot([]corpus.Document{
		{ID: "about-0", Title: "ประวัติสภาผู้บริโภค", Source: corpus.SourceAbout},
	})
	require.NoError(t, err)

	analyzer := NewAnalyzer(snap, rag.NewCategoryDetector(rag.DefaultTriggers), guide)

	assert.Contains(t, analyzer.Analyze("ได้สินค้าไม่ตรงปก").Tokens, "ไม่ตรงปก")
	assert.Contains(t, analyzer.Analyze("อยากร้องเรียนร้าน").Tokens, "ร้องเรียน")
}
