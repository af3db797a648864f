package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks consumer-assistant/internal/rag Embedder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"consumer-assistant/internal/contextutil"
	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/vectorstore"
)

// ErrNoEmbedding is returned when the embedding provider returns no vector.
var ErrNoEmbedding = errors.New("no embedding returned for query")

// Embedder turns texts into fixed-dimension vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SemanticRetriever performs top-K nearest-neighbour search over corpus embeddings
// held in a vector store.
type SemanticRetriever struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
	snapshot   *corpus.Snapshot
}

// NewSemanticRetriever creates a retriever. Points in the collection must carry the
// corpus document ID in their payload.
func NewSemanticRetriever(embedder Embedder, store vectorstore.VectorStore, collection string, snap *corpus.Snapshot) *SemanticRetriever {
	return &SemanticRetriever{
		embedder:   embedder,
		store:      store,
		collection: collection,
		snapshot:   snap,
	}
}

// Retrieve embeds text and returns the k most similar documents from the given
// sources, ordered by descending similarity.
func (r *SemanticRetriever) Retrieve(ctx context.Context, text string, k int, sources ...corpus.Source) ([]ScoredDocument, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	vectors, err := r.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, ErrNoEmbedding
	}
	if dim := r.snapshot.Dimension(); dim != 0 && len(vectors[0]) != dim {
		return nil, &corpus.DimensionMismatchError{Expected: dim, Got: len(vectors[0])}
	}

	return r.Search(ctx, vectors[0], k, sources...)
}

// Search returns the k documents nearest to vector.
func (r *SemanticRetriever) Search(ctx context.Context, vector []float32, k int, sources ...corpus.Source) ([]ScoredDocument, error) {
	var filters map[string]any
	if len(sources) > 0 {
		names := make([]string, len(sources))
		for i, src := range sources {
			names[i] = string(src)
		}
		filters = map[string]any{vectorstore.FilterSources: names}
	}

	results, err := r.store.Search(ctx, r.collection, vector, k, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	logger := contextutil.LoggerFromContext(ctx)
	out := make([]ScoredDocument, 0, len(results))
	for _, res := range results {
		idx, ok := r.snapshot.Lookup(res.DocumentID())
		if !ok {
			logger.WarnContext(ctx, "vector store returned unknown document", "point_id", res.PointID, "doc_id", res.DocumentID())
			continue
		}
		out = append(out, ScoredDocument{Score: float64(res.Score), Index: idx})
	}
	return out, nil
}
