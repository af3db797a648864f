package indexer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"

	"consumer-assistant/internal/contextutil"
	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/vectorstore"
)

const (
	// DefaultBatchSize is how many documents go into one embedding or upsert call.
	DefaultBatchSize = 32
	// MaxEmbedRunes caps the text sent to the embedder per document.
	MaxEmbedRunes = 2000
)

// Pipeline embeds corpus documents and syncs them into a vector store. Batches run
// concurrently on a worker pool.
type Pipeline struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
	pool       *ants.Pool
	batchSize  int
	force      bool
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of concurrent batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the batch size.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be at least 1, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithForce re-embeds documents that already carry an embedding.
func WithForce(force bool) Option {
	return func(p *Pipeline) error {
		p.force = force
		return nil
	}
}

// NewPipeline creates a pipeline. embedder is needed for Embed and store for
// Index; either may be nil when only the other is used.
func NewPipeline(embedder Embedder, store vectorstore.VectorStore, collection string, opts ...Option) (*Pipeline, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		embedder:   embedder,
		store:      store,
		collection: collection,
		pool:       pool,
		batchSize:  DefaultBatchSize,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}
	return p, nil
}

// Release stops the worker pool.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// EmbedText is the text embedded for a document: title and body, capped at
// MaxEmbedRunes.
func EmbedText(doc corpus.Document) string {
	text := strings.TrimSpace(doc.Title + "\n" + doc.Body())
	if utf8.RuneCountInString(text) > MaxEmbedRunes {
		text = string([]rune(text)[:MaxEmbedRunes])
	}
	return text
}

// Embed returns a copy of docs with embeddings filled in for documents that lack
// one. Documents in failed batches keep their previous embedding and are counted
// in Stats.Failed; the joined batch errors are returned alongside the result.
func (p *Pipeline) Embed(ctx context.Context, docs []corpus.Document) ([]corpus.Document, Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	if p.embedder == nil {
		return nil, Stats{}, fmt.Errorf("no embedder configured")
	}

	out := make([]corpus.Document, len(docs))
	copy(out, docs)
	stats := Stats{Documents: len(docs)}

	var pending []int
	for i, doc := range out {
		if len(doc.Embedding) > 0 && !p.force {
			if stats.Dimension == 0 {
				stats.Dimension = len(doc.Embedding)
			}
			stats.Skipped++
			continue
		}
		if EmbedText(doc) == "" {
			logger.WarnContext(ctx, "document has no text to embed", "doc_id", doc.ID)
			stats.Skipped++
			continue
		}
		pending = append(pending, i)
	}

	logger.InfoContext(ctx, "embedding documents", "pending", len(pending), "skipped", stats.Skipped)

	var mu sync.Mutex
	var errs []error
	err := p.run(ctx, len(pending), func(lo, hi int) {
		batch := pending[lo:hi]
		texts := make([]string, len(batch))
		for j, idx := range batch {
			texts[j] = EmbedText(out[idx])
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err == nil && len(vectors) != len(batch) {
			err = fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
		}

		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			err = checkDimensions(out, batch, vectors, &stats.Dimension)
		}
		if err != nil {
			logger.ErrorContext(ctx, "embedding batch failed", "from", out[batch[0]].ID, "size", len(batch), "error", err)
			stats.Failed += len(batch)
			errs = append(errs, err)
			return
		}
		for j, idx := range batch {
			out[idx].Embedding = vectors[j]
		}
		stats.Embedded += len(batch)
	})
	if err != nil {
		return nil, stats, err
	}

	logger.InfoContext(ctx, "embedding completed", "embedded", stats.Embedded, "failed", stats.Failed, "dimension", stats.Dimension)
	return out, stats, errors.Join(errs...)
}

// checkDimensions requires every vector to match the corpus dimension, fixing it
// from the first vector when unset. Callers hold the stats lock.
func checkDimensions(docs []corpus.Document, batch []int, vectors [][]float32, dim *int) error {
	for j, v := range vectors {
		if *dim == 0 {
			*dim = len(v)
		}
		if len(v) != *dim {
			return &corpus.DimensionMismatchError{DocumentID: docs[batch[j]].ID, Expected: *dim, Got: len(v)}
		}
	}
	return nil
}

// Index upserts every embedded document of the snapshot as a point keyed by
// vectorstore.PointID. Documents without an embedding are skipped.
func (p *Pipeline) Index(ctx context.Context, snap *corpus.Snapshot) (Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	if p.store == nil {
		return Stats{}, fmt.Errorf("no vector store configured")
	}

	embedded := snap.Embedded()
	stats := Stats{
		Documents: snap.Len(),
		Skipped:   snap.Len() - len(embedded),
		Dimension: snap.Dimension(),
	}
	if len(embedded) == 0 {
		logger.WarnContext(ctx, "no embedded documents to index")
		return stats, nil
	}

	if ensurer, ok := p.store.(CollectionEnsurer); ok {
		if err := ensurer.EnsureCollection(ctx, p.collection, stats.Dimension); err != nil {
			return stats, fmt.Errorf("failed to ensure collection: %w", err)
		}
	}

	logger.InfoContext(ctx, "starting indexing", "collection", p.collection, "documents", len(embedded))

	var mu sync.Mutex
	var errs []error
	err := p.run(ctx, len(embedded), func(lo, hi int) {
		points := make([]vectorstore.Point, 0, hi-lo)
		for _, idx := range embedded[lo:hi] {
			points = append(points, Point(snap.At(idx), idx))
		}

		err := p.store.Upsert(ctx, p.collection, points)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			logger.ErrorContext(ctx, "upsert batch failed", "size", len(points), "error", err)
			stats.Failed += len(points)
			errs = append(errs, err)
			return
		}
		stats.Upserted += len(points)
	})
	if err != nil {
		return stats, err
	}

	logger.InfoContext(ctx, "indexing completed", "upserted", stats.Upserted, "failed", stats.Failed)
	if len(errs) > 0 {
		return stats, fmt.Errorf("indexing completed with %d failed batches: %w", len(errs), errors.Join(errs...))
	}
	return stats, nil
}

// Point converts an embedded document at corpus position order to a vector point.
func Point(doc corpus.Document, order int) vectorstore.Point {
	return vectorstore.Point{
		ID:  vectorstore.PointID(doc.ID),
		Vec: doc.Embedding,
		Meta: map[string]any{
			vectorstore.MetaDocumentID: doc.ID,
			vectorstore.MetaSource:     string(doc.Source),
			vectorstore.MetaTitle:      doc.Title,
			vectorstore.MetaOrder:      order,
		},
	}
}

// run splits n items into batches and runs fn for each on the pool, waiting for
// all submitted batches. It stops submitting when ctx is done.
func (p *Pipeline) run(ctx context.Context, n int, fn func(lo, hi int)) error {
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += p.batchSize {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		hi := min(lo+p.batchSize, n)
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			fn(lo, hi)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("failed to submit batch: %w", err)
		}
	}
	wg.Wait()
	return ctx.Err()
}
