package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/textnorm"
	"consumer-assistant/internal/vectorstore"
)

const testCollection = "corpus"

func newTestSnapshot(t *testing.T, docs ...corpus.Document) *corpus.Snapshot {
	t.Helper()
	snap, err := corpus.NewSnapshot(docs)
	require.NoError(t, err)
	return snap
}

func newTestAnalyzer(snap *corpus.Snapshot) *Analyzer {
	detector := NewCategoryDetector(DefaultTriggers)
	tok := textnorm.NewDictionaryTokenizer(textnorm.CommonWords, Vocabulary(snap, detector))
	return NewAnalyzer(tok, StopWords())
}

func indexSnapshot(t *testing.T, snap *corpus.Snapshot) *vectorstore.MemoryStore {
	t.Helper()
	store := vectorstore.NewMemoryStore()
	var points []vectorstore.Point
	for _, i := range snap.Embedded() {
		doc := snap.At(i)
		points = append(points, vectorstore.Point{
			ID:  vectorstore.PointID(doc.ID),
			Vec: doc.Embedding,
			Meta: map[string]any{
				vectorstore.MetaDocumentID: doc.ID,
				vectorstore.MetaSource:     string(doc.Source),
			},
		})
	}
	require.NoError(t, store.Upsert(context.Background(), testCollection, points))
	return store
}

type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

type fakeReranker struct {
	order []int
	err   error
	calls int
	got   []corpus.Document
}

func (f *fakeReranker) Rerank(ctx context.Context, query string, docs []corpus.Document) ([]int, error) {
	f.calls++
	f.got = docs
	return f.order, f.err
}
