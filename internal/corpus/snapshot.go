package corpus

import "fmt"

// Snapshot is an immutable, ordered view of the corpus. It is built once at startup
// and shared read-only by every request; no locking is required.
type Snapshot struct {
	docs      []Document
	byID      map[string]int
	bySource  map[Source][]int
	dimension int
}

// NewSnapshot builds a snapshot from documents in corpus order. Document IDs must be
// unique and every embedding present must have the same dimension.
func NewSnapshot(docs []Document) (*Snapshot, error) {
	s := &Snapshot{
		docs:     make([]Document, len(docs)),
		byID:     make(map[string]int, len(docs)),
		bySource: make(map[Source][]int),
	}
	copy(s.docs, docs)

	for i, doc := range s.docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("%w: document %d has no id", ErrLoadFailure, i)
		}
		if _, dup := s.byID[doc.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate document id %q", ErrLoadFailure, doc.ID)
		}
		if !doc.Source.Valid() {
			return nil, fmt.Errorf("%w: document %q has unknown source %q", ErrLoadFailure, doc.ID, doc.Source)
		}
		if n := len(doc.Embedding); n > 0 {
			if s.dimension == 0 {
				s.dimension = n
			} else if n != s.dimension {
				return nil, &DimensionMismatchError{DocumentID: doc.ID, Expected: s.dimension, Got: n}
			}
		}
		s.byID[doc.ID] = i
		s.bySource[doc.Source] = append(s.bySource[doc.Source], i)
	}

	return s, nil
}

// Len returns the number of documents.
func (s *Snapshot) Len() int {
	return len(s.docs)
}

// At returns the document at corpus index i. The returned value must be treated as
// read-only; its slices are shared with the snapshot.
func (s *Snapshot) At(i int) Document {
	return s.docs[i]
}

// Lookup returns the corpus index for a document ID.
func (s *Snapshot) Lookup(id string) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// Pool returns the corpus indices of every document from the given sources, in
// corpus order.
func (s *Snapshot) Pool(sources ...Source) []int {
	want := make(map[Source]bool, len(sources))
	for _, src := range sources {
		want[src] = true
	}
	var pool []int
	for i, doc := range s.docs {
		if want[doc.Source] {
			pool = append(pool, i)
		}
	}
	return pool
}

// Count returns the number of documents loaded from a source.
func (s *Snapshot) Count(source Source) int {
	return len(s.bySource[source])
}

// Dimension returns the embedding dimension shared by the corpus, or 0 when no
// document carries an embedding.
func (s *Snapshot) Dimension() int {
	return s.dimension
}

// Embedded returns the corpus indices of documents that carry an embedding.
func (s *Snapshot) Embedded() []int {
	var out []int
	for i, doc := range s.docs {
		if len(doc.Embedding) > 0 {
			out = append(out, i)
		}
	}
	return out
}

// ValidateDimension checks that the corpus embeddings match the dimension produced
// by the query-time embedding provider.
func (s *Snapshot) ValidateDimension(expected int) error {
	if s.dimension == 0 || s.dimension == expected {
		return nil
	}
	return &DimensionMismatchError{Expected: expected, Got: s.dimension}
}
