package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadFailure is returned when the corpus cannot be read or decoded.
	// It is fatal at startup.
	ErrLoadFailure = errors.New("corpus load failure")
	// ErrDimensionMismatch is returned when embeddings disagree on dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// DimensionMismatchError describes an embedding of unexpected size.
type DimensionMismatchError struct {
	DocumentID string
	Expected   int
	Got        int
}

func (e *DimensionMismatchError) Error() string {
	if e.DocumentID == "" {
		return fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.Expected, e.Got)
	}
	return fmt.Sprintf("embedding dimension mismatch for document %s: expected %d, got %d", e.DocumentID, e.Expected, e.Got)
}

// Is lets errors.Is match ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
