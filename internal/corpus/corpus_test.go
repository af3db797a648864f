package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "brochures.json", `[{"title":"ประกันรถยนต์","link":"https://example.org/b1","hashtags":["ประกัน"]}]`)
	writeJSON(t, dir, "articles.json", `[{"title":"ซื้อของออนไลน์","url":"https://example.org/a1","content":"ระวังสินค้าไม่ตรงปก"}]`)
	writeJSON(t, dir, "about.json", `[{"title":"contact","content":"โทร 1502"}]`)

	snap, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, 0, snap.Count(SourceVideo))

	b := snap.At(0)
	assert.Equal(t, "brochure-0", b.ID)
	assert.Equal(t, SourceBrochure, b.Source)
	assert.Equal(t, "https://example.org/b1", b.URL)

	about := snap.At(2)
	assert.Equal(t, SourceAbout, about.Source)
	assert.Equal(t, "โทร 1502", about.Body())

	assert.Equal(t, []int{0, 1}, snap.Pool(SourceBrochure, SourceArticle))
	assert.Equal(t, []int{2}, snap.Pool(SourceAbout))
}

func TestLoad_SourceFromFileOverridesRecord(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "videos.json", `[{"title":"v","description":"desc","source":"article"}]`)

	snap, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, SourceVideo, snap.At(0).Source)
	assert.Equal(t, "desc", snap.At(0).Body())
}

func TestLoad_Failures(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrLoadFailure)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.ErrorIs(t, err, ErrLoadFailure)
	})

	t.Run("malformed json", func(t *testing.T) {
		dir := t.TempDir()
		writeJSON(t, dir, "about.json", `[{"title":`)
		_, err := Load(dir)
		assert.ErrorIs(t, err, ErrLoadFailure)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		dir := t.TempDir()
		writeJSON(t, dir, "about.json", `[{"title":"a","embedding":[1,0]},{"title":"b","embedding":[1,0,0]}]`)
		_, err := Load(dir)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestWriteFileRoundTripThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "embedded_docs.json")
	docs := []Document{
		{ID: "x", Title: "overview", Content: "c", Source: SourceAbout, Embedding: []float32{1, 0}},
		{ID: "y", Title: "b", Source: SourceBrochure, Embedding: []float32{0, 1}},
	}
	require.NoError(t, WriteFile(path, docs))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, 2, snap.Dimension())
	assert.Equal(t, []int{0, 1}, snap.Embedded())

	i, ok := snap.Lookup("y")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestNewSnapshot_Validation(t *testing.T) {
	_, err := NewSnapshot([]Document{{ID: "a", Source: SourceAbout}, {ID: "a", Source: SourceAbout}})
	assert.ErrorIs(t, err, ErrLoadFailure)

	_, err = NewSnapshot([]Document{{ID: "a", Source: "podcast"}})
	assert.ErrorIs(t, err, ErrLoadFailure)
}

func TestSnapshot_ValidateDimension(t *testing.T) {
	snap, err := NewSnapshot([]Document{{ID: "a", Source: SourceAbout, Embedding: []float32{1, 2, 3}}})
	require.NoError(t, err)

	assert.NoError(t, snap.ValidateDimension(3))

	err = snap.ValidateDimension(4)
	var mismatch *DimensionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 4, mismatch.Expected)
	assert.Equal(t, 3, mismatch.Got)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
