package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// sourceFiles maps each source to the file it is loaded from inside a corpus directory.
var sourceFiles = map[Source]string{
	SourceBrochure: "brochures.json",
	SourceArticle:  "articles.json",
	SourceVideo:    "videos.json",
	SourceAbout:    "about.json",
}

// record is the on-disk shape of a scraped document. Scrapers disagree on the URL
// key, so both are accepted.
type record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Text        string    `json:"text"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Link        string    `json:"link"`
	Source      Source    `json:"source"`
	Hashtags    []string  `json:"hashtags"`
	Embedding   []float32 `json:"embedding"`
}

func (r record) document(fallbackSource Source, index int) Document {
	source := r.Source
	if source == "" {
		source = fallbackSource
	}
	id := r.ID
	if id == "" {
		id = fmt.Sprintf("%s-%d", source, index)
	}
	content := r.Content
	if content == "" {
		content = r.Text
	}
	url := r.URL
	if url == "" {
		url = r.Link
	}
	return Document{
		ID:          id,
		Title:       r.Title,
		Content:     content,
		Description: r.Description,
		URL:         url,
		Source:      source,
		Hashtags:    r.Hashtags,
		Embedding:   r.Embedding,
	}
}

// Load reads a corpus from path. A directory is read as one JSON array per source
// (brochures.json, articles.json, videos.json, about.json), each document pre-tagged
// with the source of its file; a missing source file yields an empty pool. A regular
// file is read as a single JSON array whose records carry their own source, as
// written by WriteFile.
func Load(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	if !info.IsDir() {
		return LoadFile(path)
	}

	var docs []Document
	for _, source := range Sources {
		file := filepath.Join(path, sourceFiles[source])
		records, err := readRecords(file)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("corpus source file missing", "source", source, "path", file)
			continue
		}
		if err != nil {
			return nil, err
		}
		for i, r := range records {
			r.Source = source
			docs = append(docs, r.document(source, i))
		}
		slog.Debug("corpus source loaded", "source", source, "documents", len(records))
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents found in %s", ErrLoadFailure, path)
	}
	return NewSnapshot(docs)
}

// LoadFile reads a single JSON array of documents that carry their own source.
func LoadFile(path string) (*Snapshot, error) {
	records, err := readRecords(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no documents found in %s", ErrLoadFailure, path)
	}

	counters := make(map[Source]int)
	docs := make([]Document, 0, len(records))
	for _, r := range records {
		doc := r.document(r.Source, counters[r.Source])
		counters[r.Source]++
		docs = append(docs, doc)
	}
	return NewSnapshot(docs)
}

// WriteFile writes documents as a single JSON array readable by LoadFile.
func WriteFile(path string, docs []Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	return nil
}

func readRecords(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", ErrLoadFailure, path, err)
	}
	return records, nil
}

// Documents returns a copy of every document in corpus order.
func (s *Snapshot) Documents() []Document {
	out := make([]Document, len(s.docs))
	copy(out, s.docs)
	return out
}
