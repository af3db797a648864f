package rag

import (
	"strings"
	"unicode/utf8"

	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/textnorm"
)

const minSignalLength = 2

// Analyzer turns raw text into a Query. It applies the same normalization and
// tokenization to queries and to document fields.
type Analyzer struct {
	tokenizer textnorm.Tokenizer
	stopWords map[string]struct{}
}

// NewAnalyzer creates an analyzer. stopWords are normalized before use.
func NewAnalyzer(tokenizer textnorm.Tokenizer, stopWords []string) *Analyzer {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		if n := textnorm.Normalize(w); n != "" {
			set[n] = struct{}{}
		}
	}
	return &Analyzer{tokenizer: tokenizer, stopWords: set}
}

// Analyze normalizes and tokenizes raw text and derives its signal words.
func (a *Analyzer) Analyze(raw string) Query {
	normalized := textnorm.Normalize(raw)
	tokens := a.tokenize(normalized)

	signals := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if a.IsSignal(tok) {
			signals = append(signals, tok)
		}
	}

	return Query{
		Raw:        raw,
		Normalized: normalized,
		Tokens:     tokens,
		Signals:    signals,
	}
}

// IsSignal reports whether a token carries topic signal.
func (a *Analyzer) IsSignal(token string) bool {
	token = strings.TrimSpace(token)
	if utf8.RuneCountInString(token) < minSignalLength {
		return false
	}
	_, stop := a.stopWords[token]
	return !stop
}

// Tokens normalizes text and returns its tokens.
func (a *Analyzer) Tokens(text string) []string {
	return a.tokenize(textnorm.Normalize(text))
}

func (a *Analyzer) tokenize(normalized string) []string {
	if normalized == "" {
		return nil
	}
	var out []string
	for _, tok := range a.tokenizer.Tokenize(normalized) {
		if strings.TrimSpace(tok) != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Vocabulary returns the words a dictionary tokenizer needs to segment queries
// against this corpus: stop-words, category triggers, and every whitespace-separated
// word of document titles and hashtags.
func Vocabulary(snap *corpus.Snapshot, detector *CategoryDetector) []string {
	words := StopWords()
	if detector != nil {
		words = append(words, detector.Phrases()...)
	}
	if snap == nil {
		return words
	}
	for i := 0; i < snap.Len(); i++ {
		doc := snap.At(i)
		words = append(words, strings.Fields(textnorm.Normalize(doc.Title))...)
		for _, tag := range doc.Hashtags {
			words = append(words, strings.Fields(normalizeHashtag(tag))...)
		}
	}
	return words
}
