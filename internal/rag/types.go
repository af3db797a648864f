package rag

import (
	"consumer-assistant/internal/corpus"
)

// Mode selects how the lexical scorer admits documents.
type Mode int

const (
	// ModeDefault applies the title gate and the inclusion threshold.
	ModeDefault Mode = iota
	// ModeFallback skips the title gate, adds fuzzy content similarity and keeps
	// every scored document. Used for small high-recall pools such as "about".
	ModeFallback
)

func (m Mode) String() string {
	if m == ModeFallback {
		return "fallback"
	}
	return "default"
}

// Query is a user message prepared for matching.
type Query struct {
	// Raw is the message as received.
	Raw string
	// Normalized is textnorm.Normalize(Raw).
	Normalized string
	// Tokens is the tokenizer output over Normalized.
	Tokens []string
	// Signals are the tokens used for lexical matching: not a stop-word and at
	// least two characters long.
	Signals []string
}

// ScoredDocument pairs a relevance score with a corpus index.
type ScoredDocument struct {
	Score float64
	Index int
}

// OrgAnswer is the result of an organizational-info lookup.
type OrgAnswer struct {
	// Found is false when no candidate cleared the inclusion threshold.
	Found      bool
	DocumentID string
	Title      string
	// Content is the document body cut to the configured character limit.
	Content   string
	Truncated bool
	Score     float64
	Category  string
}

// Link is a single recommended document.
type Link struct {
	DocumentID string
	Title      string
	URL        string
	Source     corpus.Source
	Score      float64
}

// LinkSet is the ordered result of a link recommendation.
type LinkSet struct {
	Links []Link
	// Semantic reports whether candidates came from the semantic retriever rather
	// than the lexical fallback.
	Semantic bool
	// Reranked reports whether the external rerank step succeeded.
	Reranked bool
}
