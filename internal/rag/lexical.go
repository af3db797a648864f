package rag

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/textnorm"
)

const (
	// InclusionThreshold is the minimum score for a document to be kept in default
	// mode and to answer an org-info question.
	InclusionThreshold = 3.0

	categoryBonus         = 5.0
	titleExactPoints      = 2.0
	titlePartialPoints    = 1.0
	titleMultiplier       = 2.0
	contentTokenWindow    = 30
	maxContentScore       = 5.0
	fuzzyThreshold        = 0.5
	fuzzyBonus            = 3.0
	hashtagSubstringBonus = 12.0
	hashtagFullBonus      = 10.0
	hashtagPartialBonus   = 5.0
)

// LexicalScorer computes deterministic relevance scores from titles, content and
// hashtags. Document fields are normalized and tokenized once at construction.
type LexicalScorer struct {
	docs []preparedDocument
}

type preparedDocument struct {
	title         string
	titleTokens   []string
	content       string
	contentTokens []string
	hashtags      []preparedHashtag
}

type preparedHashtag struct {
	text   string
	tokens []string
}

// NewLexicalScorer prepares every document of the snapshot.
func NewLexicalScorer(snap *corpus.Snapshot, analyzer *Analyzer) *LexicalScorer {
	docs := make([]preparedDocument, snap.Len())
	for i := range docs {
		doc := snap.At(i)
		p := preparedDocument{
			title:   textnorm.Normalize(doc.Title),
			content: textnorm.Normalize(doc.Body()),
		}
		p.titleTokens = analyzer.tokenize(p.title)
		p.contentTokens = analyzer.tokenize(p.content)
		if len(p.contentTokens) > contentTokenWindow {
			p.contentTokens = p.contentTokens[:contentTokenWindow]
		}
		for _, tag := range doc.Hashtags {
			text := normalizeHashtag(tag)
			if text == "" {
				continue
			}
			p.hashtags = append(p.hashtags, preparedHashtag{text: text, tokens: analyzer.tokenize(text)})
		}
		docs[i] = p
	}
	return &LexicalScorer{docs: docs}
}

// Score scores every document of pool against the query. category is the detected
// section label, or "". The result is unsorted and keeps pool order.
func (s *LexicalScorer) Score(q Query, category string, pool []int, mode Mode) []ScoredDocument {
	var out []ScoredDocument
	for _, idx := range pool {
		if idx < 0 || idx >= len(s.docs) {
			continue
		}
		score, admitted := s.scoreDocument(q, category, &s.docs[idx], mode)
		if !admitted {
			continue
		}
		if score >= InclusionThreshold || mode == ModeFallback {
			out = append(out, ScoredDocument{Score: score, Index: idx})
		}
	}
	return out
}

func (s *LexicalScorer) scoreDocument(q Query, category string, doc *preparedDocument, mode Mode) (float64, bool) {
	categoryMatch := category != "" && doc.title == category

	if mode == ModeDefault && !categoryMatch && !anyEqual(q.Signals, doc.titleTokens) {
		return 0, false
	}

	var score float64
	if categoryMatch {
		score += categoryBonus
	}

	var title float64
	for _, word := range q.Signals {
		for _, tok := range doc.titleTokens {
			switch {
			case word == tok:
				title += titleExactPoints
			case overlaps(word, tok):
				title += titlePartialPoints
			}
		}
	}
	score += titleMultiplier * title

	var content float64
	for _, word := range q.Signals {
		for _, tok := range doc.contentTokens {
			if overlaps(word, tok) {
				content++
			}
		}
	}
	score += min(content, maxContentScore)

	if mode == ModeFallback && doc.content != "" {
		if Similarity(q.Normalized, doc.content) >= fuzzyThreshold {
			score += fuzzyBonus
		}
	}

	for _, tag := range doc.hashtags {
		score += hashtagScore(q, tag)
	}

	return score, true
}

func hashtagScore(q Query, tag preparedHashtag) float64 {
	if strings.Contains(q.Normalized, tag.text) {
		return hashtagSubstringBonus
	}
	if len(tag.tokens) == 0 {
		return 0
	}
	// Hashtag tokens are matched against every query token, stop-words included.
	matched := 0
	for _, tok := range tag.tokens {
		for _, word := range q.Tokens {
			if overlaps(word, tok) {
				matched++
				break
			}
		}
	}
	switch {
	case matched == len(tag.tokens):
		return hashtagFullBonus
	case matched > 0:
		return hashtagPartialBonus
	}
	return 0
}

// Similarity returns the Ratcliff/Obershelp similarity ratio of two strings,
// compared character by character.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(splitChars(a), splitChars(b))
	return m.Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// overlaps reports equality or substring containment in either direction.
func overlaps(a, b string) bool {
	return strings.Contains(b, a) || strings.Contains(a, b)
}

func anyEqual(words, tokens []string) bool {
	for _, w := range words {
		for _, t := range tokens {
			if w == t {
				return true
			}
		}
	}
	return false
}

func normalizeHashtag(tag string) string {
	return strings.TrimSpace(strings.TrimLeft(textnorm.Normalize(tag), "#"))
}
