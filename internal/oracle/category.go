package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"consumer-assistant/internal/llm"
	"consumer-assistant/internal/rag"
)

const categoryPrompt = `You classify Thai consumer complaints.
Pick the single best label for the user's complaint from this list and answer with the label exactly as written, nothing else:
%s`

// CategoryClassifier asks an LLM to pick one "category > subtype" label.
type CategoryClassifier struct {
	oracle
}

// NewCategoryClassifier creates a category classifier.
func NewCategoryClassifier(completer llm.Completer, timeout time.Duration) *CategoryClassifier {
	return &CategoryClassifier{oracle: newOracle(completer, timeout, 64)}
}

// Classify returns the model's label. It is not checked against labels here.
func (c *CategoryClassifier) Classify(ctx context.Context, text string, labels []string) (string, error) {
	system := fmt.Sprintf(categoryPrompt, "- "+strings.Join(labels, "\n- "))
	out, err := c.ask(ctx, "category", system, text)
	if err != nil {
		return "", err
	}
	label := firstLine(out)
	if label == "" {
		return "", fmt.Errorf("%w: empty category", ErrMalformedResponse)
	}
	return label, nil
}

// ErrNoCategory is returned by KeywordCategoryClassifier when no label shares a
// word with the message.
var ErrNoCategory = errors.New("no category matched")

// KeywordCategoryClassifier picks the label sharing the most words with the
// message, exact or fuzzy. Ties keep the earlier label. It needs no LLM.
type KeywordCategoryClassifier struct {
	analyzer *rag.Analyzer
}

// NewKeywordCategoryClassifier creates a keyword category classifier. The
// analyzer's tokenizer should know the label words (see LabelWords).
func NewKeywordCategoryClassifier(analyzer *rag.Analyzer) *KeywordCategoryClassifier {
	return &KeywordCategoryClassifier{analyzer: analyzer}
}

// Classify implements complaint.CategoryClassifier.
func (c *KeywordCategoryClassifier) Classify(ctx context.Context, text string, labels []string) (string, error) {
	tokens := c.analyzer.Analyze(text).Signals
	best, bestScore := "", 0
	for _, label := range labels {
		score := 0
		for _, word := range normalizeAll(LabelWords(label)) {
			if matchesAny([]string{word}, tokens) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = label, score
		}
	}
	if best == "" {
		return "", ErrNoCategory
	}
	return best, nil
}

// LabelWords splits a "category > subtype" label into its words.
func LabelWords(label string) []string {
	return strings.Fields(strings.ReplaceAll(label, ">", " "))
}
