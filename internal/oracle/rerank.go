package oracle

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/llm"
)

const (
	rerankPrompt = `You rank documents for a Thai consumer's question.
Given the question and numbered documents, reply with the numbers of the relevant documents, most relevant first, separated by commas.
Omit documents that do not help. Reply with numbers only.`

	// rerankSnippet caps the body text shown per document.
	rerankSnippet = 300
)

var numberPattern = regexp.MustCompile(`\d+`)

// Reranker asks an LLM to order candidate documents.
type Reranker struct {
	oracle
}

// NewReranker creates a reranker.
func NewReranker(completer llm.Completer, timeout time.Duration) *Reranker {
	return &Reranker{oracle: newOracle(completer, timeout, 128)}
}

// Rerank returns positions into docs, best first. Out-of-range and repeated
// positions in the model's answer are dropped.
func (r *Reranker) Rerank(ctx context.Context, query string, docs []corpus.Document) ([]int, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nDocuments:\n", query)
	for i, d := range docs {
		fmt.Fprintf(&b, "[%d] %s\n", i, d.Title)
		if body := snippet(d.Body(), rerankSnippet); body != "" {
			fmt.Fprintf(&b, "    %s\n", body)
		}
	}

	out, err := r.ask(ctx, "rerank", rerankPrompt, b.String())
	if err != nil {
		return nil, err
	}
	return parsePositions(out, len(docs))
}

func parsePositions(out string, n int) ([]int, error) {
	seen := make(map[int]bool, n)
	var positions []int
	for _, m := range numberPattern.FindAllString(out, -1) {
		i, err := strconv.Atoi(m)
		if err != nil || i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		positions = append(positions, i)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no document positions in %q", ErrMalformedResponse, out)
	}
	return positions, nil
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
