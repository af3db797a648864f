package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"consumer-assistant/internal/llm"
	"consumer-assistant/internal/rag"
	"consumer-assistant/internal/textnorm"
)

// Intent labels produced by the intent classifiers.
const (
	LabelOrgInfo   = "ORG_INFO"
	LabelLinks     = "LINKS"
	LabelComplaint = "COMPLAINT"
)

const intentPrompt = `You route messages for the Thai consumer-protection council (สภาองค์กรของผู้บริโภค).
Classify the user's message into exactly one label:
ORG_INFO - questions about the council itself: its history, mission, vision, structure, contact details.
COMPLAINT - the user wants to file or continue a complaint about a product, service or business.
LINKS - anything else: the user wants articles, brochures or videos about a consumer topic.
Answer with the label only.`

// IntentClassifier asks an LLM for the message's intent label. The label is
// returned as-is; callers map unknown labels to a default.
type IntentClassifier struct {
	oracle
}

// NewIntentClassifier creates an LLM intent classifier.
func NewIntentClassifier(completer llm.Completer, timeout time.Duration) *IntentClassifier {
	return &IntentClassifier{oracle: newOracle(completer, timeout, 8)}
}

// ClassifyIntent returns the model's label for text.
func (c *IntentClassifier) ClassifyIntent(ctx context.Context, text string) (string, error) {
	out, err := c.ask(ctx, "intent", intentPrompt, text)
	if err != nil {
		return "", err
	}
	label := strings.ToUpper(firstLine(out))
	if label == "" {
		return "", fmt.Errorf("%w: empty intent", ErrMalformedResponse)
	}
	return label, nil
}

// FuzzyThreshold is the minimum similarity for a token to count as a keyword.
const FuzzyThreshold = 0.8

// AboutKeywords mark questions about the organisation.
var AboutKeywords = []string{
	"tcc", "สภาผู้บริโภค", "เกี่ยวกับ", "ประวัติ", "ที่มา", "วิสัยทัศน์",
	"พันธกิจ", "ก่อตั้ง", "องค์กร", "บริษัท", "จดทะเบียน", "ติดต่อ", "เป้าหมาย",
}

// ComplaintKeywords mark a wish to file a complaint.
var ComplaintKeywords = []string{
	"ร้องเรียน", "เรื่องร้องเรียน", "แจ้งปัญหา", "โดนโกง", "complaint", "complain",
}

// KeywordIntentClassifier routes by keyword match on message tokens, exact or
// fuzzy. It needs no LLM.
type KeywordIntentClassifier struct {
	analyzer  *rag.Analyzer
	about     []string
	complaint []string
}

// NewKeywordIntentClassifier creates a keyword classifier. The analyzer's
// tokenizer should know the keywords.
func NewKeywordIntentClassifier(analyzer *rag.Analyzer) *KeywordIntentClassifier {
	return &KeywordIntentClassifier{
		analyzer:  analyzer,
		about:     normalizeAll(AboutKeywords),
		complaint: normalizeAll(ComplaintKeywords),
	}
}

// ClassifyIntent implements the intent classifier contract. Complaint keywords win
// over organisation keywords; no match is LINKS.
func (c *KeywordIntentClassifier) ClassifyIntent(ctx context.Context, text string) (string, error) {
	tokens := c.analyzer.Analyze(text).Tokens
	switch {
	case matchesAny(c.complaint, tokens):
		return LabelComplaint, nil
	case matchesAny(c.about, tokens):
		return LabelOrgInfo, nil
	}
	return LabelLinks, nil
}

func matchesAny(keywords, tokens []string) bool {
	for _, kw := range keywords {
		for _, tok := range tokens {
			if kw == tok || rag.Similarity(kw, tok) >= FuzzyThreshold {
				return true
			}
		}
	}
	return false
}

func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := textnorm.Normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}
