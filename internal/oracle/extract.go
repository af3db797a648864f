package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"consumer-assistant/internal/complaint"
	"consumer-assistant/internal/llm"
)

const extractPrompt = `You extract complaint form fields from a Thai consumer's message.
Fields:
%s
Reply with a single JSON object whose keys are field names and whose values are the text the user gave for that field.
Include only fields the message clearly answers. Reply {} if it answers none.`

// FieldExtractor asks an LLM for field values as a JSON object.
type FieldExtractor struct {
	oracle
}

// NewFieldExtractor creates a field extractor.
func NewFieldExtractor(completer llm.Completer, timeout time.Duration) *FieldExtractor {
	return &FieldExtractor{oracle: newOracle(completer, timeout, 512)}
}

// Extract returns values keyed by field name. Keys outside fields are dropped.
func (e *FieldExtractor) Extract(ctx context.Context, text string, fields []complaint.Field) (map[string]string, error) {
	if len(fields) == 0 {
		return map[string]string{}, nil
	}

	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, f.Label)
	}
	out, err := e.ask(ctx, "extract", fmt.Sprintf(extractPrompt, b.String()), text)
	if err != nil {
		return nil, err
	}
	return parseFields(out, fields)
}

// parseFields decodes the first JSON object in out. Code fences and surrounding
// prose are tolerated.
func parseFields(out string, fields []complaint.Field) (map[string]string, error) {
	start, end := strings.Index(out, "{"), strings.LastIndex(out, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object", ErrMalformedResponse)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(out[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	values := make(map[string]string, len(raw))
	for _, f := range fields {
		v, ok := raw[f.Name]
		if !ok {
			continue
		}
		if s := stringify(v); s != "" {
			values[f.Name] = s
		}
	}
	return values, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
