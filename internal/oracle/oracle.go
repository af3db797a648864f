// Package oracle implements the LLM-backed classification, extraction and rerank
// oracles. Oracle output is untrusted: callers validate every label.
package oracle

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"consumer-assistant/internal/contextutil"
	"consumer-assistant/internal/llm"
)

// DefaultTimeout bounds a single oracle call.
const DefaultTimeout = 15 * time.Second

// ErrMalformedResponse is returned when oracle output cannot be interpreted.
var ErrMalformedResponse = errors.New("malformed oracle response")

var tracer = otel.Tracer("consumer-assistant/oracle")

// oracle is the shared call path: one system prompt, one user message, bounded
// by a timeout.
type oracle struct {
	completer llm.Completer
	timeout   time.Duration
	maxTokens int
}

func newOracle(completer llm.Completer, timeout time.Duration, maxTokens int) oracle {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return oracle{completer: completer, timeout: timeout, maxTokens: maxTokens}
}

func (o oracle) ask(ctx context.Context, name, system, user string) (string, error) {
	ctx, span := tracer.Start(ctx, "oracle."+name)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	out, err := o.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}, llm.ChatParams{MaxTokens: o.maxTokens})

	logger := contextutil.LoggerFromContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "oracle call failed", "oracle", name, "duration", time.Since(start), "error", err)
		return "", err
	}

	out = strings.TrimSpace(out)
	span.SetAttributes(attribute.Int("oracle.response_length", len(out)))
	logger.DebugContext(ctx, "oracle call", "oracle", name, "duration", time.Since(start), "response", out)
	return out, nil
}

// firstLine returns the first non-empty line with surrounding quotes, backticks
// and list markers removed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`\"'*-• ")
		if line != "" {
			return line
		}
	}
	return ""
}
