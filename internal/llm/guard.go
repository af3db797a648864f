package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("llm provider unavailable")

// GuardConfig configures a Guard.
type GuardConfig struct {
	// Name labels the breaker in logs.
	Name string
	// Timeout bounds every call. Zero disables the bound.
	Timeout time.Duration
	// RequestsPerMinute is the sustained call rate. Zero disables limiting.
	RequestsPerMinute int
}

// Guard bounds provider calls with a timeout, a token-bucket limiter and a circuit
// breaker.
type Guard struct {
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGuard creates a guard.
func NewGuard(cfg GuardConfig) *Guard {
	name := cfg.Name
	if name == "" {
		name = "llm"
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		burst := max(1, cfg.RequestsPerMinute/10)
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), burst)
	}

	return &Guard{breaker: breaker, limiter: limiter, timeout: cfg.Timeout}
}

// Do runs fn under the guard. Waiting for the limiter counts against the timeout.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// GuardedCompleter is a Completer whose calls run under a Guard.
type GuardedCompleter struct {
	next  Completer
	guard *Guard
}

// NewGuardedCompleter wraps next.
func NewGuardedCompleter(next Completer, guard *Guard) *GuardedCompleter {
	return &GuardedCompleter{next: next, guard: guard}
}

// Complete implements Completer.
func (c *GuardedCompleter) Complete(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	var out string
	err := c.guard.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = c.next.Complete(ctx, messages, params)
		return err
	})
	return out, err
}

// Embedder produces embeddings for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// GuardedEmbedder is an Embedder whose calls run under a Guard.
type GuardedEmbedder struct {
	next  Embedder
	guard *Guard
}

// NewGuardedEmbedder wraps next.
func NewGuardedEmbedder(next Embedder, guard *Guard) *GuardedEmbedder {
	return &GuardedEmbedder{next: next, guard: guard}
}

// EmbedTexts implements Embedder.
func (e *GuardedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := e.guard.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = e.next.EmbedTexts(ctx, texts)
		return err
	})
	return out, err
}
