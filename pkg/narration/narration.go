// Package narration defines how action handlers ask an external service to
// turn a short keyword into flavor text, and what happens when it fails.
package narration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// ErrUnavailable is returned once every attempt to reach the service fails.
var ErrUnavailable = errors.New("narration service unavailable")

// Request asks for a sentence built from a keyword. Fallback is the static
// text used when expansion fails.
type Request struct {
	Keyword  string            `json:"keyword"`
	Context  map[string]string `json:"context,omitempty"`
	Fallback string            `json:"fallback"`
}

// Expander turns a Request into text.
type Expander interface {
	Expand(ctx context.Context, req Request) (string, error)
}

// Static always answers with the fallback text.
type Static struct{}

func (Static) Expand(_ context.Context, req Request) (string, error) {
	return req.Fallback, nil
}

// RetryPolicy bounds retries of calls to an external service.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry is three attempts one second apart.
var DefaultRetry = RetryPolicy{Attempts: 3, Delay: time.Second}

// Do calls fn until it succeeds, the attempts run out, or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, op string, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := max(p.Attempts, 1)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		logger.Warn("Call failed, will retry", "op", op, "error", err, "attempt", attempt)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(p.Delay):
		}
	}
	logger.Error("Call failed after retries", "op", op, "error", err, "attempts", attempts)
	return fmt.Errorf("%s after %d attempts: %w: %w", op, attempts, ErrUnavailable, err)
}

// Retrying wraps an Expander with a RetryPolicy.
type Retrying struct {
	next   Expander
	policy RetryPolicy
	logger *slog.Logger
}

// NewRetrying wraps next with DefaultRetry.
func NewRetrying(next Expander, logger *slog.Logger) *Retrying {
	return &Retrying{next: next, policy: DefaultRetry, logger: logger}
}

// WithPolicy returns a copy using a different policy.
func (r *Retrying) WithPolicy(p RetryPolicy) *Retrying {
	c := *r
	c.policy = p
	return &c
}

func (r *Retrying) Expand(ctx context.Context, req Request) (string, error) {
	var text string
	err := r.policy.Do(ctx, r.logger, "expand narration "+req.Keyword, func(ctx context.Context) error {
		var err error
		text, err = r.next.Expand(ctx, req)
		return err
	})
	return text, err
}

// Text expands req and falls back to the static text on any error or empty
// answer. The player never sees a narration failure.
func Text(ctx context.Context, e Expander, req Request) string {
	if e == nil {
		return req.Fallback
	}
	text, err := e.Expand(ctx, req)
	if err != nil || text == "" {
		return req.Fallback
	}
	return text
}

// Variant picks one of several phrasings. The choice is a pure function of
// seed, so replaying a turn yields the same text.
func Variant(seed uint64, variants ...string) string {
	if len(variants) == 0 {
		return ""
	}
	r := rand.New(rand.NewPCG(seed, 0x6e6f6972))
	return variants[r.IntN(len(variants))]
}
