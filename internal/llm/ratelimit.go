package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited spaces out calls to a Completer so the paid fallback cannot
// burn through a user's quota when upstream feeds are down.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
}

// NewRateLimited allows one call per interval with a burst of one.
// A non-positive interval disables limiting.
func NewRateLimited(next Completer, interval time.Duration) *RateLimited {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Complete waits for a token, then delegates.
func (r *RateLimited) Complete(ctx context.Context, prompt string, cred Credential) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return r.next.Complete(ctx, prompt, cred)
}
