package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingCompleter is a mock Completer that counts calls.
type countingCompleter struct {
	calls int
	reply string
	err   error
}

func (c *countingCompleter) Complete(ctx context.Context, prompt string, cred Credential) (string, error) {
	c.calls++
	return c.reply, c.err
}

func TestRateLimited_Complete(t *testing.T) {
	t.Run("delegates first call immediately", func(t *testing.T) {
		next := &countingCompleter{reply: "[]"}
		r := NewRateLimited(next, time.Hour)

		out, err := r.Complete(context.Background(), "p", Credential{})
		require.NoError(t, err)
		assert.Equal(t, "[]", out)
		assert.Equal(t, 1, next.calls)
	})

	t.Run("second call fails when ctx deadline is shorter than the wait", func(t *testing.T) {
		next := &countingCompleter{reply: "[]"}
		r := NewRateLimited(next, time.Hour)

		_, err := r.Complete(context.Background(), "p", Credential{})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = r.Complete(ctx, "p", Credential{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rate limiter")
		assert.Equal(t, 1, next.calls)
	})

	t.Run("zero interval disables limiting", func(t *testing.T) {
		next := &countingCompleter{reply: "[]"}
		r := NewRateLimited(next, 0)

		for i := 0; i < 5; i++ {
			_, err := r.Complete(context.Background(), "p", Credential{})
			require.NoError(t, err)
		}
		assert.Equal(t, 5, next.calls)
	})

	t.Run("passes through delegate errors", func(t *testing.T) {
		next := &countingCompleter{err: errors.New("boom")}
		r := NewRateLimited(next, 0)

		_, err := r.Complete(context.Background(), "p", Credential{})
		assert.EqualError(t, err, "boom")
	})
}
