package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/harvest/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("spaces out requests to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewHostLimiter(20) // 50ms between requests

		ctx := context.Background()
		begin := time.Now()
		require.NoError(t, limiter.Wait(ctx, "example.com"))
		require.NoError(t, limiter.Wait(ctx, "example.com"))
		elapsed := time.Since(begin)

		assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	})

	t.Run("different hosts proceed independently", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewHostLimiter(1) // 1s between requests per host

		ctx := context.Background()
		begin := time.Now()
		require.NoError(t, limiter.Wait(ctx, "a.example.com"))
		require.NoError(t, limiter.Wait(ctx, "b.example.com"))
		elapsed := time.Since(begin)

		assert.Less(t, elapsed, 500*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewHostLimiter(0.001)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		require.NoError(t, limiter.Wait(ctx, "example.com"))
		err := limiter.Wait(ctx, "example.com")
		require.Error(t, err)
	})
}
