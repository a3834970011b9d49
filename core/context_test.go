package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressHeader(t *testing.T) {
	assert.False(t, shouldSuppressHeader(context.Background()))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(context.Background())))

	// A foreign value under the same key type does not count
	ctx := context.WithValue(context.Background(), suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(ctx))
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", i)
		})
	}
	wg.Wait()
}

// TestContextDerivedFromCancelled checks the flag survives cancellation.
func TestContextDerivedFromCancelled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx := WithSuppressHeader(parent)
	cancel()

	assert.Error(t, ctx.Err())
	assert.True(t, shouldSuppressHeader(ctx))
}
