package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlimited(t *testing.T) {
	l := New(0, 0)

	start := time.Now()
	for i := 0; i < 1000; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}

	assert.Less(t, time.Since(start), time.Second)
}

func TestRateIsEnforced(t *testing.T) {
	l := New(20, 1)

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}

	// the first call passes immediately, the following 4 wait 50ms each
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestBurst(t *testing.T) {
	l := New(0.1, 3)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}

	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitIsCancelled(t *testing.T) {
	l := New(0.001, 1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancelFn := context.WithCancel(context.Background())
	cancelFn()

	assert.Error(t, l.Wait(ctx))
}
