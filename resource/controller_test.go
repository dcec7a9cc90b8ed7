package resource

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	err := c.AcquireMemory(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	err = c.AcquireMemory(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// TryAcquire 20 (should fail)
	ok := c.TryAcquireMemory(20)
	assert.False(t, ok)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Acquire 20 (should block/timeout)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	err = c.AcquireMemory(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_ExceedsLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	err := c.AcquireMemory(context.Background(), 101)
	assert.ErrorIs(t, err, ErrExceedsLimit)
	assert.Zero(t, c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Searches(t *testing.T) {
	c := NewController(Config{MaxConcurrentSearches: 2})

	require.NoError(t, c.AcquireSearch(context.Background()))
	require.NoError(t, c.AcquireSearch(context.Background()))

	assert.False(t, c.TryAcquireSearch())

	c.ReleaseSearch()

	assert.True(t, c.TryAcquireSearch())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(context.Background(), 10))
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
	require.NoError(t, c.AcquireSearch(context.Background()))
	assert.True(t, c.TryAcquireSearch())
	c.ReleaseSearch()
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestRateLimitedWriter_LargeWrite(t *testing.T) {
	// Writes larger than the burst are split instead of failing.
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	var buf bytes.Buffer
	w := NewRateLimitedWriter(context.Background(), &buf, c)

	payload := bytes.Repeat([]byte("x"), 1<<20+10)
	n, err := w.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, len(payload), buf.Len())
}

func TestRateLimitedWriter_Canceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewRateLimitedWriter(ctx, &bytes.Buffer{}, c)
	_, err := w.Write([]byte("hello"))
	assert.Error(t, err)
}
