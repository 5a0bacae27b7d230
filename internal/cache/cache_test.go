package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskKey(t *testing.T) {
	assert.Equal(t, "hrtask:task:abc", TaskKey("abc"))
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, got)

	assert.NoError(t, c.Delete(ctx, "k"))
}

type snapshot struct {
	ID     string `json:"id"`
	Rating int    `json:"rating"`
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	c, err := Connect(ctx, addr)
	require.NoError(t, err)
	defer c.Close()

	key := TaskKey("cache-test-" + time.Now().Format("150405.000000"))
	defer c.Delete(ctx, key)

	var got snapshot
	hit, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, key, snapshot{ID: "t1", Rating: 4}, time.Minute))

	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, snapshot{ID: "t1", Rating: 4}, got)

	require.NoError(t, c.Delete(ctx, key))
	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}
