package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := newRedisCache(mr.Addr(), false)
	require.NoError(t, err)
	return c
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	err := c.Set(ctx, "project:prj_1", "approved", time.Minute)
	require.NoError(t, err)

	var status string
	err = c.Get(ctx, "project:prj_1", &status)
	require.NoError(t, err)
	assert.Equal(t, "approved", status)
}

func TestCacheGetMiss(t *testing.T) {
	c := newTestCache(t)

	var out string
	err := c.Get(context.Background(), "missing-key", &out)
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	var out string
	assert.NoError(t, c.Get(ctx, "k", &out))
	assert.Empty(t, out)
}
