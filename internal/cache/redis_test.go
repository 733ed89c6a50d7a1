package cache

import (
	"context"
	"testing"
	"time"

	"cinecomments/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoAddressDisablesCache(t *testing.T) {
	c, err := New(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNilCache_IsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var dest map[string]string
	found, err := c.GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.SetJSON(ctx, "k", map[string]string{"a": "b"}))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
	assert.Nil(t, c.Client())

	gen, err := c.Generation(ctx, "g")
	require.NoError(t, err)
	assert.Zero(t, gen)
	assert.NoError(t, c.Bump(ctx, "g"))
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(&config.Config{RedisAddr: mr.Addr(), CacheTTL: time.Minute})
	require.NoError(t, err)
	require.NotNil(t, c)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNew_UnreachableRedis(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	addr := mr.Addr()
	mr.Close()

	c, err := New(&config.Config{RedisAddr: addr})
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestCache_JSONRoundTripAndTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	type doc struct {
		Title string `json:"title"`
		Year  int    `json:"year"`
	}

	require.NoError(t, c.SetJSON(ctx, "movie:1", doc{Title: "Dune", Year: 2021}))
	assert.Equal(t, time.Minute, mr.TTL("movie:1"))

	var got doc
	found, err := c.GetJSON(ctx, "movie:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, doc{Title: "Dune", Year: 2021}, got)

	mr.FastForward(2 * time.Minute)
	found, err = c.GetJSON(ctx, "movie:1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Delete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "a", 1))
	require.NoError(t, c.SetJSON(ctx, "b", 2))
	require.NoError(t, c.Delete(ctx, "a", "b"))

	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
	assert.NoError(t, c.Delete(ctx))
}

func TestCache_GenerationBump(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx, "movies:gen")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, c.Bump(ctx, "movies:gen"))
	require.NoError(t, c.Bump(ctx, "movies:gen"))

	gen, err = c.Generation(ctx, "movies:gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
}

func TestCache_CorruptEntryIsAnError(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("movie:bad", "{not json"))

	var dest map[string]any
	found, err := c.GetJSON(context.Background(), "movie:bad", &dest)
	assert.Error(t, err)
	assert.False(t, found)
}
