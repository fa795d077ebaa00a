package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *clock { return &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)} }

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	mc := NewMemoryCache(WithMemoryClock(clk.now))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "chart", []byte("png"), time.Minute))
	v, err := mc.Get(ctx, "chart")
	require.NoError(t, err)
	require.Equal(t, []byte("png"), v)

	clk.advance(2 * time.Minute)
	_, err = mc.Get(ctx, "chart")
	require.ErrorIs(t, err, ErrCacheMiss)
	ok, err := mc.Exists(ctx, "chart")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	mc := NewMemoryCache(WithMemoryMaxSize(2), WithMemoryClock(clk.now))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), 0))
	clk.advance(time.Second)
	require.NoError(t, mc.Set(ctx, "b", []byte("2"), 0))
	clk.advance(time.Second)
	_, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	clk.advance(time.Second)
	require.NoError(t, mc.Set(ctx, "c", []byte("3"), 0))

	require.Equal(t, 2, mc.Len())
	_, err = mc.Get(ctx, "b")
	require.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, "a")
	require.NoError(t, err)
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	in := []byte("abc")
	require.NoError(t, mc.Set(ctx, "k", in, time.Minute))
	in[0] = 'x'
	out, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(out))
	out[0] = 'y'
	again, _ := mc.Get(ctx, "k")
	require.Equal(t, "abc", string(again))
}

func TestLayeredCache_ReadsThroughAndFillsL1(t *testing.T) {
	ctx := context.Background()
	l2 := NewMemoryCache()
	lc := NewLayeredCache(l2, WithLayeredMemoryTTL(time.Minute))
	defer lc.Close()

	require.NoError(t, l2.Set(ctx, "k", []byte("v"), time.Hour))
	v, err := lc.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, l2.Delete(ctx, "k"))
	v, err = lc.Get(ctx, "k")
	require.NoError(t, err, "served from L1")
	require.Equal(t, []byte("v"), v)

	require.NoError(t, lc.Delete(ctx, "k"))
	_, err = lc.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestLayeredCache_WriteThrough(t *testing.T) {
	ctx := context.Background()
	l2 := NewMemoryCache()
	lc := NewLayeredCache(l2)
	defer lc.Close()

	require.NoError(t, lc.Set(ctx, "k", []byte("v"), time.Hour))
	ok, err := l2.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGetOrLoad(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	calls := 0
	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	}

	v, hit, err := GetOrLoad(ctx, mc, "k", time.Minute, load)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, []byte("fresh"), v)

	v, hit, err = GetOrLoad(ctx, mc, "k", time.Minute, load)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte("fresh"), v)
	require.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, _, err = GetOrLoad(ctx, mc, "other", time.Minute, func(context.Context) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	ok, _ := mc.Exists(ctx, "other")
	require.False(t, ok)
}

func TestGenerateKey(t *testing.T) {
	require.Equal(t, "chart:CL:1day:90", GenerateKeyWithParams("chart", "CL", "1day", 90))
	require.Len(t, HashKey("chart:CL"), 32)
	require.Equal(t, HashKey("x"), HashKey("x"))
}

// Runs against a live server only when REDIS_HOST is set.
func TestRedisCache_Live(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}
	ctx := context.Background()
	rc, err := NewRedisCache(WithRedisHost(host), WithRedisPrefix("martrade-test"))
	require.NoError(t, err)
	defer rc.Close()

	require.NoError(t, rc.Set(ctx, "k", []byte{0x89, 'P', 'N', 'G'}, time.Minute))
	v, err := rc.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, v)

	require.NoError(t, rc.Delete(ctx, "k"))
	_, err = rc.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)
}
