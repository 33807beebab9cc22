package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func exerciseCache(t *testing.T, c Cache) {
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "GET /addresses", []byte("a"), time.Minute, "addresses"))
	require.NoError(t, c.Set(ctx, "GET /addresses/primary", []byte("p"), time.Minute, "addresses"))
	require.NoError(t, c.Set(ctx, "GET /milestones", []byte("m"), time.Minute, "milestones"))

	got, err := c.Get(ctx, "GET /addresses")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	require.NoError(t, c.InvalidateTags(ctx, "addresses"))

	_, err = c.Get(ctx, "GET /addresses")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.Get(ctx, "GET /addresses/primary")
	assert.ErrorIs(t, err, ErrMiss)

	got, err = c.Get(ctx, "GET /milestones")
	require.NoError(t, err)
	assert.Equal(t, []byte("m"), got)

	require.NoError(t, c.InvalidateTags(ctx, "unknown"))
}

func TestMemory(t *testing.T) {
	exerciseCache(t, NewMemory())
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(context.Background(), "k", []byte("v"), time.Second, "t"))
	now = now.Add(2 * time.Second)

	_, err := m.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Empty(t, m.byTag)
}

func TestRedis(t *testing.T) {
	client, _ := setupTestRedis(t)
	exerciseCache(t, NewRedis(client))
}

func TestRedis_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedis(client)

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Second, "t"))
	mr.FastForward(2 * time.Second)

	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_ExpiredGetKeepsConcurrentSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "k", []byte("stale"), time.Second, "t"))
	now = now.Add(2 * time.Second)

	// The fresh Set lands between Get's expiry check and its removal.
	armed := true
	m.now = func() time.Time {
		if armed {
			armed = false
			require.NoError(t, m.Set(ctx, "k", []byte("fresh"), time.Minute, "t"))
		}
		return now
	}

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)

	got, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)
}

func TestRedis_InvalidateDuringSets(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedis(client)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			assert.NoError(t, c.Set(ctx, fmt.Sprintf("GET /projects?page=%d", i), []byte("p"), time.Minute, "projects"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			assert.NoError(t, c.InvalidateTags(ctx, "projects"))
		}
	}()
	wg.Wait()

	require.NoError(t, c.InvalidateTags(ctx, "projects"))
	for i := 0; i < n; i++ {
		_, err := c.Get(ctx, fmt.Sprintf("GET /projects?page=%d", i))
		assert.ErrorIs(t, err, ErrMiss, "page %d survived invalidation", i)
	}
}
