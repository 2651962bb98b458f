package cache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestHotCacheGetPut(t *testing.T) {
	ctx := context.Background()
	hc := NewHotCache(10)

	_, ok := hc.Get(ctx, "fox")
	assert.False(t, ok)

	hc.Put(ctx, "fox", []string{"wolf", "dog"})
	got, ok := hc.Get(ctx, "fox")
	require.True(t, ok)
	assert.Equal(t, []string{"wolf", "dog"}, got)

	// callers may not mutate the cached slice
	got[0] = "cat"
	again, _ := hc.Get(ctx, "fox")
	assert.Equal(t, "wolf", again[0])

	stats := hc.Stats()
	assert.Equal(t, 1, stats["hotCacheWords"])
	assert.Equal(t, 2, stats["hotCacheHits"])
	assert.Equal(t, 1, stats["hotCacheMisses"])
}

func TestHotCacheIgnoresEmpty(t *testing.T) {
	ctx := context.Background()
	hc := NewHotCache(10)
	hc.Put(ctx, "fox", nil)
	hc.Put(ctx, "", []string{"x"})
	assert.Equal(t, 0, hc.Len())
}

func TestHotCacheSharedPrefixes(t *testing.T) {
	ctx := context.Background()
	hc := NewHotCache(10)
	hc.Put(ctx, "fox", []string{"wolf"})
	hc.Put(ctx, "foxes", []string{"wolves"})
	hc.Put(ctx, "fo", []string{"foe"})

	for word, want := range map[string]string{"fox": "wolf", "foxes": "wolves", "fo": "foe"} {
		got, ok := hc.Get(ctx, word)
		require.True(t, ok, word)
		assert.Equal(t, []string{want}, got)
	}
	_, ok := hc.Get(ctx, "f")
	assert.False(t, ok)
}

func TestHotCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	hc := NewHotCache(2)

	hc.Put(ctx, "a", []string{"1"})
	hc.Put(ctx, "b", []string{"2"})
	// touch "a" so "b" becomes the oldest
	_, _ = hc.Get(ctx, "a")
	hc.Put(ctx, "c", []string{"3"})

	assert.Equal(t, 2, hc.Len())
	_, ok := hc.Get(ctx, "b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = hc.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = hc.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, 1, hc.Stats()["hotCacheEvictions"])
}

func TestHotCacheOverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	hc := NewHotCache(2)
	hc.Put(ctx, "a", []string{"1"})
	hc.Put(ctx, "b", []string{"2"})
	hc.Put(ctx, "a", []string{"3"})

	assert.Equal(t, 2, hc.Len())
	got, _ := hc.Get(ctx, "a")
	assert.Equal(t, []string{"3"}, got)
}

func TestHotCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	hc := NewHotCache(50)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				word := fmt.Sprintf("w%d", (w*200+i)%100)
				hc.Put(ctx, word, []string{word + "x"})
				hc.Get(ctx, word)
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, hc.Len(), 50)
}

func TestTieredBackfillsLocal(t *testing.T) {
	ctx := context.Background()
	local := NewHotCache(10)
	shared := NewHotCache(10)
	shared.Put(ctx, "fox", []string{"wolf"})

	tiered := Tiered{Local: local, Shared: shared}
	got, ok := tiered.Get(ctx, "fox")
	require.True(t, ok)
	assert.Equal(t, []string{"wolf"}, got)
	assert.Equal(t, 1, local.Len())

	tiered.Put(ctx, "dog", []string{"hound"})
	assert.Equal(t, 2, local.Len())
	assert.Equal(t, 2, shared.Len())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("WORDSWAP_REDIS_ADDR")
	if addr == "" {
		t.Skip("WORDSWAP_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := DialRedis(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	prefix := "wordswap-test:" + uuid.NewString() + ":"
	rs := NewRedisStore(client, prefix, time.Minute)
	defer client.Del(ctx, prefix+"fox")

	_, ok := rs.Get(ctx, "fox")
	assert.False(t, ok)

	rs.Put(ctx, "fox", []string{"wolf", "dog"})
	got, ok := rs.Get(ctx, "fox")
	require.True(t, ok)
	assert.Equal(t, []string{"wolf", "dog"}, got)
	assert.Equal(t, 1, rs.Stats()["redisHits"])
}
