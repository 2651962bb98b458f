package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// RedisStore shares candidates between processes through Redis.
// Values are msgpack-encoded string slices stored with a TTL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
	errs   atomic.Int64
}

// NewRedisStore wraps an existing client. Keys are namespaced with prefix,
// which should include the lookup relation so rhymes and meanings never mix.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// DialRedis connects to addr and verifies the connection with a PING.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (rs *RedisStore) key(word string) string {
	return rs.prefix + word
}

// Get reads candidates for word. Redis errors count as misses.
func (rs *RedisStore) Get(ctx context.Context, word string) ([]string, bool) {
	data, err := rs.client.Get(ctx, rs.key(word)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			rs.errs.Add(1)
			log.Debugf("Redis get for '%s' failed: %v", word, err)
		}
		rs.misses.Add(1)
		return nil, false
	}

	var candidates []string
	if err := msgpack.Unmarshal(data, &candidates); err != nil || len(candidates) == 0 {
		rs.misses.Add(1)
		return nil, false
	}
	rs.hits.Add(1)
	return candidates, true
}

// Put writes candidates for word with the store's TTL.
func (rs *RedisStore) Put(ctx context.Context, word string, candidates []string) {
	if word == "" || len(candidates) == 0 {
		return
	}
	data, err := msgpack.Marshal(candidates)
	if err != nil {
		rs.errs.Add(1)
		return
	}
	if err := rs.client.Set(ctx, rs.key(word), data, rs.ttl).Err(); err != nil {
		rs.errs.Add(1)
		log.Debugf("Redis set for '%s' failed: %v", word, err)
	}
}

// Stats returns hit, miss and error counters.
func (rs *RedisStore) Stats() map[string]int {
	return map[string]int{
		"redisHits":   int(rs.hits.Load()),
		"redisMisses": int(rs.misses.Load()),
		"redisErrors": int(rs.errs.Load()),
	}
}

// Tiered checks a fast local store before a shared one and back-fills the
// local store on shared hits.
type Tiered struct {
	Local  Store
	Shared Store
}

// Get consults Local then Shared.
func (t Tiered) Get(ctx context.Context, word string) ([]string, bool) {
	if c, ok := t.Local.Get(ctx, word); ok {
		return c, true
	}
	c, ok := t.Shared.Get(ctx, word)
	if ok {
		t.Local.Put(ctx, word, c)
	}
	return c, ok
}

// Put writes to both tiers.
func (t Tiered) Put(ctx context.Context, word string, candidates []string) {
	t.Local.Put(ctx, word, candidates)
	t.Shared.Put(ctx, word, candidates)
}

// Stats merges the counters of both tiers.
func (t Tiered) Stats() map[string]int {
	stats := t.Local.Stats()
	for k, v := range t.Shared.Stats() {
		stats[k] = v
	}
	return stats
}
