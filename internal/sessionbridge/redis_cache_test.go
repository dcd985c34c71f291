package sessionbridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisCache(t *testing.T, mr *miniredis.Miniredis) *RedisCache {
	t.Helper()
	cache := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestRedisCacheGetMissReturnsNil(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := newTestRedisCache(t, mr)

	value, err := cache.Get(context.Background(), "workflow:session-token:missing")
	if err != nil {
		t.Fatalf("miss must not error: %v", err)
	}
	if value != nil {
		t.Fatalf("expected nil on miss, got %#v", value)
	}
}

func TestRedisCacheStoresRawAndJSONValues(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := newTestRedisCache(t, mr)
	ctx := context.Background()

	if err := cache.Set(ctx, "raw", []byte(`{"user":"ada"}`), 0); err != nil {
		t.Fatalf("set raw: %v", err)
	}
	if err := cache.Set(ctx, "encoded", map[string]any{"user": "grace"}, 0); err != nil {
		t.Fatalf("set encoded: %v", err)
	}

	if got, _ := mr.Get("raw"); got != `{"user":"ada"}` {
		t.Fatalf("raw value stored as %q", got)
	}
	if got, _ := mr.Get("encoded"); got != `{"user":"grace"}` {
		t.Fatalf("encoded value stored as %q", got)
	}
	value, err := cache.Get(ctx, "encoded")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(value.([]byte)) != `{"user":"grace"}` {
		t.Fatalf("unexpected value %q", value)
	}
}

func TestRedisCacheSetNilDeletesKey(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := newTestRedisCache(t, mr)
	ctx := context.Background()

	if err := cache.Set(ctx, "tok", "payload", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Set(ctx, "tok", nil, 0); err != nil {
		t.Fatalf("set nil: %v", err)
	}
	if mr.Exists("tok") {
		t.Fatalf("nil value must remove the key")
	}
}

func TestRedisCacheTTLExpiresKey(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := newTestRedisCache(t, mr)
	ctx := context.Background()

	if err := cache.Set(ctx, "tok", "payload", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("tok"); ttl != time.Minute {
		t.Fatalf("expected one minute ttl, got %s", ttl)
	}

	mr.FastForward(time.Minute + time.Second)

	value, err := cache.Get(ctx, "tok")
	if err != nil || value != nil {
		t.Fatalf("expected expired key, got %#v (%v)", value, err)
	}
}

func TestRedisCacheDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := newTestRedisCache(t, mr)
	ctx := context.Background()

	if err := cache.Set(ctx, "tok", "payload", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := cache.Delete(ctx, "tok"); err != nil {
		t.Fatalf("deleting a missing key must not error: %v", err)
	}
	if mr.Exists("tok") {
		t.Fatalf("key still present after delete")
	}
}

func TestRedisCacheTakeRemovesKey(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := newTestRedisCache(t, mr)
	ctx := context.Background()

	if err := cache.Set(ctx, "tok", "payload", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := cache.Take(ctx, "tok")
	if err != nil || string(value.([]byte)) != "payload" {
		t.Fatalf("take: %#v (%v)", value, err)
	}
	if mr.Exists("tok") {
		t.Fatalf("take must remove the key")
	}
	value, err = cache.Take(ctx, "tok")
	if err != nil || value != nil {
		t.Fatalf("second take should miss, got %#v (%v)", value, err)
	}
}

func TestRedisCacheReportsConnectionErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := newTestRedisCache(t, mr)
	mr.Close()

	if _, err := cache.Get(context.Background(), "tok"); err == nil || errors.Is(err, redis.Nil) {
		t.Fatalf("expected a connection error, got %v", err)
	}
}

// Two hosts of the same site each run their own Bridge over one redis.
// Every token must be redeemed exactly once.
func TestBridgesSharingRedisRedeemTokensOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	issuer := New(newTestRedisCache(t, mr))
	hostA := New(newTestRedisCache(t, mr))
	hostB := New(newTestRedisCache(t, mr))

	const tokens = 100
	var redeemed atomic.Int64
	for i := 0; i < tokens; i++ {
		token, err := issuer.Issue(ctx, &mapSession{values: map[string]any{"user": fmt.Sprintf("user-%d", i)}})
		if err != nil {
			t.Fatalf("issue: %v", err)
		}

		var wg sync.WaitGroup
		for _, bridge := range []*Bridge{hostA, hostB} {
			wg.Add(1)
			go func(bridge *Bridge) {
				defer wg.Done()
				err := bridge.Accept(ctx, token, &mapSession{})
				switch {
				case err == nil:
					redeemed.Add(1)
				case !errors.Is(err, ErrTokenExpired):
					t.Errorf("accept: %v", err)
				}
			}(bridge)
		}
		wg.Wait()
	}

	if got := redeemed.Load(); got != tokens {
		t.Fatalf("expected %d redemptions, got %d", tokens, got)
	}
}
