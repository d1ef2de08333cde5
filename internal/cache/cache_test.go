package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "tabihi:", ttl), mr
}

func TestSetGetDelete(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k1", payload{Name: "toll", Value: 24.6}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("tabihi:k1") {
		t.Fatalf("expected prefixed key to be written")
	}
	if ttl := mr.TTL("tabihi:k1"); ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %s", ttl)
	}

	var got payload
	ok, err := c.GetJSON(ctx, "k1", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Name != "toll" || got.Value != 24.6 {
		t.Fatalf("unexpected payload %+v", got)
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err = c.GetJSON(ctx, "k1", &got)
	if err != nil || ok {
		t.Fatalf("expected miss after delete, ok=%v err=%v", ok, err)
	}
}

func TestExpiry(t *testing.T) {
	c, mr := newTestCache(t, time.Second)
	ctx := context.Background()
	if err := c.SetJSON(ctx, "k", payload{Name: "x"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)
	var got payload
	ok, err := c.GetJSON(ctx, "k", &got)
	if err != nil || ok {
		t.Fatalf("expected expired key to miss, ok=%v err=%v", ok, err)
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	if err := c.SetJSON(ctx, "k", payload{}); err != nil {
		t.Fatalf("set on nil cache: %v", err)
	}
	var got payload
	ok, err := c.GetJSON(ctx, "k", &got)
	if err != nil || ok {
		t.Fatalf("expected miss on nil cache")
	}
	if err := New(nil, "p:", time.Minute).Delete(ctx, "k"); err != nil {
		t.Fatalf("delete without client: %v", err)
	}
}

func TestGetErrorWhenRedisDown(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()
	var got payload
	if _, err := c.GetJSON(context.Background(), "k", &got); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}
