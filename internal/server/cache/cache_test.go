package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	if _, ok, err := c.Get(ctx, "a"); ok || err != nil {
		t.Fatalf("empty cache Get = %v, %v", ok, err)
	}

	c.Set(ctx, "a", Entry{Move: "e3", Value: 1})
	c.Set(ctx, "b", Entry{Move: "f4", Value: 2})
	c.Set(ctx, "a", Entry{Move: "c5", Value: 3})

	e, ok, _ := c.Get(ctx, "a")
	if !ok || e.Move != "c5" {
		t.Fatalf("Get(a) = %+v, %v; want overwritten entry", e, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	// Full: the oldest insert goes first
	c.Set(ctx, "c", Entry{Move: "d6"})
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("oldest entry not evicted")
	}
	for _, key := range []string{"b", "c"} {
		if _, ok, _ := c.Get(ctx, key); !ok {
			t.Errorf("entry %s evicted", key)
		}
	}

	c.Set(ctx, "d", Entry{Move: "e6"})
	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Error("second oldest entry not evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	// A deleted key frees its slot
	c.Delete(ctx, "c")
	c.Set(ctx, "e", Entry{Move: "f6"})
	for _, key := range []string{"d", "e"} {
		if _, ok, _ := c.Get(ctx, key); !ok {
			t.Errorf("entry %s evicted after delete", key)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d after delete, want 2", c.Len())
	}
}

func TestKey(t *testing.T) {
	pos := "---------------------------XO------OX--------------------------- b"
	k1 := Key(pos, "alphabeta", 6, "weighted")
	if k1 == Key(pos, "alphabeta", 5, "weighted") {
		t.Error("depth not part of key")
	}
	if k1 == Key(pos, "minimax", 6, "weighted") {
		t.Error("strategy not part of key")
	}
	if k1 == Key(pos, "alphabeta", 6, "classic") {
		t.Error("evaluator not part of key")
	}
	if k1 != Key(pos, "alphabeta", 6, "weighted") {
		t.Error("key not deterministic")
	}
}

// Needs a reachable server: OTHELLO_TEST_REDIS=localhost:6379 go test ./...
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("OTHELLO_TEST_REDIS")
	if addr == "" {
		t.Skip("OTHELLO_TEST_REDIS not set")
	}

	c, err := NewRedisCache(addr, "", 0, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := Key("test-position", "alphabeta", 2, "weighted")
	defer c.Delete(ctx, key)

	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("Get before Set = %v, %v", ok, err)
	}
	want := Entry{Move: "d3", Value: -4.5, Depth: 2, Nodes: 17}
	if err := c.Set(ctx, key, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok || got != want {
		t.Fatalf("Get = %+v, %v, %v; want %+v", got, ok, err, want)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Error("entry found after Delete")
	}
}
