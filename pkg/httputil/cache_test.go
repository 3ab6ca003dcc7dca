package httputil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	type place struct {
		Name string  `json:"name"`
		X    float64 `json:"x"`
	}

	if err := c.Set("cradle mountain", place{Name: "Cradle Mountain", X: 16165213.5}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got place
	hit, err := c.Get("cradle mountain", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got.Name != "Cradle Mountain" || got.X != 16165213.5 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	var v string
	hit, err := c.Get("absent", &v)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected miss for absent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, time.Minute)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if err := c.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Age the entry past its TTL.
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("ReadDir: %v (%d entries)", err, len(entries))
	}
	old := time.Now().Add(-2 * time.Minute)
	if err := os.Chtimes(filepath.Join(dir, entries[0].Name()), old, old); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	var v string
	hit, err := c.Get("k", &v)
	if hit {
		t.Error("expired entry should not hit")
	}
	if !errors.Is(err, ErrExpired) {
		t.Errorf("err = %v, want ErrExpired", err)
	}
}

func TestCacheNamespace(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	a := c.Namespace("listmap:")
	b := c.Namespace("geomag:")

	if err := a.Set("key", "from-listmap"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var v string
	if hit, _ := b.Get("key", &v); hit {
		t.Error("namespaces should not share keys")
	}
	if hit, _ := a.Get("key", &v); !hit || v != "from-listmap" {
		t.Errorf("namespaced get: hit=%v v=%q", hit, v)
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache

	if err := c.Set("k", "v"); err != nil {
		t.Errorf("nil Set should be a no-op: %v", err)
	}
	var v string
	hit, err := c.Get("k", &v)
	if err != nil || hit {
		t.Errorf("nil Get should always miss: hit=%v err=%v", hit, err)
	}
	if ns := c.Namespace("x:"); ns != nil {
		t.Error("nil Namespace should stay nil")
	}
}
