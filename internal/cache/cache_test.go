package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("lahiri", "12345")
	b := Key("lahiri", "12345")
	if a != b {
		t.Error("same parts must produce the same key")
	}
	if !strings.HasPrefix(a, "rectifica:v1:") {
		t.Errorf("key %q missing version prefix", a)
	}
}

func TestKeyDistinct(t *testing.T) {
	if Key("lahiri", "12345") == Key("fixed:24", "12345") {
		t.Error("different fingerprints must produce different keys")
	}
	if Key("lahiri", "12345") == Key("lahiri", "12346") {
		t.Error("different instants must produce different keys")
	}
	// Joining must not let adjacent parts collide
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("part boundaries must be preserved")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "payload" {
		t.Errorf("Get = %q, %v; want payload, true", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("key survived Delete")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("key survived Clear")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := Key("lahiri", "12345")
	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get(key)
	if !found || string(val) != "payload" {
		t.Errorf("Get = %q, %v; want payload, true", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("key survived Delete")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("payload"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("expired entry served")
	}
}

func TestLayeredCachePromotes(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)

	// Seed the disk layer only, as if a previous run had written it
	if err := c.disk.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("disk Set: %v", err)
	}
	if _, found := c.memory.Get("k"); found {
		t.Fatal("memory layer unexpectedly warm")
	}

	val, found := c.Get("k")
	if !found || string(val) != "payload" {
		t.Fatalf("Get = %q, %v; want payload, true", val, found)
	}

	// The hit must have been promoted into memory
	if _, found := c.memory.Get("k"); !found {
		t.Error("disk hit was not promoted to the memory layer")
	}
}

func TestLayeredCacheWritesBothLayers(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("value missing from memory layer")
	}
	if _, found := c.disk.Get("k"); !found {
		t.Error("value missing from disk layer")
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("key survived Delete")
	}
}
