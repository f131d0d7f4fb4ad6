package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestGetPut(t *testing.T) {
	c := NewLRUCache[string, string](DefaultConfig())

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should miss")
	}

	c.Put("websiteViewer.title", "Website Viewer")
	got, ok := c.Get("websiteViewer.title")
	if !ok || got != "Website Viewer" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	// Overwrite
	c.Put("websiteViewer.title", "Viewer")
	got, _ = c.Get("websiteViewer.title")
	if got != "Viewer" {
		t.Errorf("Get after overwrite = %q", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestEviction(t *testing.T) {
	c := NewLRUCache[int, int](Config{MaxSize: 3})

	for i := 0; i < 5; i++ {
		c.Put(i, i*10)
	}

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	// Oldest entries evicted
	if _, ok := c.Get(0); ok {
		t.Error("entry 0 should have been evicted")
	}
	if _, ok := c.Get(1); ok {
		t.Error("entry 1 should have been evicted")
	}
	if v, ok := c.Get(4); !ok || v != 40 {
		t.Errorf("Get(4) = %d, %v", v, ok)
	}

	stats := c.Stats()
	if stats.Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", stats.Evictions)
	}
}

func TestLRUOrdering(t *testing.T) {
	c := NewLRUCache[int, int](Config{MaxSize: 2})

	c.Put(1, 1)
	c.Put(2, 2)
	c.Get(1) // 1 is now most recently used
	c.Put(3, 3)

	if _, ok := c.Get(2); ok {
		t.Error("entry 2 should have been evicted, not 1")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("entry 1 should survive")
	}
}

func TestTTLExpiration(t *testing.T) {
	c := NewLRUCache[string, string](Config{MaxSize: 10, TTL: 10 * time.Millisecond})

	c.Put("key", "value")
	if _, ok := c.Get("key"); !ok {
		t.Fatal("entry should be present before TTL")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("key"); ok {
		t.Error("entry should have expired")
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := NewLRUCache[string, int](DefaultConfig())

	c.Put("a", 1)
	c.Put("b", 2)

	c.Remove("a")
	if _, ok := c.Get("a"); ok {
		t.Error("removed entry should miss")
	}
	// Removing a missing key is a no-op
	c.Remove("missing")

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestStats(t *testing.T) {
	c := NewLRUCache[string, int](Config{MaxSize: 8})

	c.Put("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Size != 1 || stats.MaxSize != 8 {
		t.Errorf("Size = %d, MaxSize = %d", stats.Size, stats.MaxSize)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewLRUCache[int, int](Config{MaxSize: 64})

	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				c.Put(i%32, g)
				c.Get(i % 32)
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}

	if c.Len() > 32 {
		t.Errorf("Len = %d, want <= 32", c.Len())
	}
}

func TestNegativeMaxSizeUnlimited(t *testing.T) {
	c := NewLRUCache[string, int](Config{MaxSize: -1})

	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("k%d", i), i)
	}
	if c.Len() != 100 {
		t.Errorf("Len = %d, want 100 (unlimited)", c.Len())
	}
}
