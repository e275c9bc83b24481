package cache

import (
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string](1 * time.Second)
	defer c.Close()

	c.Set("key1", "value1")

	val, found := c.Get("key1")
	if !found {
		t.Error("Expected to find key1")
	}
	if val != "value1" {
		t.Errorf("Expected value1, got %v", val)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New[string](100 * time.Millisecond)
	defer c.Close()

	c.Set("key1", "value1")

	// Should exist immediately
	_, found := c.Get("key1")
	if !found {
		t.Error("Expected to find key1 immediately")
	}

	// Wait for expiration
	time.Sleep(150 * time.Millisecond)

	_, found = c.Get("key1")
	if found {
		t.Error("Expected key1 to be expired")
	}
}

func TestCache_SetOverwrites(t *testing.T) {
	c := New[int](1 * time.Second)
	defer c.Close()

	c.Set("ai=20", 1)
	c.Set("ai=20", 2)

	val, found := c.Get("ai=20")
	if !found || val != 2 {
		t.Errorf("Expected overwritten value 2, got %v (found=%v)", val, found)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}
}

func TestCache_Purge(t *testing.T) {
	c := New[int](1 * time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	if c.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", c.Len())
	}

	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Expected empty cache after purge, got %d", c.Len())
	}
}

func TestCache_ZeroTTLDisablesCaching(t *testing.T) {
	c := New[string](0)
	defer c.Close()

	c.Set("key1", "value1")

	if _, found := c.Get("key1"); found {
		t.Error("Expected zero TTL cache to store nothing")
	}
}

func TestCache_Sweep(t *testing.T) {
	c := New[string](1 * time.Minute)
	defer c.Close()

	c.Set("a", "x")
	c.Set("b", "y")

	c.sweep(time.Now())
	if c.Len() != 2 {
		t.Fatalf("Expected live entries to survive sweep, got %d", c.Len())
	}

	c.sweep(time.Now().Add(2 * time.Minute))
	if c.Len() != 0 {
		t.Errorf("Expected expired entries to be swept, got %d", c.Len())
	}
}

func TestCache_CloseTwice(t *testing.T) {
	c := New[string](1 * time.Second)
	c.Close()
	c.Close()
}
