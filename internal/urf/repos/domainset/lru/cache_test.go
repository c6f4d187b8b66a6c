package lru

import (
	"fmt"
	"testing"

	"github.com/haukened/rr-urf/internal/urf/repos/domainset"
)

func TestGetPut(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("example.com"); ok {
		t.Error("empty cache should miss")
	}

	want := domainset.Match{Matched: true, Entry: "example.com"}
	c.Put("example.com", want)

	got, ok := c.Get("example.com")
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if c.Len() != 1 {
		t.Errorf("expected len 1, got %d", c.Len())
	}
}

func TestStats(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}

	c.Get("miss1")
	c.Get("miss2")
	c.Put("hit.com", domainset.Match{Matched: true, Entry: "hit.com"})
	c.Get("hit.com")

	hits, misses, _ := c.Stats()
	if hits != 1 {
		t.Errorf("expected 1 hit, got %d", hits)
	}
	if misses != 2 {
		t.Errorf("expected 2 misses, got %d", misses)
	}
}

func TestEvictionCounting(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		host := fmt.Sprintf("host%d.com", i)
		c.Put(host, domainset.Match{})
	}

	_, _, evictions := c.Stats()
	if evictions != 3 {
		t.Errorf("expected 3 evictions, got %d", evictions)
	}
	if c.Len() != 2 {
		t.Errorf("expected len 2, got %d", c.Len())
	}
}

func TestPurge(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}

	c.Put("a.com", domainset.Match{})
	c.Put("b.com", domainset.Match{})
	c.Purge()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after purge, got len %d", c.Len())
	}
	// Purge-induced removals count as evictions.
	_, _, evictions := c.Stats()
	if evictions != 2 {
		t.Errorf("expected 2 evictions from purge, got %d", evictions)
	}
}

func TestDisabledCache(t *testing.T) {
	for _, size := range []int{0, -1} {
		c, err := New(size)
		if err != nil {
			t.Fatalf("New(%d) returned error: %v", size, err)
		}
		c.Put("a.com", domainset.Match{Matched: true})
		if _, ok := c.Get("a.com"); ok {
			t.Error("disabled cache should always miss")
		}
		if c.Len() != 0 {
			t.Error("disabled cache should report zero length")
		}
		c.Purge() // must not panic
		hits, misses, evictions := c.Stats()
		if hits != 0 || misses != 0 || evictions != 0 {
			t.Error("disabled cache should track no stats")
		}
	}
}
