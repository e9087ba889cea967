package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(max int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](max, ttl)
	c.now = clk.now
	return c, clk
}

func TestLRUCache_CapacityEvictsOldest(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	var evicted []string
	c.OnEvict(func(k, _ string) { evicted = append(evicted, k) })

	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing")
	}
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Errorf("evicted = %v", evicted)
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d", c.Size())
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("a", "1")
	clk.t = clk.t.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry returned")
	}
	if c.Size() != 0 {
		t.Errorf("Size = %d", c.Size())
	}
}

func TestLRUCache_GetOrCreateRefreshes(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	calls := 0
	mk := func() string { calls++; return "v" }

	if _, created := c.GetOrCreate("k", mk); !created {
		t.Fatal("first call should create")
	}
	clk.t = clk.t.Add(50 * time.Second)
	if _, created := c.GetOrCreate("k", mk); created {
		t.Fatal("live entry recreated")
	}
	clk.t = clk.t.Add(50 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expiry was not refreshed")
	}
	if calls != 1 {
		t.Errorf("create calls = %d", calls)
	}
}

func TestLRUCache_CleanExpired(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	clk.t = clk.t.Add(30 * time.Second)
	c.Set("c", "3")
	clk.t = clk.t.Add(45 * time.Second)

	var evicted []string
	c.OnEvict(func(k, _ string) { evicted = append(evicted, k) })
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired = %d", n)
	}
	if len(evicted) != 2 {
		t.Errorf("evicted = %v", evicted)
	}
	var live []string
	c.Range(func(k, _ string) { live = append(live, k) })
	if len(live) != 1 || live[0] != "c" {
		t.Errorf("live = %v", live)
	}
}

func TestManager_Sweep(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("a", "1")
	clk.t = clk.t.Add(time.Hour)

	m := NewManager()
	m.Register(c)
	var got int
	m.AfterSweep(func(n int) { got = n })
	if n := m.Sweep(); n != 1 || got != 1 {
		t.Fatalf("Sweep = %d, hook = %d", n, got)
	}
	m.Stop()
}
