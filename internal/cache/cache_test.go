package cache

import "testing"

func TestCacheGetSetInvalidate(t *testing.T) {
	c := New[[]string]()

	if _, ok := c.Get("orders"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("orders", []string{"a", "b"})
	got, ok := c.Get("orders")
	if !ok || len(got) != 2 {
		t.Fatalf("expected hit with 2 items, got ok=%v items=%v", ok, got)
	}

	c.Invalidate("orders")
	if _, ok := c.Get("orders"); ok {
		t.Fatal("invalidated tag should miss")
	}
	if c.Size() != 0 {
		t.Fatalf("Size = %d, want 0", c.Size())
	}
}

func TestRegistryInvalidatesByTag(t *testing.T) {
	r := NewRegistry()
	orders := New[int]()
	draws := New[int]()
	Bind(r, orders, "orders", "pendingOrders")
	Bind(r, draws, "draws")

	orders.Set("orders", 1)
	orders.Set("pendingOrders", 2)
	draws.Set("draws", 3)

	r.Invalidate("orders", "unknown-tag")

	if _, ok := orders.Get("orders"); ok {
		t.Fatal("orders cache should be cleared")
	}
	if _, ok := orders.Get("pendingOrders"); ok {
		t.Fatal("clearing by tag drops every entry in the bound cache")
	}
	if _, ok := draws.Get("draws"); !ok {
		t.Fatal("draws cache should survive")
	}
}

func TestCacheClear(t *testing.T) {
	c := New[int]()
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("Size after Clear = %d, want 0", c.Size())
	}
}
