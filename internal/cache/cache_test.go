package cache

import (
	"testing"
	"time"

	"acju-prayer-times/internal/model"
)

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("out.json", model.Document{Version: "1.0"})
	if doc, ok := c.Get("out.json"); !ok || doc.Version != "1.0" {
		t.Fatalf("Get = %+v, %v", doc, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get("out.json"); ok {
		t.Error("entry should have expired")
	}
}

func TestCacheSetRefreshes(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", model.Document{Version: "1.0"})
	c.Set("b", model.Document{})
	now = now.Add(50 * time.Second)
	c.Set("a", model.Document{Version: "1.1"})
	now = now.Add(30 * time.Second)

	if doc, ok := c.Get("a"); !ok || doc.Version != "1.1" {
		t.Errorf("Get(a) = %+v, %v; want refreshed 1.1", doc, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should have expired")
	}
}

func TestCacheDisabled(t *testing.T) {
	c := New(0)
	c.Set("a", model.Document{})
	if _, ok := c.Get("a"); ok {
		t.Error("zero ttl must not cache")
	}
}
