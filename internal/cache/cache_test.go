package cache

import (
	"testing"

	"github.com/Glx28/billigst-mat/internal/model"
)

func TestPutGetIsolation(t *testing.T) {
	c := New()
	offers := []*model.Offer{
		{Source: model.SourceEtilbudsavis, SourceID: "1", Name: "Kyllingfilet", Price: 49.5, AltURLs: []string{"https://a"}},
	}
	c.Put("kylling", offers)

	// Mutating the caller's slice must not leak into the cache.
	offers[0].Name = "changed"
	offers[0].AltURLs[0] = "https://b"

	got, ok := c.Get("kylling")
	if !ok {
		t.Fatal("Get() miss after Put()")
	}
	if got[0].Name != "Kyllingfilet" || got[0].AltURLs[0] != "https://a" {
		t.Errorf("cache entry mutated through caller slice: %+v", got[0])
	}

	// Mutating a returned snapshot must not leak either.
	got[0].Name = "changed again"
	again, _ := c.Get("kylling")
	if again[0].Name != "Kyllingfilet" {
		t.Errorf("cache entry mutated through snapshot: %q", again[0].Name)
	}
}

func TestGetMiss(t *testing.T) {
	c := New()
	if _, ok := c.Get("melk"); ok {
		t.Error("Get() hit on empty cache")
	}
}

func TestAppend(t *testing.T) {
	c := New()
	c.Put("ost", []*model.Offer{{SourceID: "1", Name: "Norvegia"}})
	c.Append("ost", []*model.Offer{{SourceID: "2", Name: "Jarlsberg"}})

	got, _ := c.Get("ost")
	if len(got) != 2 {
		t.Fatalf("Get() len = %d, want 2", len(got))
	}

	terms := c.Terms()
	if len(terms) != 1 || terms[0] != "ost" {
		t.Errorf("Terms() = %v, want [ost]", terms)
	}
	if _, ok := c.FetchedAt("ost"); !ok {
		t.Error("FetchedAt() miss for stored term")
	}
}
