package rank

import (
	"testing"

	"github.com/Glx28/billigst-mat/internal/model"
)

func offer(name string, unitPrice float64) *model.Offer {
	return &model.Offer{
		Name:                name,
		NormalizedUnitPrice: unitPrice,
		TargetUnit:          model.UnitKilogram,
	}
}

func TestRankSortsAscending(t *testing.T) {
	offers := []*model.Offer{
		offer("C", 120),
		offer("A", 50),
		offer("B", 80),
	}

	got := Rank(offers, 3)
	want := []string{"A", "B", "C"}
	for i, w := range want {
		if got[i].Name != w {
			t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, w)
		}
	}
}

func TestRankTruncates(t *testing.T) {
	offers := []*model.Offer{
		offer("C", 120),
		offer("A", 50),
		offer("B", 80),
	}

	if got := Rank(offers, 2); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestRankStableTies(t *testing.T) {
	offers := []*model.Offer{
		offer("first", 50),
		offer("second", 50),
		offer("third", 50),
	}

	got := Rank(offers, 3)
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got[i].Name != w {
			t.Errorf("got[%d].Name = %q, want %q (ties keep input order)", i, got[i].Name, w)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	offers := []*model.Offer{
		offer("C", 120),
		offer("A", 50),
	}

	Rank(offers, 2)
	if offers[0].Name != "C" {
		t.Errorf("input slice reordered, offers[0] = %q", offers[0].Name)
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil, 5); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestRankFewerThanTopN(t *testing.T) {
	offers := []*model.Offer{offer("A", 10)}
	if got := Rank(offers, 5); len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}
