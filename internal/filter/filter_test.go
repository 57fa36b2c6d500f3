package filter

import (
	"log/slog"
	"testing"

	"github.com/Glx28/billigst-mat/internal/config"
	"github.com/Glx28/billigst-mat/internal/model"
)

var discard = slog.New(slog.DiscardHandler)

func TestMatchesGroup(t *testing.T) {
	group := config.GroupConfig{
		Name:            "chicken",
		IncludeAny:      []string{"kylling", "chicken"},
		Exclude:         []string{"vinger", "nuggets"},
		ExcludeCategory: []string{"pålegg"},
	}

	tests := []struct {
		name  string
		offer *model.Offer
		want  bool
	}{
		{"include match", &model.Offer{Name: "Kyllingfilet 1kg"}, true},
		{"case insensitive", &model.Offer{Name: "FIRST PRICE KYLLING"}, true},
		{"no include match", &model.Offer{Name: "Svinekoteletter"}, false},
		{"exclude beats include", &model.Offer{Name: "Kyllingvinger BBQ"}, false},
		{"exclude term nuggets", &model.Offer{Name: "Chicken nuggets"}, false},
		{"category exclude", &model.Offer{Name: "Kylling ovnsbakt", Category: "Pålegg"}, false},
		{"category include fallback", &model.Offer{Name: "Filet naturell", Category: "Kylling og fjærkre"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesGroup(tt.offer, group, discard); got != tt.want {
				t.Errorf("MatchesGroup(%q) = %v, want %v", tt.offer.Name, got, tt.want)
			}
		})
	}
}

func TestMatchesGroupNoIncludes(t *testing.T) {
	group := config.GroupConfig{Name: "anything", Exclude: []string{"tobakk"}}
	if !MatchesGroup(&model.Offer{Name: "Helt vanlig vare"}, group, discard) {
		t.Error("offer rejected despite empty include list")
	}
}

func TestIsExcludedStore(t *testing.T) {
	tests := []struct {
		store string
		want  bool
	}{
		{"Bunnpris", true},
		{"Nærbutikken Hausmanns gate", true},
		{"SPAR", false},
		{"", false},
		{"Biltema Alnabru", true},
	}
	for _, tt := range tests {
		if got := IsExcludedStore(tt.store); got != tt.want {
			t.Errorf("IsExcludedStore(%q) = %v, want %v", tt.store, got, tt.want)
		}
	}
}

func TestIsExcludedKassalStore(t *testing.T) {
	// Coop chains are blocked for kassal but not globally.
	if !IsExcludedKassalStore("Coop Mega") {
		t.Error("IsExcludedKassalStore(Coop Mega) = false")
	}
	if IsExcludedStore("Coop Mega") {
		t.Error("IsExcludedStore(Coop Mega) = true, coop is kassal-only")
	}
	if IsExcludedKassalStore("Meny") {
		t.Error("IsExcludedKassalStore(Meny) = true")
	}
}

func TestApplyDropsExcludedStores(t *testing.T) {
	group := config.GroupConfig{Name: "chicken", IncludeAny: []string{"kylling"}}
	offers := []*model.Offer{
		{Name: "Kyllingfilet", Store: "SPAR"},
		{Name: "Kyllingfilet", Store: "Bunnpris"},
		{Name: "Kyllinglår", Store: "Meny"},
	}

	got := Apply(offers, group, discard)
	if len(got) != 2 {
		t.Fatalf("Apply() len = %d, want 2", len(got))
	}
	if got[0].Store != "SPAR" || got[1].Store != "Meny" {
		t.Errorf("Apply() order = %s, %s, want SPAR, Meny", got[0].Store, got[1].Store)
	}
}
