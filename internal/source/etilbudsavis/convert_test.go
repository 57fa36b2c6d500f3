package etilbudsavis

import (
	"reflect"
	"testing"

	"github.com/Glx28/billigst-mat/internal/model"
)

func TestToOfferWeightBased(t *testing.T) {
	raw := RawOffer{
		ID:      "o1",
		Heading: " Kyllingfilet ",
		Pricing: RawPricing{Price: 86},
		Quantity: RawQuantity{
			Unit:   RawUnit{Symbol: "g", SI: RawSI{Symbol: "kg", Factor: 0.001}},
			Size:   RawRange{From: 400},
			Pieces: RawRange{From: 2},
		},
		Dealer:    RawDealer{Name: "KIWI", Markets: []RawMarket{{Slug: "kiwi"}}},
		CatalogID: "cat-9",
	}

	o := ToOffer(raw)
	if o == nil {
		t.Fatal("ToOffer() = nil")
	}
	if o.Source != model.SourceEtilbudsavis || o.SourceID != "o1" {
		t.Errorf("identity = %s:%s", o.Source, o.SourceID)
	}
	if o.Name != "Kyllingfilet" {
		t.Errorf("Name = %q, want trimmed", o.Name)
	}
	// 86 kr for 2x400g = 107.50 kr/kg.
	if o.UnitPrice != 107.50 {
		t.Errorf("UnitPrice = %v, want 107.50", o.UnitPrice)
	}
	if o.BaseUnit != "kilogram" {
		t.Errorf("BaseUnit = %q, want kilogram", o.BaseUnit)
	}
	want := "https://etilbudsavis.no/kiwi?publication=cat-9&offer=o1"
	if o.URL != want {
		t.Errorf("URL = %q, want %q", o.URL, want)
	}
}

func TestToOfferPieceBased(t *testing.T) {
	raw := RawOffer{
		ID:      "egg",
		Heading: "Egg frittgående",
		Pricing: RawPricing{Price: 36},
		Quantity: RawQuantity{
			Unit:   RawUnit{Symbol: "pcs", SI: RawSI{Symbol: "pcs", Factor: 1}},
			Size:   RawRange{From: 12},
			Pieces: RawRange{From: 1},
		},
	}

	o := ToOffer(raw)
	if o == nil {
		t.Fatal("ToOffer() = nil")
	}
	if o.PackSize != 12 {
		t.Errorf("PackSize = %d, want 12 from piece size", o.PackSize)
	}
	if o.UnitPrice != 3 {
		t.Errorf("UnitPrice = %v, want 3 kr per egg", o.UnitPrice)
	}
	if o.BaseUnit != "piece" {
		t.Errorf("BaseUnit = %q, want piece", o.BaseUnit)
	}
	if o.Store != "Ukjent" {
		t.Errorf("Store = %q, want Ukjent fallback", o.Store)
	}
}

func TestToOfferDescriptionFallback(t *testing.T) {
	raw := RawOffer{
		ID:          "d1",
		Heading:     "Laksefilet",
		Description: "Fersk laks, 145,63 pr. kg",
		Pricing:     RawPricing{Price: 99},
	}

	o := ToOffer(raw)
	if o == nil {
		t.Fatal("ToOffer() = nil")
	}
	if o.UnitPrice != 145.63 {
		t.Errorf("UnitPrice = %v, want 145.63 from description", o.UnitPrice)
	}
	if o.BaseUnit != "kilogram" {
		t.Errorf("BaseUnit = %q, want kilogram", o.BaseUnit)
	}
}

func TestToOfferNoPrice(t *testing.T) {
	if o := ToOffer(RawOffer{ID: "x", Heading: "Gratis smaksprøve"}); o != nil {
		t.Errorf("ToOffer() = %+v, want nil for unpriced offer", o)
	}
}

func TestDetectPromos(t *testing.T) {
	pre := 59.0
	tests := []struct {
		name string
		raw  RawOffer
		want []string
	}{
		{
			"pre price",
			RawOffer{Pricing: RawPricing{Price: 39, PrePrice: &pre}},
			[]string{"Før 59 kr"},
		},
		{
			"three for two",
			RawOffer{Heading: "Norvegia 3 for 2", Pricing: RawPricing{Price: 89}},
			[]string{"3 for 2"},
		},
		{
			"two for amount",
			RawOffer{Description: "Nå 2 for 50", Pricing: RawPricing{Price: 25}},
			[]string{"2 for ..."},
		},
		{
			"spar amount",
			RawOffer{Description: "Spar kr 20 på favoritten", Pricing: RawPricing{Price: 49}},
			[]string{"Spar 20 kr"},
		},
		{
			"spar percent",
			RawOffer{Description: "Spar 25 % denne uken", Pricing: RawPricing{Price: 49}},
			[]string{"Spar 25%"},
		},
		{
			"member discount",
			RawOffer{Description: "Medlemspris hos Trumf", Pricing: RawPricing{Price: 30}},
			[]string{"Medlemsrabatt"},
		},
		{
			"minus percent",
			RawOffer{Heading: "Grandiosa -40%", Pricing: RawPricing{Price: 35}},
			[]string{"-40%"},
		},
		{
			"no promos",
			RawOffer{Heading: "Vanlig vare", Pricing: RawPricing{Price: 10}},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectPromos(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("detectPromos() = %v, want %v", got, tt.want)
			}
		})
	}
}
