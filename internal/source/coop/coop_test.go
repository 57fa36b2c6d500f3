package coop

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

var discard = slog.New(slog.DiscardHandler)

const listingHTML = `
<!DOCTYPE html>
<html>
<body>
<article>
  <div class="price">
    <div>129</div>
    <div>90</div>
  </div>
  <h3><a href="/Weekly_offers_listing_page?chain=extra&amp;id=7039610000318">Kyllingfilet 1000g</a></h3>
  <p>Pr kg 129,90</p>
  <img src="https://cdcimg.coop.no/rte/7039610000318.png">
</article>
<article>
  <div class="price">
    <div>-40%</div>
  </div>
  <h3><a href="/Weekly_offers_listing_page?chain=extra&amp;id=111">Prosentvare</a></h3>
  <p>Pr kg 99,00</p>
</article>
<article>
  <div class="price">
    <div>25</div>
  </div>
  <h3><a href="/Weekly_offers_listing_page?chain=extra&amp;id=222">Egg 12 stk</a></h3>
  <p>3 for 60</p>
  <p>Pr stk 2,08</p>
</article>
<article>
  <h3><a href="/Weekly_offers_listing_page?chain=extra&amp;id=333">Uten enhetspris</a></h3>
</article>
</body>
</html>
`

func TestScrapeChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("chain"); got != "extra" {
			t.Errorf("chain = %q, want extra", got)
		}
		fmt.Fprint(w, listingHTML)
	}))
	defer srv.Close()

	s := NewScraper(discard)
	s.BaseURL = srv.URL
	s.Collector.AllowedDomains = nil

	offers, err := s.ScrapeChain("extra")
	if err != nil {
		t.Fatalf("ScrapeChain() error = %v", err)
	}
	// Percent-only and no-unit-price articles are skipped.
	if len(offers) != 2 {
		t.Fatalf("ScrapeChain() len = %d, want 2", len(offers))
	}

	filet := offers[0]
	if filet.Name != "Kyllingfilet 1000g" {
		t.Errorf("Name = %q", filet.Name)
	}
	if filet.Price != 129.90 {
		t.Errorf("Price = %v, want 129.90 from split divs", filet.Price)
	}
	if filet.UnitPrice != 129.90 || filet.BaseUnit != "kilogram" {
		t.Errorf("unit price = %v %q, want 129.90 kilogram", filet.UnitPrice, filet.BaseUnit)
	}
	if filet.EAN != "7039610000318" {
		t.Errorf("EAN = %q", filet.EAN)
	}
	// 1000g in the name converts to 1 kg.
	if filet.Weight != 1.0 || filet.WeightUnit != "kg" {
		t.Errorf("weight = %v %q, want 1 kg", filet.Weight, filet.WeightUnit)
	}
	if filet.Image != "https://cdcimg.coop.no/rte/7039610000318.png" {
		t.Errorf("Image = %q", filet.Image)
	}
	if filet.Store != "Extra" {
		t.Errorf("Store = %q", filet.Store)
	}

	egg := offers[1]
	if egg.Price != 25 {
		t.Errorf("Price = %v, want 25 from single div", egg.Price)
	}
	if egg.BaseUnit != "piece" {
		t.Errorf("BaseUnit = %q, want piece", egg.BaseUnit)
	}
	if len(egg.Promos) != 1 || egg.Promos[0] != "3 for 60" {
		t.Errorf("Promos = %v, want [3 for 60]", egg.Promos)
	}
}

func TestScrapeChainUnknown(t *testing.T) {
	s := NewScraper(discard)
	if _, err := s.ScrapeChain("rimi"); err == nil {
		t.Error("ScrapeChain(rimi) error = nil, want unknown chain error")
	}
}
