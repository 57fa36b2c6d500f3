package kassal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Glx28/billigst-mat/internal/model"
)

var discard = slog.New(slog.DiscardHandler)

func productPage(store string, price string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body>
<div id="price-product-1">
  <img class="h-10 w-10" alt="%s" src="/logo.png">
  <span class="text-green-600">kr %s</span>
</div>
</body></html>`, store, price)
}

func newTestValidator(t *testing.T, handler http.HandlerFunc) *Validator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewValidator(discard, WithValidatorBaseURL(srv.URL))
}

func TestValidateDropsDeadProducts(t *testing.T) {
	v := newTestValidator(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vare/1":
			fmt.Fprint(w, productPage("SPAR", "89,90"))
		case "/vare/2":
			// Page exists but has no price listings.
			fmt.Fprint(w, "<html><body>Produktet er utgått</body></html>")
		case "/vare/3":
			w.WriteHeader(http.StatusNotFound)
		}
	})

	offers := []*model.Offer{
		{Source: model.SourceKassal, SourceID: "1", Name: "Kyllingfilet", Store: "SPAR", Price: 89.90},
		{Source: model.SourceKassal, SourceID: "2", Name: "Død vare", Store: "SPAR", Price: 10},
		{Source: model.SourceKassal, SourceID: "3", Name: "Borte vare", Store: "SPAR", Price: 10},
		{Source: model.SourceEtilbudsavis, SourceID: "e1", Name: "Katalogvare", Store: "KIWI", Price: 5},
	}

	got := v.Validate(context.Background(), offers)
	if len(got) != 2 {
		t.Fatalf("Validate() len = %d, want 2", len(got))
	}
	if got[0].SourceID != "1" || got[1].SourceID != "e1" {
		t.Errorf("survivors = %s, %s, want 1, e1 in order", got[0].SourceID, got[1].SourceID)
	}
}

func TestValidateExcludedStores(t *testing.T) {
	v := newTestValidator(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productPage("KIWI", "20,00"))
	})

	offers := []*model.Offer{
		{Source: model.SourceKassal, SourceID: "1", Name: "Melk", Store: "KIWI", Price: 20},
		{Source: model.SourceKassal, SourceID: "2", Name: "Melk", Store: "Rema 1000", Price: 21},
	}

	if got := v.Validate(context.Background(), offers); len(got) != 0 {
		t.Errorf("Validate() len = %d, want 0 for excluded kassal stores", len(got))
	}
}

func TestValidatePriceCorrection(t *testing.T) {
	v := newTestValidator(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productPage("SPAR", "95,50"))
	})

	o := &model.Offer{
		Source: model.SourceKassal, SourceID: "1",
		Name: "Kyllingfilet", Store: "SPAR",
		Price: 89.90, UnitPrice: 163.45,
	}
	got := v.Validate(context.Background(), []*model.Offer{o})
	if len(got) != 1 {
		t.Fatal("Validate() dropped live product")
	}
	if got[0].Price != 95.50 {
		t.Errorf("Price = %v, want web price 95.50", got[0].Price)
	}
	// A corrected price invalidates the stale unit price.
	if got[0].UnitPrice != 0 {
		t.Errorf("UnitPrice = %v, want cleared", got[0].UnitPrice)
	}
}

func TestValidateRewritesURL(t *testing.T) {
	v := newTestValidator(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productPage("SPAR", "89,90"))
	})

	o := &model.Offer{
		Source: model.SourceKassal, SourceID: "1",
		Name: "Kyllingfilet 550g", Store: "SPAR", Price: 89.90,
		URL: "https://kassal.app/produkter/1",
	}
	got := v.Validate(context.Background(), []*model.Offer{o})
	want := "https://spar.no/sok?query=Kyllingfilet+550g&expanded=products"
	if got[0].URL != want {
		t.Errorf("URL = %q, want %q", got[0].URL, want)
	}
}

func TestBuildSearchURLFallback(t *testing.T) {
	o := &model.Offer{Name: "Egg 12 stk", Store: "Obs Bygg"}
	if got := buildSearchURL(o); got != "" {
		t.Errorf("buildSearchURL() = %q, want empty for unmapped store", got)
	}

	o = &model.Offer{Name: "Egg", Store: "Holdbart Outlet"}
	want := "https://www.holdbart.no/search?q=Egg"
	if got := buildSearchURL(o); got != want {
		t.Errorf("buildSearchURL() = %q, want %q", got, want)
	}
}
