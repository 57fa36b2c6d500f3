package ngdata

import (
	"net/url"
	"strings"
)

// Store holds the API identifiers for one NorgesGruppen chain.
type Store struct {
	ID        string // Chain store id in the API path
	ProductID string // Any valid product id, required by the API path
	Name      string // Display name used on offers
}

// Stores maps website domains to their API identity.
var Stores = map[string]Store{
	"meny.no":  {ID: "1300", ProductID: "7080001150488", Name: "MENY"},
	"spar.no":  {ID: "1210", ProductID: "7080001097950", Name: "SPAR"},
	"joker.no": {ID: "1220", ProductID: "7080001215606", Name: "JOKER"},
}

// Slug maps translate the last URL path segment of a category page to
// the facet string the API expects. Built from each store's
// /api/categories endpoint; the category trees differ slightly per chain.
var menySlugMap = map[string]string{
	"egg":                 "Categories:Meieri & egg;ShoppingListGroups:Egg",
	"melk":                "Categories:Meieri & egg;ShoppingListGroups:Melk",
	"helmelk":             "Categories:Meieri & egg;ShoppingListGroups:Melk",
	"lettmelk":            "Categories:Meieri & egg;ShoppingListGroups:Melk",
	"kylling":             "Categories:Kylling og fjærkre;ShoppingListGroups:Kylling",
	"kyllingfilet":        "Categories:Kylling og fjærkre;ShoppingListGroups:Kylling",
	"kyllinglar":          "Categories:Kylling og fjærkre;ShoppingListGroups:Kylling",
	"kylling-og-fjaerkre": "Categories:Kylling og fjærkre",
	"kjottdeig-og-farse":  "Categories:Kjøtt;ShoppingListGroups:Kjøttdeig og farse",
	"svinekjott":          "Categories:Kjøtt;ShoppingListGroups:Svinekjøtt",
	"fisk":                "Categories:Fisk & skalldyr;ShoppingListGroups:Fisk",
	"laks":                "Categories:Fisk & skalldyr;ShoppingListGroups:Fisk",
}

var sparSlugMap = map[string]string{
	"egg":                 "Categories:Meieri og egg;ShoppingListGroups:Egg",
	"melk":                "Categories:Meieri og egg;ShoppingListGroups:Melk",
	"kylling-og-fjaerkre": "Categories:Kylling og fjærkre",
	"kylling":             "Categories:Kylling og fjærkre;ShoppingListGroups:Kylling",
	"kjottdeig-og-farse":  "Categories:Kjøtt;ShoppingListGroups:Kjøttdeig og farse",
	"svinekjott":          "Categories:Kjøtt;ShoppingListGroups:Svinekjøtt",
	"fisk":                "Categories:Fisk og skalldyr;ShoppingListGroups:Fisk",
}

var jokerSlugMap = map[string]string{
	"egg":                 "Categories:Meieriprodukter;ShoppingListGroups:Egg",
	"melk":                "Categories:Meieriprodukter;ShoppingListGroups:Melk",
	"kylling-og-fjaerkre": "Categories:Kylling og fjærkre",
	"kylling":             "Categories:Kylling og fjærkre;ShoppingListGroups:Kylling",
	"kjottdeig-og-farse":  "Categories:Kjøtt;ShoppingListGroups:Kjøttdeig og farse",
	"svinekjott":          "Categories:Kjøtt;ShoppingListGroups:Svinekjøtt",
	"fisk":                "Categories:Fisk/Skalldyr;ShoppingListGroups:Fisk",
}

var slugMaps = map[string]map[string]string{
	"meny.no":  menySlugMap,
	"spar.no":  sparSlugMap,
	"joker.no": jokerSlugMap,
}

// Facet is a resolved category request.
type Facet struct {
	Domain string // Store domain ("meny.no")
	Store  string // Display name for offers
	Query  string // API facet string
}

// Key identifies a facet for per-run request dedup.
func (f Facet) Key() string {
	return f.Domain + "|" + f.Query
}

// URLToFacet resolves a category page URL to an API facet. Path
// segments are tried from most to least specific, so
// "meny.no/varer/meieri-egg/egg" resolves via the "egg" slug.
func URLToFacet(rawURL string) (Facet, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Facet{}, false
	}

	domain := strings.TrimPrefix(parsed.Hostname(), "www.")
	store, ok := Stores[domain]
	if !ok {
		return Facet{}, false
	}

	slugMap := slugMaps[domain]
	segments := strings.Split(strings.TrimRight(parsed.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || seg == "varer" {
			continue
		}
		if facet, ok := slugMap[seg]; ok {
			return Facet{Domain: domain, Store: store.Name, Query: facet}, true
		}
	}

	return Facet{}, false
}
