package etilbudsavis

// RawOffer is an offer as returned by the Tjek v2 API.
type RawOffer struct {
	ID          string      `json:"id"`
	Heading     string      `json:"heading"`
	Description string      `json:"description"`
	CatalogID   string      `json:"catalog_id"`
	RunFrom     string      `json:"run_from"`
	RunTill     string      `json:"run_till"`
	Pricing     RawPricing  `json:"pricing"`
	Quantity    RawQuantity `json:"quantity"`
	Dealer      RawDealer   `json:"dealer"`
	Branding    RawBranding `json:"branding"`
	Images      RawImages   `json:"images"`
}

type RawPricing struct {
	Price    float64  `json:"price"`
	PrePrice *float64 `json:"pre_price"`
	Currency string   `json:"currency"`
}

type RawQuantity struct {
	Unit   RawUnit  `json:"unit"`
	Size   RawRange `json:"size"`
	Pieces RawRange `json:"pieces"`
}

type RawUnit struct {
	Symbol string `json:"symbol"`
	SI     RawSI  `json:"si"`
}

type RawSI struct {
	Symbol string  `json:"symbol"`
	Factor float64 `json:"factor"`
}

type RawRange struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

type RawDealer struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Logo    string      `json:"logo"`
	Markets []RawMarket `json:"markets"`
}

type RawMarket struct {
	Slug string `json:"slug"`
}

type RawBranding struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type RawImages struct {
	View  string `json:"view"`
	Zoom  string `json:"zoom"`
	Thumb string `json:"thumb"`
}

// RawCatalog is a catalog listing entry.
type RawCatalog struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	RunFrom string    `json:"run_from"`
	RunTill string    `json:"run_till"`
	Dealer  RawDealer `json:"dealer"`
}
