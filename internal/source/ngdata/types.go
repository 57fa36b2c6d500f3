package ngdata

// searchResponse mirrors the elasticsearch-shaped API response.
type searchResponse struct {
	Hits struct {
		Hits []productHit `json:"hits"`
	} `json:"hits"`
}

type productHit struct {
	ID     string        `json:"_id"`
	Source productSource `json:"_source"`
}

type productSource struct {
	Title                 string  `json:"title"`
	Subtitle              string  `json:"subtitle"`
	Brand                 string  `json:"brand"`
	PricePerUnit          float64 `json:"pricePerUnit"`
	ComparePricePerUnit   float64 `json:"comparePricePerUnit"`
	CompareUnit           string  `json:"compareUnit"`
	Weight                float64 `json:"weight"`
	PackageSize           string  `json:"packageSize"`
	ShoppingListGroupName string  `json:"shoppingListGroupName"`
	SlugifiedURL          string  `json:"slugifiedUrl"`
	ImagePath             string  `json:"imagePath"`
}
