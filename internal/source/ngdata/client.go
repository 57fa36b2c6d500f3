package ngdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Glx28/billigst-mat/internal/model"
)

// DefaultBaseURL is the production NorgesGruppen platform endpoint.
const DefaultBaseURL = "https://platform-rest-prod.ngdata.no"

var packSizePattern = regexp.MustCompile(`(?i)(\d+)\s*STK`)

// Client fetches category products from the ngdata API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates an ngdata API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// FetchCategory fetches all products for one category facet.
func (c *Client) FetchCategory(ctx context.Context, facet Facet) ([]*model.Offer, error) {
	store, ok := Stores[facet.Domain]
	if !ok {
		return nil, fmt.Errorf("unknown ngdata store %q", facet.Domain)
	}

	params := url.Values{}
	params.Set("page", "1")
	params.Set("page_size", "100")
	params.Set("full_response", "true")
	params.Set("fieldset", "maximal")
	params.Set("facets", "Category,Allergen")
	params.Set("facet", facet.Query)
	params.Set("showNotForSale", "false")

	reqURL := fmt.Sprintf("%s/api/products/%s/%s?%s", c.baseURL, store.ID, store.ProductID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s category: %w", store.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s api status %d", store.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("unmarshal %s response: %w", store.Name, err)
	}

	offers := make([]*model.Offer, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		if o := hit.toOffer(facet); o != nil {
			offers = append(offers, o)
		}
	}

	c.logger.Info("ngdata category fetched",
		"store", store.Name,
		"facet", facet.Query,
		"products", len(offers),
	)
	return offers, nil
}

// FetchURLs resolves configured category URLs to facets and fetches
// each distinct facet once.
func (c *Client) FetchURLs(ctx context.Context, urls []string) ([]*model.Offer, error) {
	var all []*model.Offer
	seen := make(map[string]bool)

	for _, raw := range urls {
		facet, ok := URLToFacet(raw)
		if !ok {
			c.logger.Warn("no facet mapping for url", "url", raw)
			continue
		}
		if seen[facet.Key()] {
			continue
		}
		seen[facet.Key()] = true

		offers, err := c.FetchCategory(ctx, facet)
		if err != nil {
			c.logger.Error("ngdata fetch failed", "store", facet.Store, "error", err)
			continue
		}
		all = append(all, offers...)
	}
	return all, nil
}

func (h productHit) toOffer(facet Facet) *model.Offer {
	src := h.Source

	var name string
	switch {
	case src.Title != "" && src.Subtitle != "":
		name = src.Title + " - " + src.Subtitle
	case src.Subtitle != "":
		name = src.Subtitle
	case src.Title != "":
		name = src.Title
	case src.Brand != "":
		name = src.Brand
	default:
		name = "Unknown"
	}

	price := src.PricePerUnit
	if price <= 0 {
		return nil
	}

	weight := src.Weight
	weightUnit := ""
	if weight > 0 {
		// The API always states weight in kg.
		weightUnit = "kg"
	}

	// pricePerUnit is the item price; comparePricePerUnit is the real
	// per-kg price. When the compare unit is kg, trust it and treat the
	// offer as one kilogram. This handles "pr Kg" items, multi-kg packs
	// and plain weighed items uniformly.
	if src.ComparePricePerUnit > 0 && strings.EqualFold(strings.TrimSpace(src.CompareUnit), "kg") {
		price = src.ComparePricePerUnit
		weight = 1.0
		weightUnit = "kg"
	}

	packSize := 0
	if m := packSizePattern.FindStringSubmatch(src.PackageSize); m != nil {
		packSize, _ = strconv.Atoi(m[1])
	}

	domain := strings.ToLower(facet.Store)
	offerURL := fmt.Sprintf("https://%s.no/varer/%s", domain, h.ID)
	if src.SlugifiedURL != "" {
		offerURL = fmt.Sprintf("https://%s.no%s", domain, src.SlugifiedURL)
	}

	image := ""
	if src.ImagePath != "" {
		image = fmt.Sprintf("https://bilder.ngdata.no/%s/medium.jpg", src.ImagePath)
	}

	return &model.Offer{
		Source:     model.SourceOnlineStore,
		SourceID:   domain + "_" + h.ID,
		Name:       name,
		Price:      price,
		Weight:     weight,
		WeightUnit: weightUnit,
		PackSize:   packSize,
		Store:      facet.Store,
		Category:   src.ShoppingListGroupName,
		URL:        offerURL,
		Image:      image,
	}
}
