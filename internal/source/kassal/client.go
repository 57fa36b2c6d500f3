package kassal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Glx28/billigst-mat/internal/model"
)

// DefaultBaseURL is the production kassal.app API endpoint.
const DefaultBaseURL = "https://kassal.app/api/v1"

// Client provides access to the kassal.app product API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a kassal.app API client.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
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

type searchResponse struct {
	Data []rawProduct `json:"data"`
}

type rawProduct struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Brand        string       `json:"brand"`
	EAN          string       `json:"ean"`
	URL          string       `json:"url"`
	Image        string       `json:"image"`
	CurrentPrice float64      `json:"current_price"`
	Weight       float64      `json:"weight"`
	WeightUnit   string       `json:"weight_unit"`
	Store        *rawStore    `json:"store"`
	Category     []rawCategory `json:"category"`
}

type rawStore struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type rawCategory struct {
	Name string `json:"name"`
}

// Search queries products by free-text term.
func (c *Client) Search(ctx context.Context, term string, size int) ([]*model.Offer, error) {
	if size <= 0 {
		size = 100
	}

	params := url.Values{}
	params.Set("search", term)
	params.Set("size", strconv.Itoa(size))
	params.Set("sort", "price_asc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/products?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search kassal %q: %w", term, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("kassal api status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("unmarshal kassal response: %w", err)
	}

	offers := make([]*model.Offer, 0, len(sr.Data))
	for _, p := range sr.Data {
		if o := p.toOffer(); o != nil {
			offers = append(offers, o)
		}
	}

	c.logger.Info("kassal search complete", "term", term, "products", len(offers))
	return offers, nil
}

func (p rawProduct) toOffer() *model.Offer {
	if p.CurrentPrice <= 0 || p.Name == "" {
		return nil
	}

	store := ""
	if p.Store != nil {
		store = p.Store.Name
	}

	category := ""
	if len(p.Category) > 0 {
		category = p.Category[len(p.Category)-1].Name
	}

	return &model.Offer{
		Source:     model.SourceKassal,
		SourceID:   strconv.FormatInt(p.ID, 10),
		Name:       p.Name,
		Price:      p.CurrentPrice,
		Weight:     p.Weight,
		WeightUnit: p.WeightUnit,
		Store:      store,
		Category:   category,
		EAN:        p.EAN,
		URL:        p.URL,
		Image:      p.Image,
	}
}
