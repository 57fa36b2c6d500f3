package etilbudsavis

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Tjek API endpoint.
const DefaultBaseURL = "https://squid-api.tjek.com/v2"

// HoldbartDealerID is the Tjek dealer id for the Holdbart chain.
const HoldbartDealerID = "pR2h9x"

// holdbartRadius covers the whole country; Holdbart ships nationwide.
const holdbartRadius = 200000

// Client provides access to the Tjek catalog API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	lat    float64
	lng    float64
	radius int

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new catalog API client. Search results are scoped
// to the configured location.
func NewClient(apiKey string, lat, lng float64, radius int, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		logger:       slog.Default(),
		lat:          lat,
		lng:          lng,
		radius:       radius,
		maxRetries:   3,
		retryBackoff: time.Second,
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

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
