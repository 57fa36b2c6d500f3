package kassal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Glx28/billigst-mat/internal/filter"
	"github.com/Glx28/billigst-mat/internal/model"
)

// maxConcurrentChecks caps parallel page fetches against kassal.app.
const maxConcurrentChecks = 15

// storeSearchURLs maps chains to their site search, with %s taking the
// query. Direct kassal.app product links go stale quickly; a search
// link on the store's own site stays useful.
var storeSearchURLs = map[string]string{
	"spar":     "https://spar.no/sok?query=%s&expanded=products",
	"meny":     "https://meny.no/sok?query=%s&expanded=products",
	"joker":    "https://joker.no/sok?query=%s&expanded=products",
	"holdbart": "https://www.holdbart.no/search?q=%s",
	"europris": "https://www.europris.no/search?q=%s",
}

var priceTextPattern = regexp.MustCompile(`kr\s*([\d.,]+)`)

// Validator checks kassal products against their kassal.app pages.
type Validator struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// NewValidator creates a liveness validator.
func NewValidator(logger *slog.Logger, opts ...ValidatorOption) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Validator{
		baseURL: "https://kassal.app",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithValidatorBaseURL overrides the kassal.app site root.
func WithValidatorBaseURL(u string) ValidatorOption {
	return func(v *Validator) {
		v.baseURL = u
	}
}

// WithValidatorHTTPClient sets a custom HTTP client.
func WithValidatorHTTPClient(hc *http.Client) ValidatorOption {
	return func(v *Validator) {
		v.httpClient = hc
	}
}

// Validate filters kassal offers down to those with an active price
// listing on kassal.app. Offers from other sources pass through
// untouched and the overall order is preserved.
//
// For surviving offers the page price overrides a diverging API price,
// and the link is rewritten to a store search URL.
func (v *Validator) Validate(ctx context.Context, offers []*model.Offer) []*model.Offer {
	type slot struct {
		offer *model.Offer
		check bool
	}

	slots := make([]slot, 0, len(offers))
	checked := 0
	for _, o := range offers {
		if o.Source != model.SourceKassal {
			slots = append(slots, slot{offer: o})
			continue
		}
		if filter.IsExcludedKassalStore(o.Store) {
			v.logger.Debug("kassal store excluded", "store", o.Store, "name", o.Name)
			continue
		}
		slots = append(slots, slot{offer: o, check: true})
		checked++
	}
	if checked == 0 {
		result := make([]*model.Offer, 0, len(slots))
		for _, s := range slots {
			result = append(result, s.offer)
		}
		return result
	}

	alive := make([]bool, len(slots))
	sem := make(chan struct{}, maxConcurrentChecks)
	var wg sync.WaitGroup

	for i := range slots {
		if !slots[i].check {
			alive[i] = true
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			alive[i] = v.checkOne(ctx, slots[i].offer)
		}(i)
	}
	wg.Wait()

	result := make([]*model.Offer, 0, len(slots))
	dropped := 0
	for i, s := range slots {
		if alive[i] {
			result = append(result, s.offer)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		v.logger.Info("kassal items without active prices removed", "dropped", dropped)
	}
	return result
}

// checkOne fetches the product page and reports whether the product is
// alive. Live offers are updated in place.
func (v *Validator) checkOne(ctx context.Context, o *model.Offer) bool {
	if o.SourceID == "" {
		return false
	}
	pageURL := v.baseURL + "/vare/" + o.SourceID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", "billigst-mat/1.0")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Debug("kassal check failed", "url", pageURL, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		v.logger.Debug("dead kassal page", "status", resp.StatusCode, "url", pageURL)
		return false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}

	// No price listings at all means the product is dead.
	if !strings.Contains(string(body), "price-product-") {
		v.logger.Debug("no prices on kassal page", "name", o.Name, "url", pageURL)
		return false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return false
	}

	itemStore := strings.ToLower(strings.TrimSpace(o.Store))
	for listedStore, webPrice := range parseStorePrices(doc) {
		if listedStore == itemStore ||
			strings.Contains(itemStore, listedStore) ||
			strings.Contains(listedStore, itemStore) {
			if o.Price > 0 && math.Abs(webPrice-o.Price) > 0.01 {
				v.logger.Info("kassal price corrected",
					"name", o.Name,
					"store", o.Store,
					"api_price", o.Price,
					"web_price", webPrice,
				)
				o.Price = webPrice
				o.UnitPrice = 0
			}
			break
		}
	}

	if search := buildSearchURL(o); search != "" {
		o.URL = search
	} else {
		o.URL = pageURL
	}
	return true
}

// parseStorePrices extracts store name to listed price pairs from the
// price listing blocks on a product page.
func parseStorePrices(doc *goquery.Document) map[string]float64 {
	prices := make(map[string]float64)
	doc.Find(`[id^="price-product-"]`).Each(func(_ int, block *goquery.Selection) {
		store := strings.ToLower(strings.TrimSpace(block.Find("img.h-10.w-10").AttrOr("alt", "")))
		if store == "" {
			return
		}
		text := block.Find(".text-green-600, .text-rose-600").First().Text()
		m := priceTextPattern.FindStringSubmatch(text)
		if m == nil {
			return
		}
		if p, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(m[1]), ",", "."), 64); err == nil {
			prices[store] = p
		}
	})
	return prices
}

// buildSearchURL builds a store site search link for the offer.
func buildSearchURL(o *model.Offer) string {
	if o.Name == "" {
		return ""
	}
	store := strings.ToLower(strings.TrimSpace(o.Store))
	q := url.QueryEscape(o.Name)

	if tmpl, ok := storeSearchURLs[store]; ok {
		return fmt.Sprintf(tmpl, q)
	}
	if store == "" {
		return ""
	}
	for key, tmpl := range storeSearchURLs {
		if strings.Contains(store, key) || strings.Contains(key, store) {
			return fmt.Sprintf(tmpl, q)
		}
	}
	return ""
}
