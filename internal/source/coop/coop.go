package coop

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/Glx28/billigst-mat/internal/model"
)

// BaseURL is the weekly offers listing endpoint.
const BaseURL = "https://www.coop.no/Weekly_offers_listing_page"

// Chains maps the chain query parameter to its display name.
var Chains = map[string]string{
	"extra":     "Extra",
	"coop-mega": "Coop Mega",
	"coop-prix": "Coop Prix",
	"obs":       "Obs",
}

// chainOrder keeps scraping deterministic.
var chainOrder = []string{"extra", "coop-mega", "coop-prix", "obs"}

// Scraper fetches weekly offers from all Coop chains.
type Scraper struct {
	Collector *colly.Collector
	BaseURL   string
	logger    *slog.Logger
}

// NewScraper creates a Coop scraper.
func NewScraper(logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	c := colly.NewCollector(
		colly.AllowedDomains("www.coop.no", "coop.no"),
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
	)
	return &Scraper{
		Collector: c,
		BaseURL:   BaseURL,
		logger:    logger,
	}
}

// ScrapeChain fetches the weekly offers for one chain.
func (s *Scraper) ScrapeChain(chain string) ([]*model.Offer, error) {
	store, ok := Chains[chain]
	if !ok {
		return nil, fmt.Errorf("unknown coop chain %q", chain)
	}

	var offers []*model.Offer

	collector := s.Collector.Clone()
	collector.OnHTML("article", func(e *colly.HTMLElement) {
		html, err := e.DOM.Html()
		if err != nil {
			return
		}
		if o := parseArticle(html, store, s.logger); o != nil {
			offers = append(offers, o)
		}
	})

	url := fmt.Sprintf("%s?chain=%s", s.BaseURL, chain)
	if err := collector.Visit(url); err != nil {
		return nil, fmt.Errorf("scrape coop %s: %w", store, err)
	}
	collector.Wait()

	s.logger.Info("coop chain scraped", "store", store, "offers", len(offers))
	return offers, nil
}

// ScrapeAll fetches weekly offers from every chain. A failing chain is
// logged and skipped so one outage does not lose the others.
func (s *Scraper) ScrapeAll() []*model.Offer {
	var all []*model.Offer
	for _, chain := range chainOrder {
		offers, err := s.ScrapeChain(chain)
		if err != nil {
			s.logger.Error("coop scrape failed", "chain", chain, "error", err)
			continue
		}
		all = append(all, offers...)
	}
	return all
}

func storeSlug(store string) string {
	return strings.ReplaceAll(strings.ToLower(store), " ", "-")
}
