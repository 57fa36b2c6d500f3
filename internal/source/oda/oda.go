package oda

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/Glx28/billigst-mat/internal/model"
)

const pageTimeout = 45 * time.Second

// extractCards pulls every product card's text and product image from
// the rendered page. Certification badge images are skipped.
const extractCards = `
(function() {
	return Array.from(document.querySelectorAll('article')).map(a => {
		let image = '';
		for (const img of a.querySelectorAll('img')) {
			const src = img.getAttribute('src') || '';
			if (src.includes('local_products') || src.includes('product')) {
				image = src;
				break;
			}
		}
		return {text: a.innerText, image: image};
	});
})()
`

// Scraper scrapes Oda listing pages in headless Chrome.
type Scraper struct {
	logger *slog.Logger
}

// NewScraper creates an Oda scraper.
func NewScraper(logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{logger: logger}
}

// ScrapePage loads one listing page and extracts its offers.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) ([]*model.Offer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	scrapeCtx, cancelScrape := context.WithTimeout(browserCtx, pageTimeout)
	defer cancelScrape()

	var cards []card
	err := chromedp.Run(scrapeCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Product cards hydrate after the initial render.
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(extractCards, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("scrape oda page %s: %w", pageURL, err)
	}

	offers := make([]*model.Offer, 0, len(cards))
	for _, c := range cards {
		if o := parseCard(c, pageURL); o != nil {
			offers = append(offers, o)
		}
	}

	s.logger.Info("oda page scraped", "url", pageURL, "offers", len(offers))
	return offers, nil
}

// ScrapePages scrapes multiple listing pages. A failing page is logged
// and skipped.
func (s *Scraper) ScrapePages(ctx context.Context, urls []string) []*model.Offer {
	var all []*model.Offer
	for _, u := range urls {
		offers, err := s.ScrapePage(ctx, u)
		if err != nil {
			s.logger.Error("oda scrape failed", "url", u, "error", err)
			continue
		}
		all = append(all, offers...)
	}
	return all
}
