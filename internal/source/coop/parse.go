package coop

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
)

var (
	namePattern        = regexp.MustCompile(`href="/Weekly_offers_listing_page\?chain=[^&]+&(?:amp;)?id=(\d+)">([^<]+)</a>`)
	percentOnlyPattern = regexp.MustCompile(`-\d+%`)
	anyPricePattern    = regexp.MustCompile(`<div[^>]*>\d{1,4}</div>`)
	unitPricePattern   = regexp.MustCompile(`Pr (\w+) ([\d,.]+)`)
	splitPricePattern  = regexp.MustCompile(`<div[^>]*>(\d{1,4})</div>\s*(?:<style[^>]*>[^<]*</style>\s*)?<div[^>]*>(\d{2})</div>`)
	singlePricePattern = regexp.MustCompile(`<div[^>]*>(\d{1,4})</div>\s*</div>`)
	nForPattern        = regexp.MustCompile(`(\d+)\s+for\s+(\d+)`)
	imagePattern       = regexp.MustCompile(`src="(https://cdcimg\.coop\.no/[^"]+)"`)
	weightPattern      = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|g|l|dl|ml|cl)\b`)
)

var weightToBase = map[string]float64{
	"g": 0.001, "kg": 1,
	"ml": 0.001, "cl": 0.01, "dl": 0.1, "l": 1,
}

// parseArticle extracts one offer from an article's inner HTML.
// Returns nil when the article has no identifiable product or no
// usable price.
func parseArticle(html, store string, logger *slog.Logger) *model.Offer {
	nameMatch := namePattern.FindStringSubmatch(html)
	if nameMatch == nil {
		return nil
	}
	ean := nameMatch[1]
	name := strings.TrimSpace(nameMatch[2])
	name = strings.ReplaceAll(name, "&amp;", "&")
	name = strings.ReplaceAll(name, "&#x27;", "'")
	name = strings.ReplaceAll(name, "&#39;", "'")

	// The price block sits before the first h3.
	priceSection := html
	if idx := strings.Index(html, "<h3"); idx > 0 {
		priceSection = html[:idx]
	}
	if percentOnlyPattern.MatchString(priceSection) && !anyPricePattern.MatchString(priceSection) {
		logger.Debug("coop offer skipped, percent-only discount", "store", store, "name", name)
		return nil
	}

	unitMatch := unitPricePattern.FindStringSubmatch(html)
	if unitMatch == nil {
		return nil
	}
	unitType := strings.ToLower(unitMatch[1])
	unitPrice, err := strconv.ParseFloat(strings.ReplaceAll(unitMatch[2], ",", "."), 64)
	if err != nil {
		return nil
	}

	baseUnit := unitType
	switch unitType {
	case "kg":
		baseUnit = string(model.UnitKilogram)
	case "l":
		baseUnit = string(model.UnitLiter)
	case "stk":
		baseUnit = string(model.UnitPiece)
	}

	// Kroner and øre render as adjacent divs ("129" "90"). Fall back to
	// a whole-krone div when there is no øre part.
	var price float64
	if m := splitPricePattern.FindStringSubmatch(priceSection); m != nil {
		price, _ = strconv.ParseFloat(m[1]+"."+m[2], 64)
	} else if m := singlePricePattern.FindStringSubmatch(priceSection); m != nil {
		price, _ = strconv.ParseFloat(m[1], 64)
	}

	var promos []string
	if m := nForPattern.FindStringSubmatch(html); m != nil {
		promos = append(promos, fmt.Sprintf("%s for %s", m[1], m[2]))
	}

	image := ""
	if m := imagePattern.FindStringSubmatch(html); m != nil {
		image = strings.ReplaceAll(m[1], "&amp;", "&")
	}

	var weight float64
	var weightUnit string
	if m := weightPattern.FindStringSubmatch(name); m != nil {
		val, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err == nil {
			unit := strings.ToLower(m[2])
			weight = val * weightToBase[unit]
			switch unit {
			case "g", "kg":
				weightUnit = "kg"
			case "ml", "cl", "dl", "l":
				weightUnit = "l"
			default:
				weightUnit = unit
			}
		}
	}

	slug := storeSlug(store)
	return &model.Offer{
		Source:     model.SourceCoop,
		SourceID:   fmt.Sprintf("coop_%s_%s", strings.ReplaceAll(strings.ToLower(store), " ", "_"), ean),
		Name:       name,
		Price:      price,
		UnitPrice:  unitPrice,
		BaseUnit:   baseUnit,
		Weight:     weight,
		WeightUnit: weightUnit,
		Store:      store,
		EAN:        ean,
		URL:        fmt.Sprintf("%s?chain=%s&id=%s", BaseURL, slug, ean),
		Image:      image,
		Promos:     promos,
	}
}
