package etilbudsavis

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
)

var (
	descUnitPricePattern = regexp.MustCompile(`(?i)(\d+(?:[,.]\d+)?)\s*(?:pr\.?\s*kg|kr/kg)`)
	twoForPattern        = regexp.MustCompile(`\b2\s+for\s+\d`)
	sparAmountPattern    = regexp.MustCompile(`spar\s+(?:kr\.?\s*|fra\s+kr\.?\s*)([\d,.]+)`)
	sparDigitPattern     = regexp.MustCompile(`spar\s+\d`)
	sparPercentPattern   = regexp.MustCompile(`spar\s+([\d,.]+)\s*%`)
	minusPercentPattern  = regexp.MustCompile(`-(\d+)%`)
)

// ToOffer converts a raw catalog offer into the shared offer model.
// Returns nil when the offer has no price.
func ToOffer(raw RawOffer) *model.Offer {
	if raw.Pricing.Price <= 0 {
		return nil
	}

	unitSymbol := strings.ToLower(strings.TrimSpace(raw.Quantity.Unit.Symbol))

	// Use the upper bound when the size is a range.
	weight := raw.Quantity.Size.From
	if raw.Quantity.Size.To > 0 {
		weight = raw.Quantity.Size.To
	}

	packSize := int(raw.Quantity.Pieces.From)

	// For piece-based offers the size is the piece count itself,
	// e.g. eggs: unit=pcs, size=6.
	if isPieceUnit(unitSymbol) && weight > 0 {
		packSize = int(weight)
	}

	// Unit price in SI terms (kr per kg or kr per liter).
	var unitPrice float64
	baseUnit := mapBaseUnit(unitSymbol)
	if weight > 0 && unitSymbol != "" {
		siFactor := raw.Quantity.Unit.SI.Factor
		if siFactor == 0 {
			siFactor = 1
		}
		pieces := raw.Quantity.Pieces.From
		if pieces == 0 {
			pieces = 1
		}
		if total := weight * siFactor * pieces; total > 0 {
			unitPrice = raw.Pricing.Price / total
		}
	}

	// Some offers only state the unit price in the description,
	// like "145,63 pr. kg".
	if unitPrice == 0 {
		if m := descUnitPricePattern.FindStringSubmatch(raw.Description); m != nil {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
				unitPrice = v
				baseUnit = string(model.UnitKilogram)
			}
		}
	}

	store := raw.Dealer.Name
	if store == "" {
		store = raw.Branding.Name
	}
	if store == "" {
		store = "Ukjent"
	}

	image := raw.Images.View
	if image == "" {
		image = raw.Images.Thumb
	}

	var offerURL string
	if len(raw.Dealer.Markets) > 0 && raw.Dealer.Markets[0].Slug != "" && raw.CatalogID != "" && raw.ID != "" {
		offerURL = fmt.Sprintf("https://etilbudsavis.no/%s?publication=%s&offer=%s",
			raw.Dealer.Markets[0].Slug, raw.CatalogID, raw.ID)
	}

	o := &model.Offer{
		Source:     model.SourceEtilbudsavis,
		SourceID:   raw.ID,
		Name:       strings.TrimSpace(raw.Heading),
		Price:      raw.Pricing.Price,
		Weight:     weight,
		WeightUnit: unitSymbol,
		PackSize:   packSize,
		UnitPrice:  round2(unitPrice),
		BaseUnit:   baseUnit,
		Store:      store,
		URL:        offerURL,
		Image:      image,
		Promos:     detectPromos(raw),
	}

	if from, err := parseTime(raw.RunFrom); err == nil {
		o.ValidFrom = from
	}
	if till, err := parseTime(raw.RunTill); err == nil {
		o.ValidUntil = till
	}

	return o
}

// ToOffers converts a batch, dropping unpriced entries.
func ToOffers(raws []RawOffer) []*model.Offer {
	offers := make([]*model.Offer, 0, len(raws))
	for _, raw := range raws {
		if o := ToOffer(raw); o != nil {
			offers = append(offers, o)
		}
	}
	return offers
}

// detectPromos extracts promotion labels from the offer text.
func detectPromos(raw RawOffer) []string {
	combined := strings.ToLower(raw.Description) + " " + strings.ToLower(raw.Heading)

	var promos []string
	if raw.Pricing.PrePrice != nil {
		promos = append(promos, fmt.Sprintf("Før %.0f kr", *raw.Pricing.PrePrice))
	}
	if strings.Contains(combined, "3 for 2") || strings.Contains(combined, "3for2") {
		promos = append(promos, "3 for 2")
	}
	if twoForPattern.MatchString(combined) {
		promos = append(promos, "2 for ...")
	}
	switch {
	case strings.Contains(combined, "spar kr") || strings.Contains(combined, "spar fra"):
		if m := sparAmountPattern.FindStringSubmatch(combined); m != nil {
			promos = append(promos, fmt.Sprintf("Spar %s kr", m[1]))
		} else {
			promos = append(promos, "Spar")
		}
	case sparDigitPattern.MatchString(combined):
		if m := sparPercentPattern.FindStringSubmatch(combined); m != nil {
			promos = append(promos, fmt.Sprintf("Spar %s%%", m[1]))
		}
	}
	if strings.Contains(combined, "medlems") {
		promos = append(promos, "Medlemsrabatt")
	}
	if m := minusPercentPattern.FindStringSubmatch(combined); m != nil {
		promos = append(promos, fmt.Sprintf("-%s%%", m[1]))
	}
	return promos
}

func isPieceUnit(symbol string) bool {
	switch symbol {
	case "pcs", "stk", "stk.":
		return true
	}
	return false
}

// mapBaseUnit maps catalog unit symbols to canonical comparison units.
// Sub-units map to their SI parent since the computed unit price is
// already in SI terms.
func mapBaseUnit(symbol string) string {
	switch symbol {
	case "kg", "kilogram", "g":
		return string(model.UnitKilogram)
	case "l", "liter", "litre", "dl", "cl", "ml":
		return string(model.UnitLiter)
	case "stk", "stk.", "pcs", "piece", "pieces", "pk", "pakke":
		return string(model.UnitPiece)
	}
	return symbol
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
