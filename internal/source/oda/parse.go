package oda

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
)

var (
	pricePattern     = regexp.MustCompile(`(\d+[,.]\d+)\s*kr`)
	unitPricePattern = regexp.MustCompile(`(\d+[,.]\d+)\s*kr\s*/\s*(\w+)`)
	packPattern      = regexp.MustCompile(`(?i)(\d+)\s*stk`)
	weightPattern    = regexp.MustCompile(`(?i)(\d+[,.]?\d*)\s*(kg|g|l|dl|ml)\b`)
)

// card is one product card scraped from the page.
type card struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// parseCard extracts an offer from a product card's inner text.
// Returns nil when no name or price can be found.
func parseCard(c card, pageURL string) *model.Offer {
	text := c.Text
	if !strings.Contains(strings.ToLower(text), "kr") {
		return nil
	}

	priceMatch := pricePattern.FindStringSubmatch(text)
	if priceMatch == nil {
		return nil
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(priceMatch[1], ",", "."), 64)
	if err != nil {
		return nil
	}

	lines := splitLines(text)

	// The name is the first substantial line that is not a price or a
	// UI control.
	var name string
	for _, line := range lines {
		lower := strings.ToLower(line)
		if len(line) > 5 &&
			!strings.Contains(lower, "kr") &&
			!strings.Contains(lower, "legg til") &&
			!strings.Contains(lower, "leveranse") {
			name = line
			break
		}
	}
	if name == "" {
		return nil
	}

	var unitPrice float64
	var baseUnit string
	if m := unitPricePattern.FindStringSubmatch(text); m != nil {
		unitPrice, _ = strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		switch strings.ToLower(m[2]) {
		case "kg", "kilogram":
			baseUnit = string(model.UnitKilogram)
		case "l", "liter":
			baseUnit = string(model.UnitLiter)
		case "stk":
			baseUnit = string(model.UnitPiece)
		}
	}

	var packSize int
	var weight float64
	var weightUnit string
	for _, line := range lines {
		if packSize == 0 {
			if m := packPattern.FindStringSubmatch(line); m != nil {
				packSize, _ = strconv.Atoi(m[1])
			}
		}
		if weight == 0 {
			if m := weightPattern.FindStringSubmatch(line); m != nil {
				if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
					weight = v
					weightUnit = strings.ToLower(m[2])
				}
			}
		}
	}

	return &model.Offer{
		Source:     model.SourceOnlineStore,
		SourceID:   "oda_" + sourceIDFragment(name),
		Name:       name,
		Price:      price,
		Weight:     weight,
		WeightUnit: weightUnit,
		PackSize:   packSize,
		UnitPrice:  unitPrice,
		BaseUnit:   baseUnit,
		Store:      "ODA",
		Category:   categoryFromURL(pageURL),
		URL:        pageURL,
		Image:      c.Image,
	}
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// sourceIDFragment builds a stable-enough id from the product name.
// Oda exposes no product ids in the listing DOM.
func sourceIDFragment(name string) string {
	if runes := []rune(name); len(runes) > 30 {
		name = string(runes[:30])
	}
	return strings.ReplaceAll(name, " ", "_")
}

// categoryFromURL infers a coarse category from the listing URL.
func categoryFromURL(pageURL string) string {
	lower := strings.ToLower(pageURL)
	switch {
	case strings.Contains(lower, "egg"):
		return "Egg"
	case strings.Contains(lower, "melk"):
		return "Melk"
	case strings.Contains(lower, "kylling"), strings.Contains(lower, "kjott"):
		return "Kjøtt"
	case strings.Contains(lower, "fisk"), strings.Contains(lower, "sjomat"):
		return "Fisk"
	}
	return ""
}
