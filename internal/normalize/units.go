package normalize

import (
	"math"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
)

// Conversion factors to canonical units.
var weightToKg = map[string]float64{
	"kg":       1.0,
	"kilogram": 1.0,
	"g":        0.001,
	"gram":     0.001,
	"hg":       0.1,
}

var volumeToL = map[string]float64{
	"l":     1.0,
	"liter": 1.0,
	"litre": 1.0,
	"dl":    0.1,
	"cl":    0.01,
	"ml":    0.001,
}

var pieceUnits = map[string]bool{
	"stk":    true,
	"pcs":    true,
	"piece":  true,
	"pieces": true,
	"pk":     true,
	"pakke":  true,
}

// CanonicalUnit maps a raw unit string to its canonical form. Matching is
// case-insensitive and ignores trailing punctuation ("Stk." → piece).
// Unknown units pass through lowercased so they stay visible in debug logs;
// they are never silently coerced to a canonical unit.
func CanonicalUnit(raw string) string {
	if raw == "" {
		return ""
	}
	r := strings.TrimRight(strings.TrimSpace(strings.ToLower(raw)), ".")
	if _, ok := weightToKg[r]; ok {
		return string(model.UnitKilogram)
	}
	if _, ok := volumeToL[r]; ok {
		return string(model.UnitLiter)
	}
	if pieceUnits[r] {
		return string(model.UnitPiece)
	}
	return r
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
