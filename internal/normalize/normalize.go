package normalize

import (
	"log/slog"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
)

// Result classifies how a unit price was resolved.
type Result int

const (
	// Unpriceable means no unit price could be derived; the offer is dropped.
	Unpriceable Result = iota

	// Resolved means the unit price was derived from trusted fields.
	Resolved

	// ResolvedUnverified means a source-declared unit price was reused
	// without a base unit to validate it against.
	ResolvedUnverified
)

// ComputeUnitPrice derives the price per target unit for one offer.
//
// Resolution priority:
//  1. Source-declared unit price whose base unit matches the target.
//  2. Price divided by convertible weight/volume (times pack count).
//  3. For piece targets: price / pack_size, or the price itself for a
//     single piece.
//  4. Source-declared unit price with no base unit at all, as a last
//     resort (unverified). A unit price whose declared base unit conflicts
//     with the target is never reused.
func ComputeUnitPrice(o *model.Offer, target model.Unit) (float64, Result) {
	baseUnit := CanonicalUnit(o.BaseUnit)

	// 1) Existing unit price already in the target unit
	if o.HasUnitPrice() && baseUnit == string(target) {
		return o.UnitPrice, Resolved
	}

	price := o.Price

	// 2) Derive from weight/volume. Pack count multiplies total quantity
	// before the division ("2×400 g" is 0.8 kg, not 0.4 kg).
	if price > 0 && o.Weight > 0 && o.WeightUnit != "" {
		wu := strings.TrimRight(strings.TrimSpace(strings.ToLower(o.WeightUnit)), ".")

		var qty float64
		switch target {
		case model.UnitKilogram:
			if f, ok := weightToKg[wu]; ok {
				qty = o.Weight * f
			}
		case model.UnitLiter:
			if f, ok := volumeToL[wu]; ok {
				qty = o.Weight * f
			}
		}
		if qty > 0 {
			if o.PackSize > 1 {
				qty *= float64(o.PackSize)
			}
			return price / qty, Resolved
		}
	}

	// 3) Piece-based pricing
	if target == model.UnitPiece && price > 0 {
		if o.PackSize > 0 {
			return price / float64(o.PackSize), Resolved
		}
		// No pack size: treat as exactly one piece
		return price, Resolved
	}

	// 4) Unverified fallback: a declared unit price with no base unit. A
	// mismatched base unit (kr/kg reused as kr/stk) is unpriceable instead.
	if o.HasUnitPrice() && baseUnit == "" {
		return o.UnitPrice, ResolvedUnverified
	}

	return 0, Unpriceable
}

// Enrich computes normalized unit prices for all offers, in order. Offers
// without a derivable positive unit price are dropped and logged at debug
// level; this is expected and common.
func Enrich(offers []*model.Offer, target model.Unit, logger *slog.Logger) []*model.Offer {
	if logger == nil {
		logger = slog.Default()
	}

	enriched := make([]*model.Offer, 0, len(offers))
	for _, o := range offers {
		up, res := ComputeUnitPrice(o, target)
		if res == Unpriceable || up <= 0 {
			logger.Debug("dropped offer without unit price",
				"name", o.Name,
				"price", o.Price,
				"target_unit", target,
			)
			continue
		}
		if res == ResolvedUnverified {
			logger.Warn("using unit price without base unit validation",
				"name", o.Name,
				"unit_price", o.UnitPrice,
				"target_unit", target,
			)
		}
		o.NormalizedUnitPrice = round2(up)
		o.TargetUnit = target
		enriched = append(enriched, o)
	}
	return enriched
}
