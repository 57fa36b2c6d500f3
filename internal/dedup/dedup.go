package dedup

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
)

// Deduplicate removes duplicate offers and merges cross-store duplicates.
//
// Stage A keys, in priority order:
//  1. source:source_id (ean:store when the source ID is absent)
//  2. lowercased name + store + price (same physical offer from two sources)
//  3. weight-stripped name + store + price (naming variance in the suffix)
//
// Any offer colliding with an already-seen key at any tier is dropped; the
// first occurrence wins. Stage B (cross-store merge) then runs on the
// survivors; tolerance is the absolute price distance within which offers
// count as tied. Deduplicate is idempotent.
func Deduplicate(offers []*model.Offer, tolerance float64, logger *slog.Logger) []*model.Offer {
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[string]bool, len(offers)*3)
	unique := make([]*model.Offer, 0, len(offers))

	for _, o := range offers {
		// Primary key: source + source ID
		key := o.Key()
		if o.SourceID == "" {
			// Fall back to barcode + store
			key = o.EAN + ":" + o.Store
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		name := strings.TrimSpace(strings.ToLower(o.Name))
		store := strings.TrimSpace(strings.ToLower(o.Store))
		price := strconv.FormatFloat(o.Price, 'g', -1, 64)

		// Cross-source key: same name, store and price
		crossKey := "x:" + name + ":" + store + ":" + price
		if seen[crossKey] {
			continue
		}
		seen[crossKey] = true

		// Fuzzy key: "COOP KYLLINGFILET" vs "Coop Kyllingfilet 1000g"
		strippedKey := "xs:" + StripWeight(name) + ":" + store + ":" + price
		if seen[strippedKey] {
			continue
		}
		seen[strippedKey] = true

		unique = append(unique, o)
	}

	if dropped := len(offers) - len(unique); dropped > 0 {
		logger.Debug("identity dedup dropped offers", "dropped", dropped, "kept", len(unique))
	}

	return mergeCrossStore(unique, tolerance, logger)
}
