package dedup

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
)

// productKey builds the cross-store product identity: barcode when present,
// lowercased name otherwise.
func productKey(o *model.Offer) string {
	if o.EAN != "" {
		return "ean:" + o.EAN
	}
	return "name:" + strings.TrimSpace(strings.ToLower(o.Name))
}

// sortPrice returns the first available price field for merge ordering.
// Missing values sort last.
func sortPrice(o *model.Offer) float64 {
	if o.NormalizedUnitPrice > 0 {
		return o.NormalizedUnitPrice
	}
	if o.UnitPrice > 0 {
		return o.UnitPrice
	}
	if o.Price > 0 {
		return o.Price
	}
	return math.Inf(1)
}

// member tracks a mergeable offer together with its position in the input,
// so the merged result can be placed back at the group's first position.
type member struct {
	offer *model.Offer
	index int
}

// mergeCrossStore collapses the same product offered at different stores.
//
// Only mergeable sources participate; catalog offers pass through untouched
// in their original positions. Within a product group the cheapest offer
// wins; offers within tolerance of the cheapest are tied, and multiple tied
// winners are merged into one record with the stores joined "A / B" in
// first-seen order, the first winner's URL, and the remaining URLs kept as
// alternate links.
func mergeCrossStore(offers []*model.Offer, tolerance float64, logger *slog.Logger) []*model.Offer {
	groups := make(map[string][]member)
	var order []string // product keys in first-seen order

	for i, o := range offers {
		if !o.Source.Mergeable() {
			continue
		}
		pk := productKey(o)
		if _, ok := groups[pk]; !ok {
			order = append(order, pk)
		}
		groups[pk] = append(groups[pk], member{offer: o, index: i})
	}

	// Resolve each group to one winner, keyed by the group's first index.
	winners := make(map[int]*model.Offer, len(groups))
	merged := make(map[int]bool, len(offers)) // indexes consumed by a merge

	for _, pk := range order {
		members := groups[pk]
		firstIdx := members[0].index
		for _, m := range members {
			merged[m.index] = true
		}

		if len(members) == 1 {
			winners[firstIdx] = members[0].offer
			continue
		}

		sorted := append([]member(nil), members...)
		sort.SliceStable(sorted, func(a, b int) bool {
			return sortPrice(sorted[a].offer) < sortPrice(sorted[b].offer)
		})
		best := sortPrice(sorted[0].offer)

		// Equal sort prices always tie. This also covers groups where no
		// member carries a price at all: every sort price is +Inf and the
		// distance to best would be NaN, never within tolerance.
		var tied []*model.Offer
		for _, m := range sorted {
			p := sortPrice(m.offer)
			if p == best || math.Abs(p-best) < tolerance {
				tied = append(tied, m.offer)
			}
		}

		if len(tied) == 1 {
			winners[firstIdx] = tied[0]
		} else {
			winners[firstIdx] = mergeTied(tied)
		}

		logger.Debug("cross-store dedup",
			"product", winners[firstIdx].Name,
			"store", winners[firstIdx].Store,
			"dropped", len(members)-1,
		)
	}

	// Rebuild the list: untouched offers keep their position, each merge
	// group's winner takes the position of the group's first member.
	result := make([]*model.Offer, 0, len(offers))
	for i, o := range offers {
		if !merged[i] {
			result = append(result, o)
		} else if w, ok := winners[i]; ok {
			result = append(result, w)
		}
	}
	return result
}

// mergeTied synthesizes one record from several equally-priced winners: a
// copy of the cheapest with the tied stores joined and alternate links kept.
func mergeTied(tied []*model.Offer) *model.Offer {
	winner := tied[0].Clone()

	var stores []string
	var urls []string
	seenStore := make(map[string]bool)
	for _, o := range tied {
		store := o.Store
		if store == "" {
			store = "?"
		}
		if !seenStore[store] {
			seenStore[store] = true
			stores = append(stores, store)
		}
		if o.URL != "" {
			urls = append(urls, o.URL)
		}
	}

	winner.Store = strings.Join(stores, " / ")
	if len(urls) > 0 {
		winner.URL = urls[0]
		winner.AltURLs = urls[1:]
	}
	return winner
}
