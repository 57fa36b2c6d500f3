package rank

import (
	"math"
	"sort"

	"github.com/Glx28/billigst-mat/internal/model"
)

// Rank sorts offers ascending by normalized unit price and truncates to
// topN. The sort is stable: exact ties preserve input order. Offers without
// a normalized unit price sort last (normalization already dropped them;
// this is belt and braces).
func Rank(offers []*model.Offer, topN int) []*model.Offer {
	ranked := append([]*model.Offer(nil), offers...)
	sort.SliceStable(ranked, func(a, b int) bool {
		return rankPrice(ranked[a]) < rankPrice(ranked[b])
	})
	if topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked
}

func rankPrice(o *model.Offer) float64 {
	if o.NormalizedUnitPrice > 0 {
		return o.NormalizedUnitPrice
	}
	return math.Inf(1)
}
