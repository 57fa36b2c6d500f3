package filter

import (
	"log/slog"
	"strings"

	"github.com/Glx28/billigst-mat/internal/config"
	"github.com/Glx28/billigst-mat/internal/model"
)

// ExcludedStores are chains dropped from every source. Matched as a
// case-insensitive substring of the offer's store name.
var ExcludedStores = []string{
	"bunnpris",
	"nærbutikken",
	"naerbutikken",
	"engrosnett",
	"jacobs",
	"biltema",
}

// ExcludedKassalStores are additional chains dropped from kassal
// results only. Catalog sources may still carry their offers.
var ExcludedKassalStores = append([]string{
	"coop",
	"obs",
	"extra",
	"coop mega",
	"coop prix",
	"kiwi",
	"rema 1000",
	"rema",
	"oda",
}, ExcludedStores...)

// IsExcludedStore reports whether the store name hits the global
// exclusion list.
func IsExcludedStore(store string) bool {
	store = strings.ToLower(strings.TrimSpace(store))
	if store == "" {
		return false
	}
	for _, excl := range ExcludedStores {
		if strings.Contains(store, excl) {
			return true
		}
	}
	return false
}

// IsExcludedKassalStore reports whether a kassal result's store is on
// the extended exclusion list.
func IsExcludedKassalStore(store string) bool {
	store = strings.ToLower(strings.TrimSpace(store))
	if store == "" {
		return false
	}
	for _, excl := range ExcludedKassalStores {
		if store == excl || strings.Contains(store, excl) {
			return true
		}
	}
	return false
}

// MatchesGroup reports whether an offer passes the group's
// include/exclude rules. Exclusions are checked before inclusions, so
// an exclude term always wins.
func MatchesGroup(o *model.Offer, group config.GroupConfig, logger *slog.Logger) bool {
	name := strings.ToLower(o.Name)
	category := strings.ToLower(o.Category)

	for _, term := range group.Exclude {
		if strings.Contains(name, strings.ToLower(term)) {
			logger.Debug("offer excluded", "name", o.Name, "term", term)
			return false
		}
	}

	for _, term := range group.ExcludeCategory {
		if category != "" && strings.Contains(category, strings.ToLower(term)) {
			logger.Debug("offer excluded by category", "name", o.Name, "term", term, "category", o.Category)
			return false
		}
	}

	if len(group.IncludeAny) > 0 {
		found := false
		for _, term := range group.IncludeAny {
			if strings.Contains(name, strings.ToLower(term)) {
				found = true
				break
			}
		}
		// Category match counts as a fallback include.
		if !found && category != "" {
			for _, term := range group.IncludeAny {
				if strings.Contains(category, strings.ToLower(term)) {
					found = true
					break
				}
			}
		}
		if !found {
			logger.Debug("offer skipped, no include match", "name", o.Name, "group", group.Name)
			return false
		}
	}

	return true
}

// Apply returns the offers that pass the group's rules and are not
// from a globally excluded store. Input order is preserved.
func Apply(offers []*model.Offer, group config.GroupConfig, logger *slog.Logger) []*model.Offer {
	if logger == nil {
		logger = slog.Default()
	}

	kept := make([]*model.Offer, 0, len(offers))
	for _, o := range offers {
		if IsExcludedStore(o.Store) {
			logger.Debug("offer from excluded store", "store", o.Store, "name", o.Name)
			continue
		}
		if MatchesGroup(o, group, logger) {
			kept = append(kept, o)
		}
	}
	return kept
}
