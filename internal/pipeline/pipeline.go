package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/Glx28/billigst-mat/internal/config"
	"github.com/Glx28/billigst-mat/internal/dedup"
	"github.com/Glx28/billigst-mat/internal/filter"
	"github.com/Glx28/billigst-mat/internal/model"
	"github.com/Glx28/billigst-mat/internal/normalize"
	"github.com/Glx28/billigst-mat/internal/rank"
)

// Validator drops offers whose source listing is no longer alive.
// Implementations must preserve input order.
type Validator interface {
	Validate(ctx context.Context, offers []*model.Offer) []*model.Offer
}

// GroupResult holds everything one group's run produced.
type GroupResult struct {
	Group       config.GroupConfig
	Leaderboard string
	TopItems    []*model.Offer
	Triggers    []model.Trigger
	Promos      []*model.Offer
}

// BestPrice returns the group's cheapest normalized unit price, or +Inf
// when the group produced no items.
func (r *GroupResult) BestPrice() float64 {
	if len(r.TopItems) == 0 {
		return math.Inf(1)
	}
	return r.TopItems[0].NormalizedUnitPrice
}

// Processor runs the processing chain for product groups.
type Processor struct {
	validator   Validator
	detector    *rank.Detector
	policy      config.PipelineConfig
	defaultTopN int
	logger      *slog.Logger
}

// NewProcessor creates a group processor. The validator may be nil when
// no liveness checking is wanted (for example in dry runs).
func NewProcessor(detector *rank.Detector, validator Validator, policy config.PipelineConfig, defaultTopN int, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultTopN <= 0 {
		defaultTopN = config.DefaultTopN
	}
	return &Processor{
		validator:   validator,
		detector:    detector,
		policy:      policy,
		defaultTopN: defaultTopN,
		logger:      logger,
	}
}

// ProcessGroup runs the full chain for one group. The input offers are
// deep-copied first; the caller's slice is never mutated.
func (p *Processor) ProcessGroup(ctx context.Context, group config.GroupConfig, offers []*model.Offer) (*GroupResult, error) {
	offers = model.CloneAll(offers)

	filtered := filter.Apply(offers, group, p.logger)
	p.logger.Info("group filtered",
		"group", group.Name,
		"fetched", len(offers),
		"kept", len(filtered),
	)

	if p.validator != nil {
		before := len(filtered)
		filtered = p.validator.Validate(ctx, filtered)
		if len(filtered) != before {
			p.logger.Info("group validated",
				"group", group.Name,
				"removed", before-len(filtered),
			)
		}
	}

	enriched := normalize.Enrich(filtered, model.Unit(group.BaseUnit), p.logger)
	unique := dedup.Deduplicate(enriched, p.policy.MergeTolerance, p.logger)
	p.logger.Info("group normalized",
		"group", group.Name,
		"priceable", len(enriched),
		"unique", len(unique),
	)

	topN := group.TopN
	if topN <= 0 {
		topN = p.defaultTopN
	}
	top := rank.Rank(unique, topN)

	triggers, err := p.detector.DetectTriggers(ctx, group.Name, top, group.Threshold, min(topN, 3))
	if err != nil {
		return nil, fmt.Errorf("detect triggers for %s: %w", group.Name, err)
	}

	displayName := group.DisplayName
	if displayName == "" {
		displayName = group.Name
	}

	var promos []*model.Offer
	for _, o := range unique {
		if len(o.Promos) > 0 {
			promos = append(promos, o)
		}
	}

	return &GroupResult{
		Group:       group,
		Leaderboard: rank.FormatLeaderboard(displayName, top),
		TopItems:    top,
		Triggers:    triggers,
		Promos:      promos,
	}, nil
}

// SortResults orders group results by their cheapest #1 unit price,
// cheapest group first. Empty groups sink to the end.
func SortResults(results []*GroupResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].BestPrice() < results[j].BestPrice()
	})
}

// CollectPromos gathers promoted offers across all groups, deduplicated
// by item key and with anything already shown in a leaderboard removed.
// The result is sorted cheapest unit price first; offers without a unit
// price sort last.
func CollectPromos(results []*GroupResult) []*model.Offer {
	shown := make(map[string]bool)
	for _, r := range results {
		for _, item := range r.TopItems {
			shown[item.Key()] = true
		}
	}

	seen := make(map[string]bool)
	var promos []*model.Offer
	for _, r := range results {
		for _, o := range r.Promos {
			key := o.Key()
			if seen[key] || shown[key] {
				continue
			}
			seen[key] = true
			promos = append(promos, o)
		}
	}

	sort.SliceStable(promos, func(i, j int) bool {
		return promoSortPrice(promos[i]) < promoSortPrice(promos[j])
	})
	return promos
}

func promoSortPrice(o *model.Offer) float64 {
	if o.NormalizedUnitPrice > 0 {
		return o.NormalizedUnitPrice
	}
	return math.Inf(1)
}

// FilterStores restricts offers by store name. When only is non-empty,
// solely those stores survive; otherwise stores in exclude are dropped.
// Matching is case-insensitive and exact.
func FilterStores(offers []*model.Offer, exclude, only []string) []*model.Offer {
	excludeSet := lowerSet(exclude)
	onlySet := lowerSet(only)

	kept := make([]*model.Offer, 0, len(offers))
	for _, o := range offers {
		store := strings.ToLower(o.Store)
		if len(onlySet) > 0 {
			if onlySet[store] {
				kept = append(kept, o)
			}
			continue
		}
		if !excludeSet[store] {
			kept = append(kept, o)
		}
	}
	return kept
}

func lowerSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}
