package rank

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Glx28/billigst-mat/internal/model"
)

// HistoryStore is the price history consumed and committed by trigger
// detection. All operations are scoped to one group.
type HistoryStore interface {
	// AllTimeBest returns the lowest best price ever recorded for the
	// group. ok is false when the group has no history.
	AllTimeBest(ctx context.Context, group string) (price float64, ok bool, err error)

	// PreviousBest returns the most recent record strictly before today,
	// or nil when none exists.
	PreviousBest(ctx context.Context, group string) (*model.PriceHistoryRecord, error)

	// PreviousTopIDs returns the item keys recorded on the single most
	// recent run date before today (not a union over history).
	PreviousTopIDs(ctx context.Context, group string) (map[string]bool, error)

	// RecordRun upserts today's best-price record and one item record per
	// top item.
	RecordRun(ctx context.Context, best model.PriceHistoryRecord, topItems []model.ItemHistoryRecord) error
}

// Policy holds the alerting policy constants. Defaults live in the config
// package; changing them changes alerting behavior silently.
type Policy struct {
	NewBestEpsilon float64 // float-noise guard on the all-time-best comparison
	PriceDropRatio float64 // previous-best multiplier below which price_drop fires
}

// Detector compares ranked offers against the history store and emits
// triggers.
type Detector struct {
	store  HistoryStore
	policy Policy
	logger *slog.Logger
}

// NewDetector creates a trigger detector backed by the given history store.
func NewDetector(store HistoryStore, policy Policy, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{store: store, policy: policy, logger: logger}
}

// DetectTriggers runs all four trigger checks for one group, then commits
// the run to the history store. The checks are independent; several trigger
// types can fire in one run. threshold <= 0 disables the threshold check.
//
// The commit happens even when no trigger fired. A history store failure is
// fatal for the group: without historical comparison every run would falsely
// look like a new all-time best.
func (d *Detector) DetectTriggers(ctx context.Context, group string, ranked []*model.Offer, threshold float64, topN int) ([]model.Trigger, error) {
	if len(ranked) == 0 {
		return nil, nil
	}

	best := ranked[0]
	bestPrice := best.NormalizedUnitPrice
	unitLabel := best.TargetUnit.Label()

	allTimeBest, hasHistory, err := d.store.AllTimeBest(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("all-time best for %q: %w", group, err)
	}
	prev, err := d.store.PreviousBest(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("previous best for %q: %w", group, err)
	}
	prevIDs, err := d.store.PreviousTopIDs(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("previous top ids for %q: %w", group, err)
	}

	var triggers []model.Trigger

	// new_best: a new all-time low, or the first-ever observation.
	if !hasHistory || bestPrice < allTimeBest-d.policy.NewBestEpsilon {
		triggers = append(triggers, model.Trigger{
			Type:  model.TriggerNewBest,
			Group: group,
			Message: fmt.Sprintf("Ny billigste %s: %s @ %.2f %s hos %s",
				group, best.Name, bestPrice, unitLabel, storeOrUnknown(best)),
			Item:  best.Name,
			Price: bestPrice,
		})
	}

	// below_threshold: every qualifying item, not only #1.
	if threshold > 0 {
		for _, o := range ranked {
			if o.NormalizedUnitPrice < threshold {
				triggers = append(triggers, model.Trigger{
					Type:  model.TriggerBelowThreshold,
					Group: group,
					Message: fmt.Sprintf("%s under terskel (%.0f %s): %s @ %.2f %s hos %s",
						group, threshold, unitLabel, o.Name, o.NormalizedUnitPrice, unitLabel, storeOrUnknown(o)),
					Item:  o.Name,
					Price: o.NormalizedUnitPrice,
				})
			}
		}
	}

	// price_drop: a single-run drop past the configured ratio.
	if prev != nil && prev.BestPrice > 0 && bestPrice < prev.BestPrice*d.policy.PriceDropRatio {
		dropPct := (1 - bestPrice/prev.BestPrice) * 100
		triggers = append(triggers, model.Trigger{
			Type:  model.TriggerPriceDrop,
			Group: group,
			Message: fmt.Sprintf("Prisfall %.0f%% på %s: %s %.2f → %.2f %s",
				dropPct, group, best.Name, prev.BestPrice, bestPrice, unitLabel),
			Item:  best.Name,
			Price: bestPrice,
		})
	}

	// enters_top_n: new entrants vs the previous run's top set. Never
	// fires on a cold start, to avoid flooding alerts on day one.
	if topN > len(ranked) {
		topN = len(ranked)
	}
	if len(prevIDs) > 0 {
		for _, o := range ranked[:topN] {
			if !prevIDs[o.Key()] {
				triggers = append(triggers, model.Trigger{
					Type:  model.TriggerEntersTopN,
					Group: group,
					Message: fmt.Sprintf("Ny i topp-%d %s: %s @ %.2f %s hos %s",
						topN, group, o.Name, o.NormalizedUnitPrice, unitLabel, storeOrUnknown(o)),
					Item:  o.Name,
					Price: o.NormalizedUnitPrice,
				})
			}
		}
	}

	// Commit the run so tomorrow has a "before" to compare against.
	items := make([]model.ItemHistoryRecord, 0, topN)
	for _, o := range ranked[:topN] {
		items = append(items, model.ItemHistoryRecord{
			GroupName: group,
			ItemKey:   o.Key(),
			ItemName:  o.Name,
			UnitPrice: o.NormalizedUnitPrice,
			Price:     o.Price,
			Store:     o.Store,
		})
	}
	rec := model.PriceHistoryRecord{
		GroupName: group,
		BestPrice: bestPrice,
		BestItem:  best.Name,
		BestStore: best.Store,
		UnitLabel: unitLabel,
	}
	if err := d.store.RecordRun(ctx, rec, items); err != nil {
		return nil, fmt.Errorf("record run for %q: %w", group, err)
	}

	d.logger.Debug("trigger detection done",
		"group", group,
		"best_price", bestPrice,
		"triggers", len(triggers),
	)

	return triggers, nil
}

func storeOrUnknown(o *model.Offer) string {
	if o.Store == "" {
		return "?"
	}
	return o.Store
}
