package rank

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Glx28/billigst-mat/internal/model"
)

// fakeStore is an in-memory HistoryStore for trigger tests.
type fakeStore struct {
	allTime    float64
	hasAllTime bool
	prev       *model.PriceHistoryRecord
	prevIDs    map[string]bool

	recordedBest  []model.PriceHistoryRecord
	recordedItems [][]model.ItemHistoryRecord

	queryErr  error
	recordErr error
}

func (f *fakeStore) AllTimeBest(ctx context.Context, group string) (float64, bool, error) {
	return f.allTime, f.hasAllTime, f.queryErr
}

func (f *fakeStore) PreviousBest(ctx context.Context, group string) (*model.PriceHistoryRecord, error) {
	return f.prev, f.queryErr
}

func (f *fakeStore) PreviousTopIDs(ctx context.Context, group string) (map[string]bool, error) {
	return f.prevIDs, f.queryErr
}

func (f *fakeStore) RecordRun(ctx context.Context, best model.PriceHistoryRecord, items []model.ItemHistoryRecord) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recordedBest = append(f.recordedBest, best)
	f.recordedItems = append(f.recordedItems, items)
	return nil
}

func defaultPolicy() Policy {
	return Policy{NewBestEpsilon: 0.01, PriceDropRatio: 0.9}
}

func rankedOffers(prices ...float64) []*model.Offer {
	offers := make([]*model.Offer, len(prices))
	for i, p := range prices {
		offers[i] = &model.Offer{
			Name:                "Item" + string(rune('A'+i)),
			Source:              model.SourceKassal,
			SourceID:            string(rune('0' + i)),
			Store:               "Meny",
			Price:               p,
			NormalizedUnitPrice: p,
			TargetUnit:          model.UnitKilogram,
		}
	}
	return offers
}

func types(triggers []model.Trigger) map[model.TriggerType]int {
	counts := make(map[model.TriggerType]int)
	for _, tr := range triggers {
		counts[tr.Type]++
	}
	return counts
}

func TestFirstRunFiresNewBestOnly(t *testing.T) {
	store := &fakeStore{}
	d := NewDetector(store, defaultPolicy(), nil)

	triggers, err := d.DetectTriggers(context.Background(), "kylling", rankedOffers(50, 60, 70), 0, 3)
	if err != nil {
		t.Fatalf("DetectTriggers failed: %v", err)
	}

	counts := types(triggers)
	if counts[model.TriggerNewBest] != 1 {
		t.Errorf("new_best count = %d, want 1 (first observation always fires)", counts[model.TriggerNewBest])
	}
	if counts[model.TriggerEntersTopN] != 0 {
		t.Errorf("enters_top_n count = %d, want 0 on cold start", counts[model.TriggerEntersTopN])
	}
	if counts[model.TriggerPriceDrop] != 0 {
		t.Errorf("price_drop count = %d, want 0 without a previous run", counts[model.TriggerPriceDrop])
	}
}

func TestNewBestRequiresEpsilonImprovement(t *testing.T) {
	tests := []struct {
		name     string
		allTime  float64
		current  float64
		wantFire bool
	}{
		{"clearly cheaper", 60, 50, true},
		{"equal", 50, 50, false},
		{"within epsilon", 50, 49.995, false},
		{"just past epsilon", 50, 49.98, true},
		{"more expensive", 40, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{allTime: tt.allTime, hasAllTime: true}
			d := NewDetector(store, defaultPolicy(), nil)

			triggers, err := d.DetectTriggers(context.Background(), "g", rankedOffers(tt.current), 0, 3)
			if err != nil {
				t.Fatalf("DetectTriggers failed: %v", err)
			}
			fired := types(triggers)[model.TriggerNewBest] > 0
			if fired != tt.wantFire {
				t.Errorf("new_best fired = %v, want %v", fired, tt.wantFire)
			}
		})
	}
}

func TestPriceDrop(t *testing.T) {
	tests := []struct {
		name     string
		prevBest float64
		current  float64
		wantFire bool
	}{
		{"20 percent drop", 100, 80, true},
		{"5 percent drop", 100, 95, false},
		{"exactly 10 percent", 100, 90, false}, // strict less-than
		{"11 percent drop", 100, 89, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{
				allTime:    tt.current, // keep new_best out of the way
				hasAllTime: true,
				prev:       &model.PriceHistoryRecord{BestPrice: tt.prevBest},
			}
			d := NewDetector(store, defaultPolicy(), nil)

			triggers, err := d.DetectTriggers(context.Background(), "g", rankedOffers(tt.current), 0, 3)
			if err != nil {
				t.Fatalf("DetectTriggers failed: %v", err)
			}
			fired := types(triggers)[model.TriggerPriceDrop] > 0
			if fired != tt.wantFire {
				t.Errorf("price_drop fired = %v, want %v", fired, tt.wantFire)
			}
		})
	}
}

func TestBelowThresholdFiresPerQualifyingItem(t *testing.T) {
	store := &fakeStore{allTime: 10, hasAllTime: true}
	d := NewDetector(store, defaultPolicy(), nil)

	triggers, err := d.DetectTriggers(context.Background(), "g", rankedOffers(80, 100, 120), 90, 3)
	if err != nil {
		t.Fatalf("DetectTriggers failed: %v", err)
	}

	var below []model.Trigger
	for _, tr := range triggers {
		if tr.Type == model.TriggerBelowThreshold {
			below = append(below, tr)
		}
	}
	if len(below) != 1 {
		t.Fatalf("below_threshold count = %d, want 1", len(below))
	}
	if below[0].Price != 80 {
		t.Errorf("below_threshold price = %v, want 80", below[0].Price)
	}
}

func TestEntersTopN(t *testing.T) {
	store := &fakeStore{
		allTime:    40,
		hasAllTime: true,
		prev:       &model.PriceHistoryRecord{BestPrice: 55},
		prevIDs:    map[string]bool{"kassal:0": true},
	}
	d := NewDetector(store, defaultPolicy(), nil)

	// kassal:0 was already in the top set; kassal:1 and kassal:2 are new.
	triggers, err := d.DetectTriggers(context.Background(), "g", rankedOffers(50, 60, 70), 0, 3)
	if err != nil {
		t.Fatalf("DetectTriggers failed: %v", err)
	}

	if got := types(triggers)[model.TriggerEntersTopN]; got != 2 {
		t.Errorf("enters_top_n count = %d, want 2", got)
	}
}

func TestRecordRunCommittedWithoutTriggers(t *testing.T) {
	store := &fakeStore{
		allTime:    40,
		hasAllTime: true,
		prev:       &model.PriceHistoryRecord{BestPrice: 50},
		prevIDs:    map[string]bool{"kassal:0": true, "kassal:1": true},
	}
	d := NewDetector(store, defaultPolicy(), nil)

	triggers, err := d.DetectTriggers(context.Background(), "g", rankedOffers(50, 60), 0, 3)
	if err != nil {
		t.Fatalf("DetectTriggers failed: %v", err)
	}
	if len(triggers) != 0 {
		t.Fatalf("triggers = %v, want none", triggers)
	}

	if len(store.recordedBest) != 1 {
		t.Fatalf("RecordRun calls = %d, want 1 (commit happens even with zero triggers)", len(store.recordedBest))
	}
	best := store.recordedBest[0]
	if best.BestPrice != 50 || best.GroupName != "g" || best.UnitLabel != "kr/kg" {
		t.Errorf("recorded best = %+v", best)
	}
	if len(store.recordedItems[0]) != 2 {
		t.Errorf("recorded items = %d, want 2", len(store.recordedItems[0]))
	}
	if store.recordedItems[0][0].ItemKey != "kassal:0" {
		t.Errorf("ItemKey = %q, want kassal:0", store.recordedItems[0][0].ItemKey)
	}
}

func TestEmptyRankedListIsNoOp(t *testing.T) {
	store := &fakeStore{}
	d := NewDetector(store, defaultPolicy(), nil)

	triggers, err := d.DetectTriggers(context.Background(), "g", nil, 100, 3)
	if err != nil {
		t.Fatalf("DetectTriggers failed: %v", err)
	}
	if len(triggers) != 0 {
		t.Errorf("triggers = %v, want none", triggers)
	}
	if len(store.recordedBest) != 0 {
		t.Errorf("RecordRun called for an empty run")
	}
}

func TestStoreFailureAbortsGroup(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("connection refused")}
	d := NewDetector(store, defaultPolicy(), nil)

	if _, err := d.DetectTriggers(context.Background(), "g", rankedOffers(50), 0, 3); err == nil {
		t.Fatal("DetectTriggers = nil error, want store failure to propagate")
	}

	store = &fakeStore{recordErr: errors.New("disk full")}
	d = NewDetector(store, defaultPolicy(), nil)
	if _, err := d.DetectTriggers(context.Background(), "g", rankedOffers(50), 0, 3); err == nil {
		t.Fatal("DetectTriggers = nil error, want commit failure to propagate")
	}
}

func TestFormatLeaderboard(t *testing.T) {
	offers := rankedOffers(50, 60)
	offers[0].URL = "https://meny.no/kylling"
	offers[0].AltURLs = []string{"https://spar.no/kylling"}

	text := FormatLeaderboard("Kyllingfilet", offers)

	for _, want := range []string{"Kyllingfilet", "kr/kg", "50.00", "ItemA", "→ https://meny.no/kylling", "→ https://spar.no/kylling"} {
		if !strings.Contains(text, want) {
			t.Errorf("leaderboard missing %q:\n%s", want, text)
		}
	}
}

func TestFormatLeaderboardEmpty(t *testing.T) {
	text := FormatLeaderboard("Egg", nil)
	if !strings.Contains(text, "Ingen resultater") {
		t.Errorf("empty leaderboard = %q", text)
	}
}
