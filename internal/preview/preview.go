// Package preview persists a JSON snapshot of the latest run so
// repeated runs can tell whether the digest content actually changed.
package preview

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/Glx28/billigst-mat/internal/model"
	"github.com/Glx28/billigst-mat/internal/pipeline"
)

// DefaultPath is where the snapshot lives relative to the working
// directory.
const DefaultPath = "data/last_run.json"

// priceTolerance is how far the #1 unit price may drift between runs
// before the content counts as changed.
const priceTolerance = 0.1

// Item is the snapshot form of a ranked or promoted offer.
type Item struct {
	Source              string  `json:"source"`
	SourceID            string  `json:"source_id"`
	Name                string  `json:"name"`
	Store               string  `json:"store"`
	NormalizedUnitPrice float64 `json:"normalized_unit_price"`
}

// Group is one group's leaderboard in the snapshot.
type Group struct {
	DisplayName string `json:"display_name"`
	TopItems    []Item `json:"top_items"`
}

// Trigger is the snapshot form of an alert event.
type Trigger struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Snapshot captures everything the digest rendered for one run.
type Snapshot struct {
	RunID      string    `json:"run_id"`
	Groups     []Group   `json:"group_data"`
	Triggers   []Trigger `json:"triggers"`
	PromoItems []Item    `json:"promo_items"`
}

func snapshotItem(o *model.Offer) Item {
	return Item{
		Source:              string(o.Source),
		SourceID:            o.SourceID,
		Name:                o.Name,
		Store:               o.Store,
		NormalizedUnitPrice: o.NormalizedUnitPrice,
	}
}

// FromResults builds a snapshot from the run's outputs.
func FromResults(runID model.RunID, results []*pipeline.GroupResult, triggers []model.Trigger, promos []*model.Offer) *Snapshot {
	snap := &Snapshot{RunID: runID.String()}
	for _, r := range results {
		display := r.Group.DisplayName
		if display == "" {
			display = r.Group.Name
		}
		g := Group{DisplayName: display}
		for _, item := range r.TopItems {
			g.TopItems = append(g.TopItems, snapshotItem(item))
		}
		snap.Groups = append(snap.Groups, g)
	}
	for _, t := range triggers {
		snap.Triggers = append(snap.Triggers, Trigger{Type: string(t.Type), Message: t.Message})
	}
	for _, o := range promos {
		snap.PromoItems = append(snap.PromoItems, snapshotItem(o))
	}
	return snap
}

// Save writes the snapshot, creating the parent directory if needed.
func (s *Snapshot) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preview dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preview: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}

// Load reads a previously saved snapshot.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preview: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	return &snap, nil
}

// Changed reports whether the current snapshot differs from the one
// stored at path. A missing or unreadable snapshot always counts as
// changed so the first run sends a digest.
func Changed(path string, current *Snapshot, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}
	last, err := Load(path)
	if err != nil {
		logger.Info("no usable previous snapshot", "path", path, "error", err)
		return true
	}

	for i, g := range current.Groups {
		if i >= len(last.Groups) {
			return true
		}
		lastTop := last.Groups[i].TopItems
		currTop := g.TopItems
		if len(lastTop) == 0 || len(currTop) == 0 {
			if (len(lastTop) == 0) != (len(currTop) == 0) {
				return true
			}
			continue
		}
		if lastTop[0].SourceID != currTop[0].SourceID {
			return true
		}
		if math.Abs(lastTop[0].NormalizedUnitPrice-currTop[0].NormalizedUnitPrice) > priceTolerance {
			return true
		}
	}

	if len(current.Triggers) != len(last.Triggers) {
		return true
	}

	lastPromos := promoIDSet(last.PromoItems)
	currPromos := promoIDSet(current.PromoItems)
	if len(lastPromos) != len(currPromos) {
		return true
	}
	for id := range currPromos {
		if !lastPromos[id] {
			return true
		}
	}

	return false
}

func promoIDSet(items []Item) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item.SourceID] = true
	}
	return set
}
