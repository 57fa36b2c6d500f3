package notify

import (
	"fmt"
	"math"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
	"github.com/Glx28/billigst-mat/internal/pipeline"
)

// Subject returns the digest subject line for a run with the given
// number of triggers.
func Subject(triggerCount int) string {
	if triggerCount > 0 {
		return fmt.Sprintf("🛒 Matpris-oppdatering — %d varsler", triggerCount)
	}
	return "🛒 Matpris-oppdatering"
}

// HoldbartSubject returns the subject used in holdbart mode, where the
// digest is only sent when Holdbart tops one or more categories.
func HoldbartSubject(categories int) string {
	return fmt.Sprintf("🏷️ Holdbart-tilbud — %d kategorier", categories)
}

// BuildText renders the plain-text digest body: the trigger list
// followed by every group leaderboard.
func BuildText(results []*pipeline.GroupResult, triggers []model.Trigger) string {
	var sections []string

	if len(triggers) > 0 {
		sections = append(sections, "🔔 VARSLER:")
		for _, t := range triggers {
			sections = append(sections, fmt.Sprintf("  • [%s] %s", t.Type, t.Message))
		}
		sections = append(sections, "")
	}

	rule := strings.Repeat("=", 50)
	sections = append(sections, rule, "LEADERBOARD – Billigste per enhet", rule, "")
	for _, r := range results {
		sections = append(sections, r.Leaderboard)
	}

	return strings.Join(sections, "\n")
}

// PromoLine formats one promoted offer for console and log output.
func PromoLine(o *model.Offer) string {
	unitPrice := "?"
	if o.NormalizedUnitPrice > 0 && !math.IsInf(o.NormalizedUnitPrice, 1) {
		unitPrice = fmt.Sprintf("%.2f %s", o.NormalizedUnitPrice, o.TargetUnit.Label())
	}
	store := o.Store
	if store == "" {
		store = "?"
	}
	line := fmt.Sprintf("  • [%s] %s — %s (%.2f kr) @ %s",
		strings.Join(o.Promos, " | "), o.Name, unitPrice, o.Price, store)
	if o.URL != "" {
		line += " → " + o.URL
	}
	return line
}

// HoldbartBest returns one summary line per group whose #1 ranked item
// comes from Holdbart. An empty result means no digest should be sent
// in holdbart mode.
func HoldbartBest(results []*pipeline.GroupResult) []string {
	var lines []string
	for _, r := range results {
		if len(r.TopItems) == 0 {
			continue
		}
		top := r.TopItems[0]
		if !strings.EqualFold(top.Store, "holdbart") {
			continue
		}
		display := r.Group.DisplayName
		if display == "" {
			display = r.Group.Name
		}
		lines = append(lines, fmt.Sprintf("  • %s: %s @ %.2f %s",
			display, top.Name, top.NormalizedUnitPrice, top.TargetUnit.Label()))
	}
	return lines
}
