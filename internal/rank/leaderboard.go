package rank

import (
	"fmt"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
)

// FormatLeaderboard renders one group's ranked offers as plain text for the
// console summary and the text digest.
func FormatLeaderboard(displayName string, ranked []*model.Offer) string {
	if len(ranked) == 0 {
		return displayName + ": Ingen resultater\n"
	}

	unitLabel := ranked[0].TargetUnit.Label()

	var b strings.Builder
	fmt.Fprintf(&b, "%s (sortert etter %s):\n", displayName, unitLabel)
	for i, o := range ranked {
		tag := "🛒"
		if o.Source == model.SourceEtilbudsavis {
			tag = "📰"
		}
		validity := ""
		if !o.ValidUntil.IsZero() {
			validity = fmt.Sprintf(" (gyldig til %s)", o.ValidUntil.Format("2006-01-02"))
		}
		link := ""
		if o.URL != "" {
			link = " → " + o.URL
		}
		fmt.Fprintf(&b, "  %d. %s %s — %.2f %s (%.2f kr) @ %s%s%s\n",
			i+1, tag, o.Name, o.NormalizedUnitPrice, unitLabel, o.Price, storeOrUnknown(o), validity, link)
		for _, alt := range o.AltURLs {
			fmt.Fprintf(&b, "       → %s\n", alt)
		}
	}
	b.WriteString("\n")
	return b.String()
}
