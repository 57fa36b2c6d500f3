package dedup

import (
	"regexp"
	"strings"
)

// weightSuffixPattern matches a trailing quantity expression in a product
// name: "1000g", "750 ml", "1,5l", "4x125g". Everything from the quantity to
// the end of the name is stripped.
var weightSuffixPattern = regexp.MustCompile(`(?i)\s*\d+[x×]?\d*(?:[.,]\d+)?\s*(?:kg|g|l|dl|ml|cl|pk|stk)\b.*$`)

// StripWeight removes a trailing weight/volume suffix from a name, for the
// fuzzy dedup tier. "coop kyllingfilet 1000g" → "coop kyllingfilet". If
// stripping would leave nothing, the original name is kept.
func StripWeight(name string) string {
	stripped := strings.TrimSpace(weightSuffixPattern.ReplaceAllString(name, ""))
	if stripped == "" {
		return name
	}
	return stripped
}
