// Package filter applies per-group include/exclude rules to offers.
//
// The filter:
//   - Drops offers from globally excluded chains
//   - Blocks names matching any of the group's exclude terms
//   - Blocks categories matching any exclude_category term
//   - Requires at least one include_any match on name or category
package filter
