package model

// PriceHistoryRecord is one price history row: the best unit price seen for
// a group on one run date. Unique per (group_name, run_date); a rerun on the
// same date overwrites.
type PriceHistoryRecord struct {
	GroupName string  // Product group
	RunDate   string  // ISO date (YYYY-MM-DD)
	BestPrice float64 // Best normalized unit price that day
	BestItem  string  // Name of the best offer
	BestStore string  // Store of the best offer
	UnitLabel string  // Display label ("kr/kg")
}

// ItemHistoryRecord is one item history row: a single top-N entrant on one
// run date. Unique per (group_name, run_date, item_key).
type ItemHistoryRecord struct {
	GroupName string  // Product group
	RunDate   string  // ISO date (YYYY-MM-DD)
	ItemKey   string  // "source:source_id"
	ItemName  string  // Offer name
	UnitPrice float64 // Normalized unit price
	Price     float64 // Total price
	Store     string  // Store name
}
