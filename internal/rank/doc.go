// Package rank sorts normalized offers into per-group leaderboards and
// detects alert-worthy price changes against the persisted price history.
//
// Trigger detection is a pure function of the history store and the current
// ranked list; no state is held in memory across runs. After the checks the
// run is committed to the store, which is what makes tomorrow's comparisons
// possible.
package rank
