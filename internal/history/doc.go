// Package history persists per-group price history across runs.
//
// Two tables back the store:
//   - price_history: one row per (group_name, run_date) with the best unit
//     price seen that day
//   - item_history: one row per (group_name, run_date, item_key) for top-N
//     tracking
//
// Both use upsert-per-day semantics, making a run idempotent per calendar
// day. SQLite (default, single-binary local mode) and PostgreSQL backends
// implement the same Store interface.
package history
