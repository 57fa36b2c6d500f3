// Package cache holds raw offers fetched during a run.
//
// Sources are fetched once per run; every product group reads the same
// snapshot. Readers always get deep copies, so downstream stages can
// mutate their slice freely without corrupting the shared data.
package cache
