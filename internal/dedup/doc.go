// Package dedup collapses duplicate and overlapping offer records.
//
// Deduplication runs in two stages:
//
//   - Stage A: exact/near-exact identity collapse over a set of seen keys
//     (source:source_id, then name:store:price, then a weight-stripped
//     name variant). First occurrence wins.
//   - Stage B: cross-store merge for mergeable sources only. The same
//     product (by EAN, else name) offered at several stores keeps only the
//     cheapest offer; stores tied within a small tolerance are merged into
//     one record with a combined store name.
//
// Catalog offers (etilbudsavis) are never merged across stores; each
// catalog offer is unique per retailer by construction.
package dedup
