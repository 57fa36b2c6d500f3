// Package pipeline runs the per-group processing chain.
//
// For each product group: filter → validate → normalize → deduplicate →
// rank → detect triggers. Each invocation works on its own deep copy of
// the input offers, so shared fetch caches are never mutated.
package pipeline
