package model

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies where an offer was fetched from.
type Source string

const (
	// SourceEtilbudsavis is the Tjek/eTilbudsavis catalog API. Catalog
	// offers are unique per retailer and are never merged across stores.
	SourceEtilbudsavis Source = "etilbudsavis"

	// SourceKassal is the kassal.app retailer search API.
	SourceKassal Source = "kassal"

	// SourceOnlineStore covers scraped online grocery stores (Meny, Spar,
	// Joker via the ngdata API, Oda via DOM scraping).
	SourceOnlineStore Source = "onlinestore"

	// SourceCoop is the coop.no weekly offers listing (Extra, Coop Mega,
	// Coop Prix, Obs).
	SourceCoop Source = "coop"
)

// Mergeable reports whether offers from this source describe the same
// physical product across stores and may be collapsed by cross-store dedup.
func (s Source) Mergeable() bool {
	switch s {
	case SourceKassal, SourceOnlineStore, SourceCoop:
		return true
	}
	return false
}

// Unit is a canonical comparison unit for a product group.
type Unit string

const (
	UnitKilogram Unit = "kilogram"
	UnitLiter    Unit = "liter"
	UnitPiece    Unit = "piece"
)

// Label returns the display label for prices in this unit (e.g. "kr/kg").
func (u Unit) Label() string {
	switch u {
	case UnitKilogram:
		return "kr/kg"
	case UnitLiter:
		return "kr/l"
	case UnitPiece:
		return "kr/stk"
	}
	return "kr/?"
}

// Short returns the bare unit abbreviation (e.g. "kg").
func (u Unit) Short() string {
	switch u {
	case UnitKilogram:
		return "kg"
	case UnitLiter:
		return "l"
	case UnitPiece:
		return "stk"
	}
	return string(u)
}

// Offer is a source-agnostic offer record. Fetchers produce it, the pipeline
// augments it; a fetched offer is never mutated in place across groups (see
// CloneAll).
type Offer struct {
	Source   Source // Origin of the record
	SourceID string // Source-local ID, may be empty
	Name     string // Product name as published
	Price    float64 // Total price in kroner

	// Optional quantity information
	Weight     float64 // Net quantity (weight or volume), 0 if unknown
	WeightUnit string  // Raw unit for Weight ("g", "kg", "dl", ...), "" if unknown
	PackSize   int     // Number of pieces in the pack, 0 if unknown

	// Optional pre-computed unit price from the source
	UnitPrice float64 // Price per BaseUnit, 0 if absent
	BaseUnit  string  // Raw base unit for UnitPrice, "" if unknown

	Store    string // Store or chain name, free text
	Category string // Source category, "" if unknown
	EAN      string // Product barcode, "" if unknown

	ValidFrom  time.Time // Offer validity start, zero if unknown
	ValidUntil time.Time // Offer validity end, zero if unknown

	URL      string   // Link to the offer or product page
	AltURLs  []string // Alternate links after a cross-store merge
	Image    string   // Product image URL
	Promos   []string // Promotion labels ("3 for 2", "Spar 20 kr", ...)

	// Set by the normalizer; 0 means not yet normalized
	NormalizedUnitPrice float64 // Price per TargetUnit, rounded to 2 decimals
	TargetUnit          Unit    // Comparison unit of the owning group
}

// Key returns the stable item identity "source:source_id" used for
// cross-run top-N tracking.
func (o *Offer) Key() string {
	return string(o.Source) + ":" + o.SourceID
}

// HasUnitPrice reports whether the source supplied a unit price.
func (o *Offer) HasUnitPrice() bool {
	return o.UnitPrice > 0
}

// Clone returns a deep copy of the offer.
func (o *Offer) Clone() *Offer {
	c := *o
	if o.AltURLs != nil {
		c.AltURLs = append([]string(nil), o.AltURLs...)
	}
	if o.Promos != nil {
		c.Promos = append([]string(nil), o.Promos...)
	}
	return &c
}

// CloneAll deep-copies a slice of offers. Shared fetch caches must be cloned
// before being handed to a group pipeline so per-group enrichment never leaks
// into another group's view.
func CloneAll(offers []*Offer) []*Offer {
	out := make([]*Offer, len(offers))
	for i, o := range offers {
		out[i] = o.Clone()
	}
	return out
}

// TriggerType classifies an alert event.
type TriggerType string

const (
	TriggerNewBest        TriggerType = "new_best"
	TriggerBelowThreshold TriggerType = "below_threshold"
	TriggerPriceDrop      TriggerType = "price_drop"
	TriggerEntersTopN     TriggerType = "enters_top_n"
)

// Trigger is an ephemeral alert event derived each run from the history
// store and the current ranked list. It is handed to notification rendering
// and then discarded, never persisted.
type Trigger struct {
	Type    TriggerType // Event classification
	Group   string      // Product group name
	Message string      // Human-readable alert text
	Item    string      // Offer name the trigger refers to
	Price   float64     // Normalized unit price of that offer
}

// RunID identifies one pipeline invocation in logs and preview snapshots.
type RunID = uuid.UUID

// NewRunID returns a fresh run identifier.
func NewRunID() RunID {
	return uuid.New()
}
