// Package model defines shared data types used across the billigst-mat pipeline.
//
// Conventions:
//   - Prices: float64 Norwegian kroner; normalized unit prices rounded to 2 decimals
//   - Timestamps: time.Time in UTC; history rows are keyed by ISO date
//   - Identity: Source + SourceID ("kassal:123"); uuid.UUID for run IDs
package model
