// Package coop scrapes weekly offers from coop.no.
//
// One listing page exists per chain (Extra, Coop Mega, Coop Prix, Obs).
// Each offer article carries the product name, an EAN in the detail
// link, a split kroner/øre price and a "Pr kg"-style unit price.
// Percentage-only discounts have no usable price and are skipped.
package coop
