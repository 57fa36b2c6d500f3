// Package etilbudsavis implements the Tjek (eTilbudsavis) catalog client.
//
// The client:
//   - Searches offers across catalogs near a configured location
//   - Filters out offers outside their validity window
//   - Fetches the full active Holdbart catalog by dealer id
//   - Converts raw catalog offers into the shared offer model
//
// API reference: https://squid-api.tjek.com/docs/
package etilbudsavis
