// Package kassal integrates the kassal.app price database.
//
// Two halves:
//   - A product search client for the kassal.app REST API
//   - A liveness validator that checks product pages for active price
//     listings, drops dead products, cross-checks the API price against
//     the page and rewrites stale product links to store search pages
package kassal
