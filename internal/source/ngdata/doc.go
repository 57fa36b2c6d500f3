// Package ngdata fetches products from the NorgesGruppen store APIs.
//
// Meny, Spar and Joker all run on the same platform-rest-prod.ngdata.no
// backend. Category pages on the store websites map to API facet
// strings; configured store URLs are translated to facets and fetched
// through the product search endpoint.
package ngdata
