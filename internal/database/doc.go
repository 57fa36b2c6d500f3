// Package database creates PostgreSQL connection pools for the price
// history store.
package database
