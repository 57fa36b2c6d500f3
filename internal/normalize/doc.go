// Package normalize converts heterogeneous offer price/weight/pack fields
// into a canonical price per target unit (kr/kg, kr/l or kr/stk).
//
// Offers whose unit price cannot be derived are dropped, never retained with
// a zero value. The stage has no side effects beyond augmenting offers and
// never returns an error.
package normalize
