// Package oda scrapes product listings from oda.com.
//
// Oda renders everything client-side, so pages are loaded in headless
// Chrome and product cards are read from the live DOM. Card text is
// unstructured; prices, unit prices, pack sizes and weights are picked
// out of it heuristically.
package oda
