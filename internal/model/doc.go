// Package model defines the core data structures shared across casescan:
// volumes, pages, comparisons, search results, extracted legal fields,
// and progress events.
//
// The types in this package are pure data with small helper methods.
// They carry no I/O and no dependencies on other internal packages, so
// every other package can import them without cycles.
package model
