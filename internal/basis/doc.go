// Package basis defines the record model for per-element basis data.
//
// A Record holds the raw basis-function payload for a single chemical
// element together with its parsed metadata. Records are immutable once
// constructed: there are no setters, and "modifying" a basis means
// constructing a new record.
//
// The package also owns the fixed periodic-table symbol set used to
// validate element symbols, the PAO content parser, and the error
// taxonomy shared by the family, store and importer layers.
package basis
