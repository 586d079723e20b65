// Package importer implements the install pipeline: fetch raw basis files
// from a source, parse them into basis records, and commit them as a
// family in one all-or-nothing operation.
//
// An import is a linear walk through three phases, FETCHING, PARSING and
// COMMITTING. The first failure aborts the whole run: a basis family that
// silently omits an element is a correctness hazard for downstream
// calculations, so no partial family is ever published under a trusted
// label. Re-running an import whose label already exists fails with
// ALREADY_EXISTS instead of overwriting.
package importer
