// Package family defines the basis-family aggregate: a labelled,
// insertion-ordered collection of basis records holding at most one record
// per element.
//
// Every mutation validates the exclusivity and element-match invariants
// before touching any state, and every multi-element lookup is
// all-or-nothing: a family never hands back a partial mapping silently.
package family
