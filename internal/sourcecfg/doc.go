// Package sourcecfg holds the source descriptor registry: the mapping from
// a source name to the archive or per-element URL template, the valid
// versions and tiers, and the label template used when installing a basis
// family from it.
//
// The registry ships with built-in descriptors for the OpenMX PAO
// distribution and the Basis Set Exchange, and can be extended with
// user-supplied CUE descriptor files (validated against an embedded schema)
// or a single YAML descriptor.
package sourcecfg
