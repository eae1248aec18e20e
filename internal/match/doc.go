// Package match implements structural pattern matching over type descriptors
// and fuzzy name ranking for "did you mean" suggestions.
//
// Key functions:
//   - Match: one-way matching of a registry pattern against a concrete descriptor
//   - Substitute: instantiates a result template with the bindings of a match
//   - Unifiable: two-way unification, used to detect overlapping patterns
//   - MoreSpecific: partial ordering between overlapping patterns
//   - Suggest: ranks known container names by similarity to an unknown one
package match
