// Package mapping provides the YAML schema, parsing, validation and
// registration of trait mapping files.
//
// Mapping files let users add slice traits for their own containers
// without writing Go code. Every entry becomes one trait.Mapping per axis
// it lists.
//
// # Schema Overview
//
//	version: "1"
//	axes: [colslice]                   # optional extra axes
//	traits:
//	  - axis: [rowslice, quatslice]    # string or list
//	    params: [T]
//	    container: DynamicTensor<T>
//	    index: "*"                      # "*" or omitted: uniform stage, integer: that index only
//	    result: DynamicMatrix<T, rowMajor>
//	  - axis: rowslice
//	    params: [TT, CSAs...]
//	    container: Subtensor<TT, CSAs...>
//	    forward: TT                     # slice like the wrapped container
//
// Identifiers listed in params are pattern variables; "P..." declares a
// parameter pack, which must be the last argument it appears in. Exactly one
// of result and forward must be given.
//
// # Checks
//
// Validate reports problems as diagnostics without touching a registry:
// unknown axes (with suggestions), unparsable descriptors, result variables
// the container does not bind, bad indices, duplicate entries and entries
// that overlap without one being more specific. Apply registers the entries
// and returns the registry's error for the first entry it rejects.
package mapping
