// Package descriptor models type descriptors: opaque, immutable identifiers
// for container types and the result types produced by slicing them.
//
// A descriptor is one of:
//   - Con: a named type constructor applied to arguments, e.g. "DynamicTensor<int>"
//   - Value: a non-type argument, e.g. "3" or "false"
//   - Var: a pattern variable, only meaningful inside registry patterns
//   - Pack: the arguments captured by a variadic pattern variable
//   - Qualified: a const / volatile / reference / pointer qualified descriptor
//   - InvalidType: the INVALID sentinel returned when no mapping applies
//
// # Syntax
//
// Parse accepts C++-style ("StaticTensor<float, 2, 3, 4>") and Go-style
// ("Dense2D[int]") argument lists, qualified names ("blaze::DynamicTensor",
// "example.com/pkg.Dense2D"), leading "const"/"volatile", a leading Go pointer
// "*", and trailing "&" / "&&" reference markers:
//
//	const volatile blaze::DynamicTensor<int>&
//	*containers.Dense2D[float64]
//
// ParsePattern additionally turns the listed parameter names into Var
// descriptors, and "Name..." into a variadic Var.
package descriptor
