// Package trait resolves the result type of slicing a multi-dimensional
// container along an axis.
//
// A Registry holds mappings from container patterns to result descriptors,
// grouped by Axis. An Engine answers questions for one axis:
//
//	t := trait.RowSliceTrait(descriptor.MustParse("const DynamicTensor<int>&"), 2)
//	t.Type // DynamicMatrix<int, rowMajor>
//
// Resolution runs in two stages. The indexed stage looks for a mapping
// registered for the requested static index; without one the request is
// treated as if no index had been given and the uniform stage looks for a
// mapping valid at every index. Without that either, the result is
// descriptor.Invalid. Qualifiers (const, volatile, references, Go pointers)
// are stripped before lookup and never change the result.
//
// Resolution never fails. Callers that need a valid type use Require or
// Trait.Err to turn INVALID into an error.
//
// Mappings are registered at startup, typically from init functions:
//
//	func init() {
//		trait.MustRegister(
//			trait.MustDefine(trait.RowSlice, "Dense2D<T>", "View2D<T, rowMajor>", "T"),
//		)
//	}
//
// Registering a mapping that overlaps an existing one without being strictly
// more or less specific fails with ErrAmbiguousMapping, so resolution never
// has to choose between equally good candidates.
package trait
