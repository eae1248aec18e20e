package trait

import (
	"reflect"

	"slicetrait/descriptor"
)

// Default is the process-wide registry used by the package-level functions.
// Mapping packages register into it from init functions.
var Default = NewRegistry()

// For returns the engine of Default for axis.
func For(axis Axis) *Engine {
	return Default.Engine(axis)
}

// Register adds m to Default.
func Register(m Mapping) error {
	return Default.Register(m)
}

// MustRegister adds every mapping to Default and panics on the first error.
func MustRegister(ms ...Mapping) {
	Default.MustRegister(ms...)
}

// ParseAxis looks up an axis of Default by any of its spellings.
func ParseAxis(name string) (Axis, error) {
	return Default.Axis(name)
}

// RowSliceTrait resolves the row-slice trait of container with zero or one index.
func RowSliceTrait(container descriptor.Descriptor, index ...uint) Trait {
	return For(RowSlice).Resolve(container, index...)
}

// RowSliceTraitT is the result type of RowSliceTrait.
func RowSliceTraitT(container descriptor.Descriptor, index ...uint) descriptor.Descriptor {
	return RowSliceTrait(container, index...).Type
}

// QuatSliceTrait resolves the quat-slice trait of container with zero or one index.
func QuatSliceTrait(container descriptor.Descriptor, index ...uint) Trait {
	return For(QuatSlice).Resolve(container, index...)
}

// QuatSliceTraitT is the result type of QuatSliceTrait.
func QuatSliceTraitT(container descriptor.Descriptor, index ...uint) descriptor.Descriptor {
	return QuatSliceTrait(container, index...).Type
}

// ResolveFor resolves the trait of the Go type C on axis.
// See descriptor.FromReflect for how C is described.
func ResolveFor[C any](axis Axis, index ...uint) Trait {
	return For(axis).Resolve(descriptor.FromReflect(reflect.TypeFor[C]()), index...)
}
