// Package tensors registers the slice traits of the Blaze tensor types.
//
// Importing the package (for side effects if nothing else) adds the mappings
// to trait.Default for both built-in axes. Every dense tensor slices to a
// row-major DynamicMatrix of its element type, the compressed tensor to a
// row-major CompressedMatrix, and views and adaptors slice like the tensor
// they wrap:
//
//	import _ "slicetrait/tensors"
//
//	trait.RowSliceTraitT(descriptor.MustParse("blaze::StaticTensor<float, 2, 3, 4>"))
//	// DynamicMatrix<float, rowMajor>
//
// Patterns are unqualified, so both "DynamicTensor<int>" and
// "blaze::DynamicTensor<int>" match.
package tensors

import (
	"github.com/cockroachdb/errors"

	"slicetrait/trait"
)

// RowMajor is the storage order of every built-in result matrix.
const RowMajor = "rowMajor"

// Container and result type names.
const (
	DynamicTensor    = "DynamicTensor"
	CustomTensor     = "CustomTensor"
	UniformTensor    = "UniformTensor"
	StaticTensor     = "StaticTensor"
	HybridTensor     = "HybridTensor"
	CompressedTensor = "CompressedTensor"
	Subtensor        = "Subtensor"
	DTensTransposer  = "DTensTransposer"

	DynamicMatrix    = "DynamicMatrix"
	CompressedMatrix = "CompressedMatrix"
)

// Source is the Mapping.Source of every built-in mapping.
const Source = "slicetrait/tensors"

type definition struct {
	container string
	result    string // empty for forwarding adaptors
	params    []string
}

var definitions = []definition{
	{DynamicTensor + "<T>", DynamicMatrix + "<T, " + RowMajor + ">", []string{"T"}},
	{CustomTensor + "<T, AF, PF, RT>", DynamicMatrix + "<T, " + RowMajor + ">", []string{"T", "AF", "PF", "RT"}},
	{UniformTensor + "<T>", DynamicMatrix + "<T, " + RowMajor + ">", []string{"T"}},
	{StaticTensor + "<T, O, M, N>", DynamicMatrix + "<T, " + RowMajor + ">", []string{"T", "O", "M", "N"}},
	{HybridTensor + "<T, O, M, N>", DynamicMatrix + "<T, " + RowMajor + ">", []string{"T", "O", "M", "N"}},
	{CompressedTensor + "<T>", CompressedMatrix + "<T, " + RowMajor + ">", []string{"T"}},
	{Subtensor + "<TT, CSAs...>", "", []string{"TT", "CSAs..."}},
	// A transposer permutes axes, so slicing it along one axis slices the
	// wrapped tensor along another. Forwarding on the same axis is only
	// correct while every mapping here yields the same type on both axes.
	{DTensTransposer + "<TT, CTAs...>", "", []string{"TT", "CTAs..."}},
}

// Mappings returns the built-in mapping set for axis.
func Mappings(axis trait.Axis) ([]trait.Mapping, error) {
	out := make([]trait.Mapping, 0, len(definitions))

	for _, def := range definitions {
		var (
			m   trait.Mapping
			err error
		)

		if def.result == "" {
			m, err = trait.DefineForward(axis, def.container, def.params[0], def.params...)
		} else {
			m, err = trait.Define(axis, def.container, def.result, def.params...)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "built-in mapping %s", def.container)
		}

		out = append(out, m.From(Source))
	}

	return out, nil
}

// RegisterInto adds the built-in set to reg for the row-slice and quat-slice axes.
func RegisterInto(reg *trait.Registry) error {
	for _, axis := range []trait.Axis{trait.RowSlice, trait.QuatSlice} {
		ms, err := Mappings(axis)
		if err != nil {
			return err
		}

		for _, m := range ms {
			if err := reg.Register(m); err != nil {
				return err
			}
		}
	}

	return nil
}

func init() {
	if err := RegisterInto(trait.Default); err != nil {
		panic(err)
	}
}
