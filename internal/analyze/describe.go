package analyze

import (
	"go/types"
	"strconv"

	"slicetrait/descriptor"
)

// Describe converts a go/types type to a descriptor, following the same
// conventions as descriptor.FromReflect: named types are qualified by their
// package path, pointers become pointer qualifiers, and unnamed slices and
// arrays become "[]" and "[N]" constructors. Type parameters become pattern
// variables, and an uninstantiated generic type is described with its
// parameters as arguments.
func Describe(t types.Type) descriptor.Descriptor {
	switch tt := t.(type) {
	case nil:
		return descriptor.Invalid

	case *types.TypeParam:
		return descriptor.Var{Name: tt.Obj().Name()}

	case *types.Named:
		return describeNamed(tt)

	case *types.Alias:
		return Describe(types.Unalias(tt))

	case *types.Pointer:
		return descriptor.Qualify(Describe(tt.Elem()), descriptor.QualPointer)

	case *types.Slice:
		return descriptor.Con{Name: descriptor.SliceName, Args: []descriptor.Descriptor{Describe(tt.Elem())}}

	case *types.Array:
		return descriptor.Con{
			Name: "[" + strconv.FormatInt(tt.Len(), 10) + "]",
			Args: []descriptor.Descriptor{Describe(tt.Elem())},
		}

	case *types.Basic:
		return descriptor.Con{Name: tt.Name()}

	default:
		return descriptor.Con{Name: t.String()}
	}
}

func describeNamed(named *types.Named) descriptor.Descriptor {
	obj := named.Obj()

	name := obj.Name()
	if obj.Pkg() != nil {
		name = obj.Pkg().Path() + "." + name
	}

	con := descriptor.Con{Name: name}

	if targs := named.TypeArgs(); targs.Len() > 0 {
		for i := range targs.Len() {
			con.Args = append(con.Args, Describe(targs.At(i)))
		}

		return con
	}

	tparams := named.TypeParams()
	for i := range tparams.Len() {
		con.Args = append(con.Args, descriptor.Var{Name: tparams.At(i).Obj().Name()})
	}

	return con
}
