package descriptor

import (
	"reflect"
	"strconv"
	"strings"
)

// FromReflect derives a descriptor from a Go type.
//
// Named types become Con descriptors qualified by their package path, with
// generic type arguments parsed from the instantiated type name:
// containers.Dense2D[int] becomes "example.com/containers.Dense2D<int>".
// Pointer indirection becomes a QualPointer layer, which resolution strips.
// Unnamed types other than slices and arrays, and type arguments that do not
// parse (maps, funcs, struct literals), become argument-less Con descriptors
// named after reflect's string form.
func FromReflect(t reflect.Type) Descriptor {
	if t == nil {
		return Invalid
	}

	depth, base := ptrDepthAndBase(t)

	d := fromBase(base)
	for range depth {
		d = Qualified{Qual: QualPointer, Base: d}
	}

	return d
}

func fromBase(t reflect.Type) Descriptor {
	switch {
	case t.Name() == "" && t.Kind() == reflect.Slice:
		return Con{Name: SliceName, Args: []Descriptor{FromReflect(t.Elem())}}
	case t.Name() == "" && t.Kind() == reflect.Array:
		return Con{Name: "[" + strconv.Itoa(t.Len()) + "]", Args: []Descriptor{FromReflect(t.Elem())}}
	case t.Name() == "":
		return Con{Name: t.String()}
	}

	name := t.Name()
	if t.PkgPath() != "" {
		name = t.PkgPath() + "." + name
	}

	return fromTypeName(name)
}

// fromTypeName parses a reflect type name. When the whole name does not
// parse, the type arguments of an instantiated generic are split and parsed
// one by one, and only the arguments that still fail become opaque Con
// descriptors: "pkg.Grid[map[string]int]" is pkg.Grid<map[string]int>.
func fromTypeName(name string) Descriptor {
	if d, err := Parse(name); err == nil {
		return d
	}

	head, args, ok := splitTypeArgs(name)
	if !ok {
		return Con{Name: name}
	}

	con := Con{Name: head, Args: make([]Descriptor, 0, len(args))}
	for _, a := range args {
		con.Args = append(con.Args, fromTypeName(a))
	}

	return con
}

// splitTypeArgs splits "head[a, b]" into head and its top-level arguments.
// Brackets, parentheses and braces nest; commas inside them do not split.
func splitTypeArgs(name string) (string, []string, bool) {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return "", nil, false
	}

	head := name[:open]
	if strings.ContainsAny(head, " ({") {
		return "", nil, false
	}

	var (
		args  []string
		depth int
		start = open + 1
	)

	inner := len(name) - 1

	for i := start; i < inner; i++ {
		switch name[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth < 0 {
				return "", nil, false
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(name[start:i]))
				start = i + 1
			}
		}
	}

	if depth != 0 {
		return "", nil, false
	}

	last := strings.TrimSpace(name[start:inner])
	if last == "" {
		return "", nil, false
	}

	return head, append(args, last), true
}

// ptrDepthAndBase returns the pointer depth and the final base type.
func ptrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for base.Kind() == reflect.Ptr && base.Name() == "" {
		depth++
		base = base.Elem()
	}

	return depth, base
}
