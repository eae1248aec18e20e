package descriptor

import (
	"strconv"
	"strings"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind identifies the variant of a Descriptor.
type Kind int

const (
	KindInvalid   Kind = iota // the INVALID sentinel
	KindCon                   // named type constructor
	KindValue                 // non-type argument
	KindVar                   // pattern variable
	KindPack                  // captured variadic arguments
	KindQualified             // qualified descriptor

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// Descriptor is the common interface of all type descriptors.
type Descriptor interface {
	Kind() Kind
	String() string
}

// Bindings maps pattern variable names to the descriptors they matched.
type Bindings map[string]Descriptor

// Names of the synthetic constructors produced for Go composite types.
const (
	SliceName   = "[]"
	PointerName = "*"
)

// Con is a named type constructor applied to zero or more arguments.
type Con struct {
	Name string
	Args []Descriptor
}

func (c Con) Kind() Kind { return KindCon }

func (c Con) String() string {
	switch {
	case c.Name == SliceName || isArrayName(c.Name):
		if len(c.Args) == 1 {
			return c.Name + c.Args[0].String()
		}
	case c.Name == PointerName:
		if len(c.Args) == 1 {
			return c.Args[0].String() + "*"
		}
	}

	if len(c.Args) == 0 {
		return c.Name
	}

	return c.Name + "<" + joinDescriptors(c.Args) + ">"
}

// Base returns the unqualified constructor name (see BaseName).
func (c Con) Base() string {
	return BaseName(c.Name)
}

// Value is a non-type argument such as an integer extent or a boolean flag.
type Value struct {
	Text string
}

func (v Value) Kind() Kind     { return KindValue }
func (v Value) String() string { return v.Text }

// Var is a pattern variable. A variadic Var captures all remaining arguments
// and may only appear last in an argument list.
type Var struct {
	Name     string
	Variadic bool
}

func (v Var) Kind() Kind { return KindVar }

func (v Var) String() string {
	if v.Variadic {
		return v.Name + "..."
	}

	return v.Name
}

// Pack holds the arguments matched by a variadic Var. Substituting a Pack
// into an argument list splices its elements in place.
type Pack struct {
	Elems []Descriptor
}

func (p Pack) Kind() Kind     { return KindPack }
func (p Pack) String() string { return joinDescriptors(p.Elems) }

// InvalidType is the INVALID sentinel descriptor.
type InvalidType struct{}

func (InvalidType) Kind() Kind     { return KindInvalid }
func (InvalidType) String() string { return invalidName }

const invalidName = "INVALID_TYPE"

// Invalid is the single INVALID sentinel value.
var Invalid Descriptor = InvalidType{}

// IsInvalid reports whether d is the INVALID sentinel (or nil).
func IsInvalid(d Descriptor) bool {
	return d == nil || d.Kind() == KindInvalid
}

// Equal reports whether two descriptors are structurally identical.
func Equal(a, b Descriptor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case Con:
		y := b.(Con)
		return x.Name == y.Name && equalSlices(x.Args, y.Args)
	case Value:
		return x.Text == b.(Value).Text
	case Var:
		y := b.(Var)
		return x.Name == y.Name && x.Variadic == y.Variadic
	case Pack:
		return equalSlices(x.Elems, b.(Pack).Elems)
	case Qualified:
		y := b.(Qualified)
		return x.Qual == y.Qual && Equal(x.Base, y.Base)
	case InvalidType:
		return true
	default:
		return false
	}
}

func equalSlices(a, b []Descriptor) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

// Vars returns the names of all pattern variables in d, in first-occurrence order.
func Vars(d Descriptor) []string {
	var (
		out  []string
		seen = map[string]struct{}{}
	)

	Walk(d, func(n Descriptor) {
		if v, ok := n.(Var); ok {
			if _, dup := seen[v.Name]; !dup {
				seen[v.Name] = struct{}{}
				out = append(out, v.Name)
			}
		}
	})

	return out
}

// Key returns an encoding of d that identifies it up to Equal. Unlike
// String, descriptors of different kinds never share a key: Con{T},
// Var{T} and Value{T} all print "T" but have distinct keys.
func Key(d Descriptor) string {
	var b strings.Builder
	writeKey(&b, d)

	return b.String()
}

func writeKey(b *strings.Builder, d Descriptor) {
	writeText := func(tag byte, s string) {
		b.WriteByte(tag)
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}

	writeList := func(ds []Descriptor) {
		b.WriteByte('(')

		for _, x := range ds {
			writeKey(b, x)
		}

		b.WriteByte(')')
	}

	switch x := d.(type) {
	case nil:
		b.WriteByte('0')
	case Con:
		writeText('C', x.Name)
		writeList(x.Args)
	case Value:
		writeText('L', x.Text)
	case Var:
		if x.Variadic {
			writeText('P', x.Name)
		} else {
			writeText('V', x.Name)
		}
	case Pack:
		b.WriteByte('K')
		writeList(x.Elems)
	case Qualified:
		b.WriteByte('Q')
		b.WriteString(strconv.Itoa(int(x.Qual)))
		writeList([]Descriptor{x.Base})
	case InvalidType:
		b.WriteByte('I')
	default:
		writeText('?', d.String())
	}
}

// IsGround reports whether d contains no pattern variables.
func IsGround(d Descriptor) bool {
	return len(Vars(d)) == 0
}

// Walk calls fn for d and every descriptor nested inside it, depth first.
func Walk(d Descriptor, fn func(Descriptor)) {
	if d == nil {
		return
	}

	fn(d)

	switch x := d.(type) {
	case Con:
		for _, a := range x.Args {
			Walk(a, fn)
		}
	case Pack:
		for _, e := range x.Elems {
			Walk(e, fn)
		}
	case Qualified:
		Walk(x.Base, fn)
	}
}

// BaseName strips namespace and package qualification from a constructor name:
// "blaze::DynamicTensor", "pkg.Dense2D" and "example.com/pkg.Dense2D" all
// have the base names "DynamicTensor" and "Dense2D".
func BaseName(name string) string {
	if name == SliceName || name == PointerName || isArrayName(name) {
		return name
	}

	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}

	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return name
}

// IsQualifiedName reports whether name carries a namespace or package prefix.
func IsQualifiedName(name string) bool {
	return BaseName(name) != name
}

// SameName reports whether a pattern constructor name matches a concrete one.
// Names match when equal, or when either side is unqualified and the base
// names agree.
func SameName(a, b string) bool {
	if a == b {
		return true
	}

	if IsQualifiedName(a) && IsQualifiedName(b) {
		return false
	}

	return BaseName(a) == BaseName(b)
}

// CoversName reports whether a pattern named general accepts every name a
// pattern named specific accepts. An unqualified name covers its qualified
// forms; a qualified name covers only itself.
func CoversName(general, specific string) bool {
	if general == specific {
		return true
	}

	return !IsQualifiedName(general) && BaseName(general) == BaseName(specific)
}

func joinDescriptors(ds []Descriptor) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		if d == nil {
			parts[i] = "<nil>"
			continue
		}

		parts[i] = d.String()
	}

	return strings.Join(parts, ", ")
}

func isArrayName(name string) bool {
	if len(name) < 3 || name[0] != '[' || name[len(name)-1] != ']' {
		return false
	}

	for _, r := range name[1 : len(name)-1] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
