package descriptor

import "strings"

// Qualifier is a set of qualifiers applied to a descriptor.
type Qualifier uint8

const (
	QualConst    Qualifier = 1 << iota // const
	QualVolatile                       // volatile
	QualLRef                           // lvalue reference (&)
	QualRRef                           // rvalue reference (&&)
	QualPointer                        // Go pointer indirection (*T)

	QualNone Qualifier = 0
)

// Has reports whether all qualifiers in o are set in q.
func (q Qualifier) Has(o Qualifier) bool {
	return q&o == o
}

// String renders the qualifiers in declaration order, e.g. "const volatile &".
func (q Qualifier) String() string {
	var parts []string

	if q.Has(QualConst) {
		parts = append(parts, "const")
	}

	if q.Has(QualVolatile) {
		parts = append(parts, "volatile")
	}

	if q.Has(QualPointer) {
		parts = append(parts, "*")
	}

	if q.Has(QualLRef) {
		parts = append(parts, "&")
	}

	if q.Has(QualRRef) {
		parts = append(parts, "&&")
	}

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, " ")
}

// Qualified is a base descriptor carrying qualifiers. Only top-level
// qualifiers are stripped before resolution; qualifiers nested inside
// constructor arguments are part of the argument's identity.
type Qualified struct {
	Qual Qualifier
	Base Descriptor
}

func (q Qualified) Kind() Kind { return KindQualified }

func (q Qualified) String() string {
	var b strings.Builder

	if q.Qual.Has(QualConst) {
		b.WriteString("const ")
	}

	if q.Qual.Has(QualVolatile) {
		b.WriteString("volatile ")
	}

	if q.Qual.Has(QualPointer) {
		b.WriteString("*")
	}

	if q.Base != nil {
		b.WriteString(q.Base.String())
	}

	switch {
	case q.Qual.Has(QualRRef):
		b.WriteString("&&")
	case q.Qual.Has(QualLRef):
		b.WriteString("&")
	}

	return b.String()
}

// Qualify wraps d with q. Qualifying an already qualified descriptor merges
// the qualifier sets; an empty set returns d unchanged.
func Qualify(d Descriptor, q Qualifier) Descriptor {
	if q == QualNone || d == nil {
		return d
	}

	if inner, ok := d.(Qualified); ok && !inner.Qual.Has(QualPointer) && !q.Has(QualPointer) {
		return Qualified{Qual: inner.Qual | q, Base: inner.Base}
	}

	return Qualified{Qual: q, Base: d}
}

// Unqualify strips every top-level qualifier layer from d and returns the
// bare descriptor together with the union of the removed qualifiers.
func Unqualify(d Descriptor) (Descriptor, Qualifier) {
	var all Qualifier

	for {
		q, ok := d.(Qualified)
		if !ok {
			return d, all
		}

		all |= q.Qual
		d = q.Base
	}
}
