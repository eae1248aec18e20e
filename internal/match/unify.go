package match

import (
	"slicetrait/descriptor"
)

// Unifiable reports whether some descriptor could be matched by both
// patterns. Variables of a and b are renamed apart first, so patterns that
// reuse a parameter name (both written over "T") do not interfere.
//
// Parameter packs are handled conservatively: a pack unifies with whatever
// remains of the other argument list, which may report an overlap that a
// finer analysis would rule out, never the reverse.
func Unifiable(a, b descriptor.Descriptor) bool {
	s := subst{}
	return s.unify(renameVars(a, "a."), renameVars(b, "b."))
}

// MoreSpecific reports whether a is strictly more specialised than b: every
// descriptor matched by a is matched by b, but not the other way round.
//
// Between patterns, a qualified constructor name is more specific than its
// unqualified base name: "a::X<T>" is an instance of "X<T>", not the reverse.
func MoreSpecific(a, b descriptor.Descriptor) bool {
	return instanceOf(a, b) && !instanceOf(b, a)
}

// Equivalent reports whether a and b match exactly the same descriptors,
// i.e. they are equal up to renaming of variables.
func Equivalent(a, b descriptor.Descriptor) bool {
	return instanceOf(a, b) && instanceOf(b, a)
}

// instanceOf reports whether every descriptor matched by specific is also
// matched by general.
func instanceOf(specific, general descriptor.Descriptor) bool {
	_, ok := matchWith(general, specific, descriptor.CoversName)
	return ok
}

type subst map[string]descriptor.Descriptor

func (s subst) walk(d descriptor.Descriptor) descriptor.Descriptor {
	for {
		v, ok := d.(descriptor.Var)
		if !ok || v.Variadic {
			return d
		}

		next, bound := s[v.Name]
		if !bound {
			return d
		}

		d = next
	}
}

func (s subst) unify(x, y descriptor.Descriptor) bool {
	x, y = s.walk(x), s.walk(y)

	if xv, ok := x.(descriptor.Var); ok {
		return s.bindVar(xv, y)
	}

	if yv, ok := y.(descriptor.Var); ok {
		return s.bindVar(yv, x)
	}

	switch xt := x.(type) {
	case descriptor.Con:
		yt, ok := y.(descriptor.Con)

		return ok && descriptor.SameName(xt.Name, yt.Name) && s.unifyArgs(xt.Args, yt.Args)

	case descriptor.Qualified:
		yt, ok := y.(descriptor.Qualified)

		return ok && xt.Qual == yt.Qual && s.unify(xt.Base, yt.Base)

	case descriptor.Pack:
		yt, ok := y.(descriptor.Pack)

		return ok && s.unifyArgs(xt.Elems, yt.Elems)

	case descriptor.InvalidType:
		return false

	default:
		return descriptor.Equal(x, y)
	}
}

func (s subst) bindVar(v descriptor.Var, d descriptor.Descriptor) bool {
	if dv, ok := d.(descriptor.Var); ok && dv.Name == v.Name {
		return true
	}

	if s.occurs(v.Name, d) {
		return false
	}

	s[v.Name] = d

	return true
}

func (s subst) unifyArgs(xs, ys []descriptor.Descriptor) bool {
	for i := 0; ; i++ {
		xDone, yDone := i >= len(xs), i >= len(ys)

		if !xDone {
			if v, ok := xs[i].(descriptor.Var); ok && v.Variadic {
				return s.bindPack(v, ys[min(i, len(ys)):])
			}
		}

		if !yDone {
			if v, ok := ys[i].(descriptor.Var); ok && v.Variadic {
				return s.bindPack(v, xs[min(i, len(xs)):])
			}
		}

		if xDone || yDone {
			return xDone && yDone
		}

		if !s.unify(xs[i], ys[i]) {
			return false
		}
	}
}

func (s subst) bindPack(v descriptor.Var, rest []descriptor.Descriptor) bool {
	if prev, ok := s[v.Name]; ok {
		if p, isPack := prev.(descriptor.Pack); isPack {
			return s.unifyArgs(p.Elems, rest)
		}

		return false
	}

	s[v.Name] = descriptor.Pack{Elems: rest}

	return true
}

func (s subst) occurs(name string, d descriptor.Descriptor) bool {
	found := false

	descriptor.Walk(s.walk(d), func(n descriptor.Descriptor) {
		if found {
			return
		}

		v, ok := n.(descriptor.Var)
		if !ok {
			return
		}

		if v.Name == name {
			found = true
			return
		}

		if bound, isBound := s[v.Name]; isBound && !v.Variadic {
			found = s.occurs(name, bound)
		}
	})

	return found
}

func renameVars(d descriptor.Descriptor, prefix string) descriptor.Descriptor {
	switch t := d.(type) {
	case descriptor.Var:
		return descriptor.Var{Name: prefix + t.Name, Variadic: t.Variadic}
	case descriptor.Con:
		if t.Args == nil {
			return t
		}

		args := make([]descriptor.Descriptor, len(t.Args))
		for i, a := range t.Args {
			args[i] = renameVars(a, prefix)
		}

		return descriptor.Con{Name: t.Name, Args: args}
	case descriptor.Qualified:
		return descriptor.Qualified{Qual: t.Qual, Base: renameVars(t.Base, prefix)}
	case descriptor.Pack:
		elems := make([]descriptor.Descriptor, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = renameVars(e, prefix)
		}

		return descriptor.Pack{Elems: elems}
	default:
		return d
	}
}
