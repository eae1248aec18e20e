package match

import (
	"slices"

	"github.com/cockroachdb/errors"

	"slicetrait/descriptor"
)

// ErrUnbound is returned when a template references a variable the match did not bind.
var ErrUnbound = errors.New("unbound pattern variable")

// Match matches pattern against concrete and returns the variable bindings.
//
// Variables in pattern bind to whole sub-descriptors of concrete; a variable
// occurring more than once must bind structurally equal descriptors. A
// variadic variable binds the remaining arguments as a descriptor.Pack.
// Variables occurring in concrete are treated as opaque constants, so Match
// also decides whether one pattern is an instance of another.
func Match(pattern, concrete descriptor.Descriptor) (descriptor.Bindings, bool) {
	return matchWith(pattern, concrete, descriptor.SameName)
}

// nameFunc decides whether a pattern constructor name accepts another name.
type nameFunc func(pattern, name string) bool

func matchWith(pattern, concrete descriptor.Descriptor, names nameFunc) (descriptor.Bindings, bool) {
	b := descriptor.Bindings{}
	if !matchInto(pattern, concrete, b, names) {
		return nil, false
	}

	return b, true
}

func matchInto(p, c descriptor.Descriptor, b descriptor.Bindings, names nameFunc) bool {
	if p == nil || c == nil {
		return false
	}

	switch pt := p.(type) {
	case descriptor.Var:
		if cv, ok := c.(descriptor.Var); ok && cv.Variadic && !pt.Variadic {
			return false
		}

		return bind(pt.Name, c, b)

	case descriptor.Con:
		ct, ok := c.(descriptor.Con)
		if !ok || !names(pt.Name, ct.Name) {
			return false
		}

		return matchArgs(pt.Args, ct.Args, b, names)

	case descriptor.Qualified:
		ct, ok := c.(descriptor.Qualified)

		return ok && ct.Qual == pt.Qual && matchInto(pt.Base, ct.Base, b, names)

	case descriptor.InvalidType:
		return false

	default:
		return descriptor.Equal(p, c)
	}
}

func matchArgs(ps, cs []descriptor.Descriptor, b descriptor.Bindings, names nameFunc) bool {
	for i, p := range ps {
		if v, ok := p.(descriptor.Var); ok && v.Variadic {
			return bind(v.Name, descriptor.Pack{Elems: slices.Clone(cs[i:])}, b)
		}

		if i >= len(cs) || !matchInto(p, cs[i], b, names) {
			return false
		}
	}

	return len(ps) == len(cs)
}

func bind(name string, d descriptor.Descriptor, b descriptor.Bindings) bool {
	if prev, ok := b[name]; ok {
		return descriptor.Equal(prev, d)
	}

	b[name] = d

	return true
}

// Substitute replaces every variable of tmpl by its binding. Packs bound to
// variadic variables are spliced into the surrounding argument list.
func Substitute(tmpl descriptor.Descriptor, b descriptor.Bindings) (descriptor.Descriptor, error) {
	switch t := tmpl.(type) {
	case descriptor.Var:
		d, ok := b[t.Name]
		if !ok {
			return nil, errors.Wrapf(ErrUnbound, "%s", t.Name)
		}

		return d, nil

	case descriptor.Con:
		args, err := substituteList(t.Args, b)
		if err != nil {
			return nil, err
		}

		return descriptor.Con{Name: t.Name, Args: args}, nil

	case descriptor.Qualified:
		base, err := Substitute(t.Base, b)
		if err != nil {
			return nil, err
		}

		return descriptor.Qualified{Qual: t.Qual, Base: base}, nil

	case descriptor.Pack:
		elems, err := substituteList(t.Elems, b)
		if err != nil {
			return nil, err
		}

		return descriptor.Pack{Elems: elems}, nil

	default:
		return tmpl, nil
	}
}

func substituteList(ds []descriptor.Descriptor, b descriptor.Bindings) ([]descriptor.Descriptor, error) {
	if ds == nil {
		return nil, nil
	}

	out := make([]descriptor.Descriptor, 0, len(ds))

	for _, d := range ds {
		s, err := Substitute(d, b)
		if err != nil {
			return nil, err
		}

		if p, ok := s.(descriptor.Pack); ok {
			out = append(out, p.Elems...)
			continue
		}

		out = append(out, s)
	}

	return out, nil
}
