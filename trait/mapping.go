package trait

import (
	"fmt"
	"strings"

	"slicetrait/descriptor"
)

// ResultFunc computes a mapping's result from the bindings of its container
// pattern. It is used where a template cannot express the result, such as
// views that forward to the container they wrap. Returning nil yields INVALID.
type ResultFunc func(ctx *Context) descriptor.Descriptor

// Mapping associates a container pattern with a result for one axis.
//
// A mapping with a static Index serves the indexed stage for exactly that
// index; any other Index serves the uniform stage. Exactly one of Result and
// Func must be set.
type Mapping struct {
	Axis Axis
	// Params lists the pattern variables of Container, without the "..."
	// marker of parameter packs. Register fills it when empty.
	Params    []string
	Container descriptor.Descriptor
	Index     Index
	Result    descriptor.Descriptor
	Func      ResultFunc
	// Forward names the parameter a mapping built by DefineForward resolves.
	Forward string
	// Source says where the mapping came from (a package, a file name).
	Source string
}

// Define builds a uniform-stage mapping from descriptor syntax.
// Params names the pattern variables; a trailing "..." marks a pack.
func Define(axis Axis, container, result string, params ...string) (Mapping, error) {
	c, err := descriptor.ParsePattern(container, params...)
	if err != nil {
		return Mapping{}, err
	}

	r, err := descriptor.ParsePattern(result, params...)
	if err != nil {
		return Mapping{}, err
	}

	return Mapping{
		Axis:      axis,
		Params:    paramNames(params),
		Container: c,
		Index:     Unbounded(),
		Result:    r,
	}, nil
}

// MustDefine is Define that panics on error, for use in init functions.
func MustDefine(axis Axis, container, result string, params ...string) Mapping {
	m, err := Define(axis, container, result, params...)
	if err != nil {
		panic(err)
	}

	return m
}

// DefineFunc builds a uniform-stage mapping whose result is computed by fn.
func DefineFunc(axis Axis, container string, fn ResultFunc, params ...string) (Mapping, error) {
	c, err := descriptor.ParsePattern(container, params...)
	if err != nil {
		return Mapping{}, err
	}

	return Mapping{
		Axis:      axis,
		Params:    paramNames(params),
		Container: c,
		Index:     Unbounded(),
		Func:      fn,
	}, nil
}

// MustDefineFunc is DefineFunc that panics on error.
func MustDefineFunc(axis Axis, container string, fn ResultFunc, params ...string) Mapping {
	m, err := DefineFunc(axis, container, fn, params...)
	if err != nil {
		panic(err)
	}

	return m
}

// DefineForward builds a uniform-stage mapping whose result is the trait of
// the container bound to param, on the same axis and index.
func DefineForward(axis Axis, container, param string, params ...string) (Mapping, error) {
	m, err := DefineFunc(axis, container, ForwardTo(param), params...)
	if err != nil {
		return Mapping{}, err
	}

	m.Forward = param

	return m, nil
}

// MustDefineForward is DefineForward that panics on error.
func MustDefineForward(axis Axis, container, param string, params ...string) Mapping {
	m, err := DefineForward(axis, container, param, params...)
	if err != nil {
		panic(err)
	}

	return m
}

// ForwardTo returns a ResultFunc resolving the container bound to param on
// the same axis and index. Views and adaptors use it to slice like the
// tensor they wrap.
func ForwardTo(param string) ResultFunc {
	return func(ctx *Context) descriptor.Descriptor {
		return ctx.Resolve(ctx.Bound(param))
	}
}

// AtIndex returns a copy of m serving the indexed stage for index i.
func (m Mapping) AtIndex(i uint) Mapping {
	m.Index = Static(i)
	return m
}

// ForAxis returns a copy of m registered under axis.
func (m Mapping) ForAxis(axis Axis) Mapping {
	m.Axis = axis
	return m
}

// From returns a copy of m with Source set.
func (m Mapping) From(source string) Mapping {
	m.Source = source
	return m
}

// Stage reports which evaluator stage m serves.
func (m Mapping) Stage() Stage {
	if m.Index.IsStatic() {
		return StageIndexed
	}

	return StageUniform
}

// ResultString renders the result side: the template, "forward(P)" for
// forwarding mappings, or "func" for other computed results.
func (m Mapping) ResultString() string {
	switch {
	case m.Forward != "":
		return "forward(" + m.Forward + ")"
	case m.Func != nil:
		return "func"
	case m.Result == nil:
		return "<nil>"
	default:
		return m.Result.String()
	}
}

func (m Mapping) String() string {
	idx := "*"
	if m.Index.IsStatic() {
		idx = m.Index.String()
	}

	container := "<nil>"
	if m.Container != nil {
		container = m.Container.String()
	}

	return fmt.Sprintf("%s: %s [%s] -> %s", m.Axis, container, idx, m.ResultString())
}

func paramNames(params []string) []string {
	if len(params) == 0 {
		return nil
	}

	out := make([]string, len(params))
	for i, p := range params {
		out[i] = strings.TrimSuffix(strings.TrimSpace(p), "...")
	}

	return out
}
