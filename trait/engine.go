package trait

import (
	"sync"

	"go.uber.org/zap"

	"slicetrait/descriptor"
	"slicetrait/internal/logging"
	"slicetrait/internal/match"
)

// DefaultMaxDepth bounds how deep ResultFunc forwarding may nest.
const DefaultMaxDepth = 32

// EngineConfig configures an Engine. The zero value is usable.
type EngineConfig struct {
	// Logger receives debug output; nil uses the process-wide logger.
	Logger *zap.SugaredLogger
	// MaxDepth bounds nested resolutions started by ResultFuncs.
	// Zero means DefaultMaxDepth.
	MaxDepth int
	// DisableCache turns off memoisation of results.
	DisableCache bool
}

// Engine resolves slice traits for one axis against a registry.
type Engine struct {
	reg  *Registry
	axis Axis
	cfg  EngineConfig

	mu       sync.Mutex
	cache    map[cacheKey]outcome
	cacheGen uint64
}

type cacheKey struct {
	container string
	index     Index
}

// outcome is the part of a Trait that does not depend on the qualifiers of
// the requested container.
type outcome struct {
	typ     descriptor.Descriptor
	stage   Stage
	mapping *Mapping
	trace   []Step
}

// NewEngine returns an engine for axis backed by reg.
func NewEngine(reg *Registry, axis Axis, cfg EngineConfig) *Engine {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}

	return &Engine{
		reg:   reg,
		axis:  NormalizeAxis(string(axis)),
		cfg:   cfg,
		cache: make(map[cacheKey]outcome),
	}
}

// Axis returns the axis e resolves.
func (e *Engine) Axis() Axis {
	return e.axis
}

// Registry returns the registry e reads.
func (e *Engine) Registry() *Registry {
	return e.reg
}

func (e *Engine) log() *zap.SugaredLogger {
	if e.cfg.Logger != nil {
		return e.cfg.Logger
	}

	return logging.L()
}

// Resolve determines the slice trait of container. With one index the
// indexed stage is tried first; with none the uniform stage is used directly.
// An index equal to Inf counts as no index. More than one index matches no
// call form and resolves to INVALID.
func (e *Engine) Resolve(container descriptor.Descriptor, index ...uint) Trait {
	switch len(index) {
	case 0:
		return e.ResolveIndex(container, Absent())
	case 1:
		return e.ResolveIndex(container, Static(index[0]))
	default:
		return Trait{
			Type:      descriptor.Invalid,
			Axis:      e.axis,
			Container: container,
			Index:     Absent(),
			Trace:     []Step{{Container: container, Note: "more than one index argument"}},
			reg:       e.reg,
		}
	}
}

// ResolveIndex is Resolve with an explicit index form.
func (e *Engine) ResolveIndex(container descriptor.Descriptor, idx Index) Trait {
	t := Trait{Axis: e.axis, Container: container, Index: idx, reg: e.reg}

	if container == nil {
		t.Type = descriptor.Invalid
		t.Trace = []Step{{Note: "no container"}}

		return t
	}

	base, _ := descriptor.Unqualify(container)
	key := cacheKey{container: descriptor.Key(base), index: idx}

	o, ok := e.cached(key)
	if !ok {
		tr := &tracer{}
		o.typ, o.stage, o.mapping = e.eval(base, idx, 0, tr)
		o.trace = tr.steps
		e.store(key, o)
	}

	t.Type, t.Stage, t.Mapping, t.Trace = o.typ, o.stage, o.mapping, o.trace

	return t
}

// TypeOf returns only the result descriptor of Resolve.
func (e *Engine) TypeOf(container descriptor.Descriptor, index ...uint) descriptor.Descriptor {
	return e.Resolve(container, index...).Type
}

// Eval1 runs the indexed stage for an unqualified container: the most
// specific mapping registered for index i, or else Eval2 with the index
// replaced by Unbounded.
func (e *Engine) Eval1(container descriptor.Descriptor, i uint) descriptor.Descriptor {
	d, _, _ := e.eval1(container, i, 0, &tracer{})
	return d
}

// Eval2 runs the uniform stage for an unqualified container: the most
// specific index-independent mapping, or else INVALID.
func (e *Engine) Eval2(container descriptor.Descriptor) descriptor.Descriptor {
	d, _, _ := e.eval2(container, Unbounded(), 0, &tracer{})
	return d
}

func (e *Engine) eval(c descriptor.Descriptor, idx Index, depth int, tr *tracer) (descriptor.Descriptor, Stage, *Mapping) {
	if depth > e.cfg.MaxDepth {
		tr.add(Step{Depth: depth, Container: c, Index: idx, Note: "forwarding depth exceeded"})
		e.log().Debugw("forwarding depth exceeded",
			logging.FieldAxis, e.axis,
			logging.FieldContainer, c.String(),
		)

		return descriptor.Invalid, StageNone, nil
	}

	base, _ := descriptor.Unqualify(c)

	if idx.IsStatic() {
		return e.eval1(base, idx.Value, depth, tr)
	}

	return e.eval2(base, idx, depth, tr)
}

func (e *Engine) eval1(c descriptor.Descriptor, i uint, depth int, tr *tracer) (descriptor.Descriptor, Stage, *Mapping) {
	idx := Static(i)
	if !idx.IsStatic() {
		return e.eval2(c, idx, depth, tr)
	}

	if m, b, ok := e.reg.lookup(e.axis, c, idx); ok {
		return e.apply(m, b, c, idx, StageIndexed, depth, tr), StageIndexed, m
	}

	tr.add(Step{Depth: depth, Stage: StageIndexed, Container: c, Index: idx, Note: "no indexed mapping, deferring to uniform stage"})
	e.log().Debugw("no indexed mapping, falling back",
		logging.FieldAxis, e.axis,
		logging.FieldContainer, c.String(),
		logging.FieldIndex, i,
	)

	return e.eval2(c, Unbounded(), depth, tr)
}

func (e *Engine) eval2(c descriptor.Descriptor, idx Index, depth int, tr *tracer) (descriptor.Descriptor, Stage, *Mapping) {
	if m, b, ok := e.reg.lookup(e.axis, c, idx); ok {
		return e.apply(m, b, c, idx, StageUniform, depth, tr), StageUniform, m
	}

	tr.add(Step{Depth: depth, Stage: StageUniform, Container: c, Index: idx, Result: descriptor.Invalid, Note: "no uniform mapping"})
	e.log().Debugw("no mapping, result is INVALID",
		logging.FieldAxis, e.axis,
		logging.FieldContainer, c.String(),
		logging.FieldIndex, idx.String(),
	)

	return descriptor.Invalid, StageNone, nil
}

func (e *Engine) apply(m *Mapping, b descriptor.Bindings, c descriptor.Descriptor, idx Index, stage Stage, depth int, tr *tracer) descriptor.Descriptor {
	step := Step{Depth: depth, Stage: stage, Container: c, Index: idx, Mapping: m}
	slot := tr.add(step)

	var result descriptor.Descriptor

	if m.Func != nil {
		ctx := &Context{
			Axis:      e.axis,
			Index:     idx,
			Container: c,
			Bindings:  b,
			engine:    e,
			depth:     depth,
			tracer:    tr,
		}
		result = m.Func(ctx)
	} else {
		var err error

		result, err = match.Substitute(m.Result, b)
		if err != nil {
			tr.steps[slot].Note = err.Error()
		}
	}

	if result == nil {
		result = descriptor.Invalid
	}

	tr.steps[slot].Result = result

	e.log().Debugw("mapping applied",
		logging.FieldAxis, e.axis,
		logging.FieldContainer, c.String(),
		logging.FieldStage, stage.String(),
		logging.FieldResult, result.String(),
	)

	return result
}

func (e *Engine) cached(key cacheKey) (outcome, bool) {
	if e.cfg.DisableCache {
		return outcome{}, false
	}

	gen := e.reg.Generation()

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.cacheGen {
		clear(e.cache)
		e.cacheGen = gen

		return outcome{}, false
	}

	o, ok := e.cache[key]

	return o, ok
}

func (e *Engine) store(key cacheKey, o outcome) {
	if e.cfg.DisableCache {
		return
	}

	gen := e.reg.Generation()

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen == e.cacheGen {
		e.cache[key] = o
	}
}

// Context is passed to a ResultFunc.
type Context struct {
	Axis      Axis
	Index     Index
	Container descriptor.Descriptor
	Bindings  descriptor.Bindings

	engine *Engine
	depth  int
	tracer *tracer
}

// Bound returns the descriptor bound to a pattern variable, or INVALID.
func (c *Context) Bound(name string) descriptor.Descriptor {
	if d, ok := c.Bindings[name]; ok {
		return d
	}

	return descriptor.Invalid
}

// Resolve resolves d on the same axis and index as the current request.
func (c *Context) Resolve(d descriptor.Descriptor) descriptor.Descriptor {
	if descriptor.IsInvalid(d) {
		return descriptor.Invalid
	}

	r, _, _ := c.engine.eval(d, c.Index, c.depth+1, c.tracer)

	return r
}
