package trait

import (
	"slices"
	"sync"

	"github.com/cockroachdb/errors"

	"slicetrait/descriptor"
	"slicetrait/internal/logging"
	"slicetrait/internal/match"
)

var (
	// ErrUnknownAxis is returned for an axis the registry does not know.
	ErrUnknownAxis = errors.New("unknown axis")
	// ErrInvalidMapping is returned by Register for malformed mappings.
	ErrInvalidMapping = errors.New("invalid mapping")
	// ErrAmbiguousMapping is returned by Register when a mapping overlaps an
	// existing one and neither is more specific.
	ErrAmbiguousMapping = errors.New("ambiguous mapping")
)

// Registry holds mappings per axis. It is safe for concurrent use;
// registrations are expected at startup, resolutions at any time.
type Registry struct {
	mu      sync.RWMutex
	axes    []Axis
	ordered map[Axis][]*Mapping
	// byHead buckets mappings by the unqualified name of their container head.
	byHead  map[Axis]map[string][]*Mapping
	gen     uint64
	engines map[Axis]*Engine
}

// NewRegistry returns an empty registry knowing axes, or RowSlice and
// QuatSlice when none are given.
func NewRegistry(axes ...Axis) *Registry {
	if len(axes) == 0 {
		axes = []Axis{RowSlice, QuatSlice}
	}

	r := &Registry{
		ordered: make(map[Axis][]*Mapping),
		byHead:  make(map[Axis]map[string][]*Mapping),
		engines: make(map[Axis]*Engine),
	}

	for _, a := range axes {
		_ = r.AddAxis(a)
	}

	return r
}

// AddAxis makes axis known to the registry. Adding a known axis is a no-op.
func (r *Registry) AddAxis(axis Axis) error {
	axis = NormalizeAxis(string(axis))
	if axis == "" {
		return errors.Wrap(ErrUnknownAxis, "empty axis name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.axes, axis) {
		return nil
	}

	r.axes = append(r.axes, axis)
	r.byHead[axis] = make(map[string][]*Mapping)

	return nil
}

// Axes lists the known axes in the order they were added.
func (r *Registry) Axes() []Axis {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.axes)
}

// Axis looks up an axis by any of its spellings.
func (r *Registry) Axis(name string) (Axis, error) {
	axis := NormalizeAxis(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !slices.Contains(r.axes, axis) {
		return "", r.unknownAxis(name)
	}

	return axis, nil
}

func (r *Registry) unknownAxis(name string) error {
	err := errors.Wrapf(ErrUnknownAxis, "%q", name)

	known := make([]string, len(r.axes))
	for i, a := range r.axes {
		known[i] = string(a)
	}

	if s := match.Suggest(name, known, 1); len(s) > 0 {
		err = errors.WithHintf(err, "did you mean %q?", s[0])
	}

	return err
}

// Generation changes whenever a mapping is added.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.gen
}

// Register validates m and adds it.
//
// The container pattern must be a named type (not qualified, not a bare
// variable), every variable of the result template must occur in the
// container pattern, and exactly one of Result and Func must be set. An
// absent index is stored as Unbounded. A mapping that duplicates an existing
// one, or overlaps it without either being more specific, is rejected with
// ErrAmbiguousMapping.
func (r *Registry) Register(m Mapping) error {
	m.Axis = NormalizeAxis(string(m.Axis))
	if m.Index.Kind == IndexAbsent {
		m.Index = Unbounded()
	}

	head, err := validateMapping(&m)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !slices.Contains(r.axes, m.Axis) {
		return r.unknownAxis(string(m.Axis))
	}

	key := descriptor.BaseName(head.Name)
	for _, old := range r.byHead[m.Axis][key] {
		if err := checkOverlap(old, &m); err != nil {
			return err
		}
	}

	stored := &m
	r.ordered[m.Axis] = append(r.ordered[m.Axis], stored)
	r.byHead[m.Axis][key] = append(r.byHead[m.Axis][key], stored)
	r.gen++

	logging.L().Debugw("mapping registered",
		logging.FieldMapping, stored.String(),
		logging.FieldSource, stored.Source,
	)

	return nil
}

// MustRegister registers every mapping and panics on the first error.
func (r *Registry) MustRegister(ms ...Mapping) {
	for _, m := range ms {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
}

func validateMapping(m *Mapping) (descriptor.Con, error) {
	head, ok := m.Container.(descriptor.Con)
	if !ok {
		what := "<nil>"
		if m.Container != nil {
			what = m.Container.String()
		}

		return descriptor.Con{}, errors.Wrapf(ErrInvalidMapping,
			"container pattern %s must be a named type", what)
	}

	if (m.Result == nil) == (m.Func == nil) {
		return head, errors.Wrapf(ErrInvalidMapping,
			"%s: exactly one of result template and result func must be set", head)
	}

	bound := descriptor.Vars(m.Container)
	if m.Result != nil {
		for _, v := range descriptor.Vars(m.Result) {
			if !slices.Contains(bound, v) {
				return head, errors.Wrapf(ErrInvalidMapping,
					"result variable %s is not bound by container pattern %s", v, head)
			}
		}
	}

	if m.Forward != "" && !slices.Contains(bound, m.Forward) {
		return head, errors.Wrapf(ErrInvalidMapping,
			"forwarded parameter %s is not bound by container pattern %s", m.Forward, head)
	}

	if len(m.Params) == 0 {
		m.Params = bound
	}

	return head, nil
}

func checkOverlap(old, m *Mapping) error {
	if old.Stage() != m.Stage() || (m.Index.IsStatic() && old.Index.Value != m.Index.Value) {
		return nil
	}

	switch {
	case match.Equivalent(old.Container, m.Container):
		return errors.WithHint(
			errors.Wrapf(ErrAmbiguousMapping, "%s duplicates %s", describe(m), describe(old)),
			"remove one of the two mappings",
		)
	case !match.Unifiable(old.Container, m.Container):
		return nil
	case match.MoreSpecific(old.Container, m.Container), match.MoreSpecific(m.Container, old.Container):
		return nil
	default:
		return errors.WithHint(
			errors.Wrapf(ErrAmbiguousMapping, "%s overlaps %s and neither is more specific", describe(m), describe(old)),
			"register a mapping for the overlapping containers that is more specific than both",
		)
	}
}

func describe(m *Mapping) string {
	if m.Source == "" {
		return m.String()
	}

	return m.String() + " (" + m.Source + ")"
}

// Mappings lists the mappings of axis in registration order.
func (r *Registry) Mappings(axis Axis) []Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ms := r.ordered[NormalizeAxis(string(axis))]
	out := make([]Mapping, len(ms))

	for i, m := range ms {
		out[i] = *m
	}

	return out
}

// Containers lists the distinct container head names registered for axis.
func (r *Registry) Containers(axis Axis) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string

	for _, m := range r.ordered[NormalizeAxis(string(axis))] {
		name := m.Container.(descriptor.Con).Name
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}

	return out
}

// Covering lists the mappings of axis whose container pattern could match
// some instance of pattern.
func (r *Registry) Covering(axis Axis, pattern descriptor.Descriptor) []Mapping {
	con, ok := pattern.(descriptor.Con)
	if !ok {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Mapping

	for _, m := range r.byHead[NormalizeAxis(string(axis))][descriptor.BaseName(con.Name)] {
		if match.Unifiable(m.Container, pattern) {
			out = append(out, *m)
		}
	}

	return out
}

// lookup returns the best mapping of axis matching c for the stage idx
// selects (see preferred).
func (r *Registry) lookup(axis Axis, c descriptor.Descriptor, idx Index) (*Mapping, descriptor.Bindings, bool) {
	con, ok := c.(descriptor.Con)
	if !ok {
		return nil, nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best      *Mapping
		bestBound descriptor.Bindings
	)

	for _, m := range r.byHead[axis][descriptor.BaseName(con.Name)] {
		if m.Index.IsStatic() != idx.IsStatic() || (idx.IsStatic() && m.Index.Value != idx.Value) {
			continue
		}

		b, ok := match.Match(m.Container, c)
		if !ok {
			continue
		}

		if best == nil || preferred(m, best, con.Name) {
			best, bestBound = m, b
		}
	}

	return best, bestBound, best != nil
}

// preferred reports whether candidate beats best for a container named name.
// A pattern spelling the container's name exactly wins over one that only
// matches its base name; otherwise the more specific pattern wins. Ties keep
// the earlier registration.
func preferred(candidate, best *Mapping, name string) bool {
	exactC := candidate.Container.(descriptor.Con).Name == name
	exactB := best.Container.(descriptor.Con).Name == name

	if exactC != exactB {
		return exactC
	}

	return match.MoreSpecific(candidate.Container, best.Container)
}

// Engine returns the registry's shared engine for axis.
func (r *Registry) Engine(axis Axis) *Engine {
	axis = NormalizeAxis(string(axis))

	r.mu.RLock()
	e, ok := r.engines[axis]
	r.mu.RUnlock()

	if ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[axis]; ok {
		return e
	}

	e = NewEngine(r, axis, EngineConfig{})
	r.engines[axis] = e

	return e
}
