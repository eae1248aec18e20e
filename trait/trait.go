package trait

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"slicetrait/descriptor"
	"slicetrait/internal/match"
)

// ErrUnsupported is returned by Require and Trait.Err when no mapping
// applies to a container.
var ErrUnsupported = errors.New("unsupported slice trait")

// maxSuggestions bounds the "did you mean" list of Trait.Err.
const maxSuggestions = 3

// Trait is the outcome of a resolution.
type Trait struct {
	// Type is the result descriptor, descriptor.Invalid when unsupported.
	Type descriptor.Descriptor
	Axis Axis
	// Container is the descriptor as requested, qualifiers included.
	Container descriptor.Descriptor
	Index     Index
	// Stage is the stage whose mapping produced Type, StageNone for INVALID.
	Stage Stage
	// Mapping is the applied mapping, nil when none applied.
	Mapping *Mapping
	// Trace records the evaluation steps. It is shared between results
	// served from the engine cache and must not be modified.
	Trace []Step

	reg *Registry
}

// Valid reports whether a result type was found.
func (t Trait) Valid() bool {
	return !descriptor.IsInvalid(t.Type)
}

// Err returns nil for a valid trait, otherwise an ErrUnsupported error
// naming the request, with a hint listing similarly named registered
// containers when there are any.
func (t Trait) Err() error {
	if t.Valid() {
		return nil
	}

	err := errors.Wrapf(ErrUnsupported, "%s of %s at index %s", t.Axis, describeContainer(t.Container), t.Index)

	if names := t.suggestions(); len(names) > 0 {
		err = errors.WithHintf(err, "did you mean %s?", strings.Join(names, ", "))
	}

	return err
}

func (t Trait) suggestions() []string {
	if t.reg == nil || t.Mapping != nil || t.Container == nil {
		return nil
	}

	base, _ := descriptor.Unqualify(t.Container)

	con, ok := base.(descriptor.Con)
	if !ok {
		return nil
	}

	var candidates []string

	for _, name := range t.reg.Containers(t.Axis) {
		if !descriptor.SameName(name, con.Name) {
			candidates = append(candidates, name)
		}
	}

	return match.Suggest(con.Name, candidates, maxSuggestions)
}

func (t Trait) String() string {
	return fmt.Sprintf("%s(%s, %s) = %s", t.Axis, describeContainer(t.Container), t.Index, describeContainer(t.Type))
}

// Require returns the result type of t, or the error of t.Err.
func Require(t Trait) (descriptor.Descriptor, error) {
	if err := t.Err(); err != nil {
		return descriptor.Invalid, err
	}

	return t.Type, nil
}

func describeContainer(d descriptor.Descriptor) string {
	if d == nil {
		return "<nil>"
	}

	return d.String()
}

// Step is one entry of a resolution trace.
type Step struct {
	// Depth counts nested resolutions started by ResultFuncs.
	Depth     int
	Stage     Stage
	Container descriptor.Descriptor
	Index     Index
	Mapping   *Mapping
	Result    descriptor.Descriptor
	Note      string
}

func (s Step) String() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("  ", s.Depth))
	fmt.Fprintf(&b, "[%s] %s @ %s", s.Stage, describeContainer(s.Container), s.Index)

	if s.Mapping != nil {
		fmt.Fprintf(&b, " via %s", s.Mapping)
	}

	if s.Result != nil {
		fmt.Fprintf(&b, " => %s", s.Result)
	}

	if s.Note != "" {
		fmt.Fprintf(&b, " (%s)", s.Note)
	}

	return b.String()
}

type tracer struct {
	steps []Step
}

// add appends s and returns its position.
func (t *tracer) add(s Step) int {
	t.steps = append(t.steps, s)
	return len(t.steps) - 1
}
