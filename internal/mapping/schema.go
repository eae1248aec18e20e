package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"slicetrait/trait"
)

// CurrentVersion is the only schema version understood by this package.
const CurrentVersion = "1"

// MappingFile represents the root of a YAML trait mapping file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Axes declares axes beyond the built-in rowslice and quatslice.
	Axes []string `yaml:"axes,omitempty"`

	// Traits is the list of trait entries.
	Traits []TraitEntry `yaml:"traits"`
}

// TraitEntry maps one container pattern to a result on one or more axes.
type TraitEntry struct {
	// Axis lists the axes the entry is registered for.
	Axis StringOrArray `yaml:"axis"`

	// Params names the pattern variables; "P..." declares a pack.
	Params StringOrArray `yaml:"params,omitempty"`

	// Container is the container pattern, e.g. "DynamicTensor<T>".
	Container string `yaml:"container"`

	// Index is "*" (or empty) for the uniform stage, or a static index.
	Index IndexSpec `yaml:"index,omitempty"`

	// Result is the result template. Mutually exclusive with Forward.
	Result string `yaml:"result,omitempty"`

	// Forward names a parameter bound to a wrapped container whose trait
	// is the result. Mutually exclusive with Result.
	Forward string `yaml:"forward,omitempty"`
}

// Label identifies the i-th entry in diagnostics and errors.
func Label(i int) string {
	return fmt.Sprintf("traits[%d]", i)
}

// Mappings builds the registry mappings for the entry, one per distinct
// axis, in the order the axes are listed. Source is recorded on every mapping.
func (e *TraitEntry) Mappings(source string) ([]trait.Mapping, error) {
	idx, err := e.Index.Index()
	if err != nil {
		return nil, err
	}

	out := make([]trait.Mapping, 0, len(e.Axis))
	seen := make(map[trait.Axis]struct{}, len(e.Axis))

	for _, name := range e.Axis {
		var m trait.Mapping

		axis := trait.NormalizeAxis(name)
		if _, dup := seen[axis]; dup {
			continue
		}

		seen[axis] = struct{}{}
		if e.Forward != "" {
			m, err = trait.DefineForward(axis, e.Container, e.Forward, e.Params...)
		} else {
			m, err = trait.Define(axis, e.Container, e.Result, e.Params...)
		}

		if err != nil {
			return nil, err
		}

		if idx.IsStatic() {
			m = m.AtIndex(idx.Value)
		}

		out = append(out, m.From(source))
	}

	return out, nil
}

// IndexSpec is the textual index of an entry: "*" or a non-negative
// integer. It unmarshals from both YAML strings and integers.
type IndexSpec string

// Unbounded is the IndexSpec of the uniform stage.
const Unbounded IndexSpec = "*"

// StaticIndex returns the IndexSpec for index i.
func StaticIndex(i uint) IndexSpec {
	return IndexSpec(strconv.FormatUint(uint64(i), 10))
}

// Index parses s. An empty IndexSpec is the uniform stage.
func (s IndexSpec) Index() (trait.Index, error) {
	idx, err := trait.ParseIndex(string(s))
	if err != nil {
		return trait.Index{}, err
	}

	if idx.Kind == trait.IndexAbsent {
		return trait.Unbounded(), nil
	}

	return idx, nil
}

// IsUnbounded reports whether s selects the uniform stage.
func (s IndexSpec) IsUnbounded() bool {
	idx, err := s.Index()
	return err == nil && !idx.IsStatic()
}

func (s IndexSpec) String() string {
	return strings.TrimSpace(string(s))
}

// StringOrArray is a list of strings that may be written as a single YAML
// string.
type StringOrArray []string
