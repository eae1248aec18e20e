package analyze

import (
	"slicetrait/trait"
)

// Coverage tells whether registry mappings exist for a container on one axis.
type Coverage struct {
	Container *ContainerInfo
	Axis      trait.Axis
	// Mappings lists every mapping whose container pattern can match some
	// instance of the container.
	Mappings []trait.Mapping
}

// Covered reports whether at least one mapping applies.
func (c Coverage) Covered() bool {
	return len(c.Mappings) > 0
}

// Report is the result of Audit, ordered by container then axis.
type Report struct {
	Items []Coverage
}

// Uncovered returns the items without any mapping.
func (r Report) Uncovered() []Coverage {
	var out []Coverage

	for _, it := range r.Items {
		if !it.Covered() {
			out = append(out, it)
		}
	}

	return out
}

// Audit checks every container of set against reg on the given axes, or on
// every axis of reg when none are given.
func Audit(set *ContainerSet, reg *trait.Registry, axes ...trait.Axis) Report {
	if len(axes) == 0 {
		axes = reg.Axes()
	}

	var r Report

	for _, c := range set.Sorted() {
		for _, axis := range axes {
			r.Items = append(r.Items, Coverage{
				Container: c,
				Axis:      axis,
				Mappings:  reg.Covering(axis, c.Pattern),
			})
		}
	}

	return r
}
