package trait

import (
	"strings"
)

// Axis names the dimension a slice collapses.
type Axis string

// Built-in axes.
const (
	RowSlice  Axis = "rowslice"
	QuatSlice Axis = "quatslice"
)

// NormalizeAxis folds the spellings "row-slice", "RowSlice", "row_slice" and
// "rowslice" to the same Axis.
func NormalizeAxis(s string) Axis {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case '-', '_', ' ':
			continue
		}

		b.WriteRune(r)
	}

	return Axis(b.String())
}

func (a Axis) String() string {
	return string(a)
}
