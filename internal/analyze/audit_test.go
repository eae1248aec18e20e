package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicetrait/trait"
)

func TestAudit(t *testing.T) {
	set := loadContainers(t)

	reg := trait.NewRegistry()
	reg.MustRegister(
		trait.MustDefine(trait.RowSlice, "Dense2D<T>", "View2D<T, rowMajor>", "T"),
		trait.MustDefine(trait.RowSlice, "Cube<T>", "View2D<T, rowMajor>", "T"),
		trait.MustDefine(trait.RowSlice, "Cube<bool>", "BitView"),
		trait.MustDefine(trait.QuatSlice, "Cube<T>", "Cube<T>", "T"),
	)

	report := Audit(set, reg)
	require.Len(t, report.Items, 8, "four containers on two axes")

	covered := map[string]int{}
	for _, it := range report.Items {
		covered[it.Container.ID.Name+"/"+it.Axis.String()] = len(it.Mappings)
	}

	assert.Equal(t, map[string]int{
		"Cube/rowslice":     2,
		"Cube/quatslice":    1,
		"Dense2D/rowslice":  1,
		"Dense2D/quatslice": 0,
		"Ring/rowslice":     0,
		"Ring/quatslice":    0,
		"View2D/rowslice":   0,
		"View2D/quatslice":  0,
	}, covered)

	assert.Len(t, report.Uncovered(), 5)
}

func TestAudit_SingleAxis(t *testing.T) {
	set := loadContainers(t)

	reg := trait.NewRegistry()
	reg.MustRegister(trait.MustDefine(trait.QuatSlice, "Ring<T>", "Ring<T>", "T"))

	report := Audit(set, reg, trait.QuatSlice)
	require.Len(t, report.Items, 4)

	for _, it := range report.Items {
		assert.Equal(t, trait.QuatSlice, it.Axis)
		assert.Equal(t, it.Container.ID.Name == "Ring", it.Covered(), it.Container.ID.Name)
	}
}
