package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicetrait/descriptor"
	"slicetrait/internal/diagnostic"
	"slicetrait/trait"
)

const containersFile = "testdata/containers.yaml"

func TestApply(t *testing.T) {
	mf, err := LoadFile(containersFile)
	require.NoError(t, err)

	reg := trait.NewRegistry()
	require.NoError(t, Apply(mf, reg, containersFile))

	rows := reg.Engine(trait.RowSlice)
	quats := reg.Engine(trait.QuatSlice)

	tests := []struct {
		name   string
		engine *trait.Engine
		c      string
		index  []uint
		want   string
	}{
		{"uniform", rows, "Grid<int>", nil, "GridRow<int>"},
		{"indexed override", rows, "Grid<int>", []uint{0}, "GridHeader<int>"},
		{"other index falls back", rows, "Grid<int>", []uint{1}, "GridRow<int>"},
		{"qualifiers stripped", rows, "const Grid<int>&", []uint{0}, "GridHeader<int>"},
		{"forward", rows, "GridView<Grid<float>, 1, 2>", nil, "GridRow<float>"},
		{"forward after fallback is uniform", rows, "GridView<Grid<float>, 1, 2>", []uint{0}, "GridRow<float>"},
		{"quat uniform", quats, "Grid<int>", []uint{0}, "GridRow<int>"},
		{"forward only on rowslice", quats, "GridView<Grid<int>>", nil, "INVALID_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.engine.TypeOf(descriptor.MustParse(tt.c), tt.index...)
			assert.Equal(t, tt.want, got.String())
		})
	}

	ms := reg.Mappings(trait.RowSlice)
	require.Len(t, ms, 3)
	assert.Equal(t, containersFile+":traits[0]", ms[0].Source)
	assert.Equal(t, containersFile+":traits[2]", ms[2].Source)
	assert.Equal(t, "TT", ms[2].Forward)
}

func TestApply_DeclaresAxes(t *testing.T) {
	mf := &MappingFile{
		Axes:   []string{"ColSlice"},
		Traits: []TraitEntry{entry("colslice", "Dense2D<T>", "Column<T>", "T")},
	}

	reg := trait.NewRegistry()
	require.NoError(t, Apply(mf, reg, "inline"))

	assert.Contains(t, reg.Axes(), trait.Axis("colslice"))
	assert.Equal(t, "Column<int>", reg.Engine("colslice").TypeOf(descriptor.MustParse("Dense2D<int>")).String())
}

func TestApply_Ambiguous(t *testing.T) {
	reg := trait.NewRegistry()
	reg.MustRegister(trait.MustDefine(trait.RowSlice, "Grid<T>", "Other<T>", "T"))

	mf, err := LoadFile(containersFile)
	require.NoError(t, err)

	err = Apply(mf, reg, containersFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, trait.ErrAmbiguousMapping), "got %v", err)
	assert.Contains(t, err.Error(), "traits[0]")
}

func TestApply_InvalidEntry(t *testing.T) {
	mf := &MappingFile{Traits: []TraitEntry{{Axis: StringOrArray{"rowslice"}, Container: "A", Result: "B", Index: "x"}}}

	err := Apply(mf, trait.NewRegistry(), "inline")
	require.Error(t, err)
	assert.True(t, errors.Is(err, trait.ErrInvalidIndex))
}

func TestLoadInto(t *testing.T) {
	reg := trait.NewRegistry()
	require.NoError(t, LoadInto(reg, containersFile))
	assert.Len(t, reg.Mappings(trait.QuatSlice), 1)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("traits:\n  - axis: rowslise\n    container: A\n    result: B\n"), 0o600))

	fresh := trait.NewRegistry()
	err := LoadInto(fresh, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.ErrInvalid))
	assert.Contains(t, errors.FlattenHints(err), "rowslice")
	assert.Empty(t, fresh.Mappings(trait.RowSlice))
}

func TestFromMappings(t *testing.T) {
	reg := trait.NewRegistry()
	require.NoError(t, LoadInto(reg, containersFile))
	reg.MustRegister(trait.MustDefineFunc(trait.RowSlice, "Computed<T>", func(*trait.Context) descriptor.Descriptor {
		return descriptor.Invalid
	}, "T"))

	mf, skipped := FromMappings(reg.Mappings(trait.RowSlice))
	assert.Equal(t, 1, skipped)
	require.Len(t, mf.Traits, 3)

	assert.Equal(t, StaticIndex(0), mf.Traits[1].Index)
	assert.Equal(t, StringOrArray{"TT", "Ops..."}, mf.Traits[2].Params)
	assert.Equal(t, "TT", mf.Traits[2].Forward)

	// The exported file must be loadable again.
	data, err := Marshal(mf)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, Validate(again).IsValid())

	other := trait.NewRegistry()
	require.NoError(t, Apply(again, other, "export"))
	assert.Equal(t, "GridHeader<int>",
		other.Engine(trait.RowSlice).TypeOf(descriptor.MustParse("Grid<int>"), 0).String())
}
