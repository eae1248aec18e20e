package trait

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicetrait/descriptor"
)

type testGrid[T any] struct{ cells []T }

var registerDefaults sync.Once

// useDefault registers test-only containers into Default once per process.
func useDefault(t *testing.T) {
	t.Helper()

	registerDefaults.Do(func() {
		MustRegister(
			MustDefine(RowSlice, "testGrid<T>", "testRow<T>", "T").From("trait tests"),
			MustDefine(QuatSlice, "testGrid<T>", "testFace<T>", "T").From("trait tests"),
		)
	})
}

func TestPackageLevelTraits(t *testing.T) {
	useDefault(t)

	c := descriptor.MustParse("const testGrid<int>&")

	assert.Equal(t, "testRow<int>", RowSliceTraitT(c, 0).String())
	assert.Equal(t, "testRow<int>", RowSliceTrait(c).Type.String())
	assert.Equal(t, "testFace<int>", QuatSliceTraitT(c, 2).String())
	assert.Equal(t, QuatSlice, QuatSliceTrait(c).Axis)
	assert.Same(t, Default.Engine(RowSlice), For(RowSlice))
}

func TestResolveFor(t *testing.T) {
	useDefault(t)

	got := ResolveFor[testGrid[float64]](RowSlice, 1)
	require.True(t, got.Valid(), got.Err())
	assert.Equal(t, "testRow<float64>", got.Type.String())

	ptr := ResolveFor[*testGrid[int]](QuatSlice)
	assert.Equal(t, "testFace<int>", ptr.Type.String())

	assert.False(t, ResolveFor[map[string]int](RowSlice).Valid())
}

func TestResolveFor_OpaqueTypeArguments(t *testing.T) {
	useDefault(t)

	tests := []struct {
		name string
		got  Trait
		arg  string
	}{
		{"any", ResolveFor[testGrid[any]](RowSlice), reflect.TypeFor[any]().String()},
		{"map", ResolveFor[testGrid[map[string]int]](RowSlice, 3), "map[string]int"},
		{"func", ResolveFor[testGrid[func()]](RowSlice), "func()"},
		{"struct", ResolveFor[*testGrid[struct{}]](RowSlice), "struct {}"},
		{"slice", ResolveFor[testGrid[[]int]](RowSlice), "[]int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.got.Valid(), tt.got.Err())
			assert.Equal(t, "testRow<"+tt.arg+">", tt.got.Type.String())
		})
	}
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("quat-slice")
	require.NoError(t, err)
	assert.Equal(t, QuatSlice, a)

	_, err = ParseAxis("diagonal")
	assert.Error(t, err)
}

func TestRegister_Default(t *testing.T) {
	useDefault(t)

	err := Register(MustDefine(RowSlice, "testGrid<U>", "other<U>", "U"))
	assert.ErrorIs(t, err, ErrAmbiguousMapping)
}
