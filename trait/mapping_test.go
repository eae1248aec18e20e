package trait

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicetrait/descriptor"
)

func TestDefine(t *testing.T) {
	m, err := Define(RowSlice, "Subtensor<TT, CSAs...>", "View<TT>", "TT", "CSAs...")
	require.NoError(t, err)

	assert.Equal(t, []string{"TT", "CSAs"}, m.Params)
	assert.Equal(t, StageUniform, m.Stage())
	assert.Equal(t, "rowslice: Subtensor<TT, CSAs...> [*] -> View<TT>", m.String())

	at := m.AtIndex(2).ForAxis(QuatSlice).From("pkg")
	assert.Equal(t, StageIndexed, at.Stage())
	assert.Equal(t, "quatslice: Subtensor<TT, CSAs...> [2] -> View<TT>", at.String())
	assert.Equal(t, "pkg", at.Source)
	assert.Equal(t, StageUniform, m.Stage(), "copies leave the original alone")
}

func TestDefine_Errors(t *testing.T) {
	_, err := Define(RowSlice, "Dense2D<T", "View2D<T>", "T")
	assert.True(t, errors.Is(err, descriptor.ErrSyntax))

	_, err = Define(RowSlice, "Dense2D<T>", "View2D<T,>", "T")
	assert.True(t, errors.Is(err, descriptor.ErrSyntax))

	_, err = DefineFunc(RowSlice, "Dense2D<", ForwardTo("T"), "T")
	assert.True(t, errors.Is(err, descriptor.ErrSyntax))

	assert.Panics(t, func() { MustDefine(RowSlice, "<", "X") })
	assert.Panics(t, func() { MustDefineFunc(RowSlice, "<", ForwardTo("T")) })
}

func TestMapping_ResultString(t *testing.T) {
	m := MustDefineFunc(RowSlice, "Wrap<T>", ForwardTo("T"), "T")
	assert.Equal(t, "func", m.ResultString())

	fwd, err := DefineForward(RowSlice, "Wrap<TT, Ops...>", "TT", "TT", "Ops...")
	require.NoError(t, err)
	assert.Equal(t, "forward(TT)", fwd.ResultString())
	assert.Equal(t, "rowslice: Wrap<TT, Ops...> [*] -> forward(TT)", fwd.String())
	assert.Equal(t, "rowslice: Wrap<T> [*] -> func", m.String())
	assert.Equal(t, "<nil>", Mapping{}.ResultString())
}
