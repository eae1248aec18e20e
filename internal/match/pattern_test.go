package match

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicetrait/descriptor"
)

func pat(src string, params ...string) descriptor.Descriptor {
	return descriptor.MustParsePattern(src, params...)
}

func typ(src string) descriptor.Descriptor {
	return descriptor.MustParse(src)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		pattern  descriptor.Descriptor
		concrete string
		want     map[string]string
	}{
		{
			name:     "single parameter",
			pattern:  pat("DynamicTensor<T>", "T"),
			concrete: "DynamicTensor<int>",
			want:     map[string]string{"T": "int"},
		},
		{
			name:     "qualified concrete against unqualified pattern",
			pattern:  pat("DynamicTensor<T>", "T"),
			concrete: "blaze::DynamicTensor<double>",
			want:     map[string]string{"T": "double"},
		},
		{
			name:     "value parameters",
			pattern:  pat("StaticTensor<T, O, M, N>", "T", "O", "M", "N"),
			concrete: "StaticTensor<float, 2, 3, 4>",
			want:     map[string]string{"T": "float", "O": "2", "M": "3", "N": "4"},
		},
		{
			name:     "nested binding",
			pattern:  pat("Subtensor<TT, CSAs...>", "TT", "CSAs..."),
			concrete: "Subtensor<DynamicTensor<int>, 1, 2>",
			want:     map[string]string{"TT": "DynamicTensor<int>", "CSAs": "1, 2"},
		},
		{
			name:     "empty pack",
			pattern:  pat("Subtensor<TT, CSAs...>", "TT", "CSAs..."),
			concrete: "Subtensor<DynamicTensor<int>>",
			want:     map[string]string{"TT": "DynamicTensor<int>", "CSAs": ""},
		},
		{
			name:     "fully ground pattern",
			pattern:  pat("DynamicTensor<int>"),
			concrete: "DynamicTensor<int>",
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := Match(tt.pattern, typ(tt.concrete))
			require.True(t, ok)
			require.Len(t, b, len(tt.want))

			for k, v := range tt.want {
				assert.Equal(t, v, b[k].String(), k)
			}
		})
	}
}

func TestMatch_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		pattern  descriptor.Descriptor
		concrete string
	}{
		{"different constructor", pat("DynamicTensor<T>", "T"), "DynamicMatrix<int>"},
		{"arity", pat("DynamicTensor<T>", "T"), "DynamicTensor<int, int>"},
		{"missing argument", pat("DynamicTensor<T, U>", "T", "U"), "DynamicTensor<int>"},
		{"different namespace", pat("blaze::DynamicTensor<T>", "T"), "other::DynamicTensor<int>"},
		{"non-linear mismatch", pat("Pair<T, T>", "T"), "Pair<int, float>"},
		{"qualified concrete", pat("DynamicTensor<T>", "T"), "const DynamicTensor<int>"},
		{"value mismatch", pat("Fixed<T, 3>", "T"), "Fixed<int, 4>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Match(tt.pattern, typ(tt.concrete))
			assert.False(t, ok)
		})
	}
}

func TestMatch_NonLinear(t *testing.T) {
	b, ok := Match(pat("Pair<T, T>", "T"), typ("Pair<int, int>"))
	require.True(t, ok)
	assert.Equal(t, "int", b["T"].String())
}

func TestMatch_Invalid(t *testing.T) {
	_, ok := Match(pat("T", "T"), descriptor.Invalid)
	assert.True(t, ok, "a bare variable matches anything, INVALID included")

	_, ok = Match(descriptor.Invalid, descriptor.Invalid)
	assert.False(t, ok)

	_, ok = Match(nil, typ("int"))
	assert.False(t, ok)
}

func TestSubstitute(t *testing.T) {
	b, ok := Match(pat("Subtensor<TT, CSAs...>", "TT", "CSAs..."), typ("Subtensor<DynamicTensor<int>, 0, 2>"))
	require.True(t, ok)

	got, err := Substitute(pat("View<TT, rowMajor, CSAs...>", "TT", "CSAs..."), b)
	require.NoError(t, err)
	assert.Equal(t, "View<DynamicTensor<int>, rowMajor, 0, 2>", got.String())

	got, err = Substitute(pat("const TT&", "TT"), b)
	require.NoError(t, err)
	assert.Equal(t, "const DynamicTensor<int>&", got.String())
}

func TestSubstitute_Unbound(t *testing.T) {
	_, err := Substitute(pat("DynamicMatrix<U>", "U"), descriptor.Bindings{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbound))
	assert.Contains(t, err.Error(), "U")
}

func TestSubstitute_Ground(t *testing.T) {
	got, err := Substitute(typ("DynamicMatrix<int, false>"), nil)
	require.NoError(t, err)
	assert.Equal(t, "DynamicMatrix<int, false>", got.String())
}
