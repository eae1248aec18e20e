package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicetrait/internal/config"
	"slicetrait/internal/logging"
	"slicetrait/trait"
)

const containersPkg = "slicetrait/examples/containers"

type result struct {
	out, err string
	code     int
}

func execute(t *testing.T, args ...string) result {
	t.Helper()
	t.Cleanup(func() { logging.Set(nil) })

	cmd := NewRootCmd()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	code := Run(cmd, args, &errOut)

	return result{out: out.String(), err: errOut.String(), code: code}
}

func TestVersion(t *testing.T) {
	r := execute(t, "version")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, "slicetrait v"+Version+"\n", r.out)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "indexed request falls back to uniform mapping",
			args: []string{"resolve", "DynamicTensor<int>", "--index", "2"},
			want: []string{"rowslice: DynamicTensor<int> [2] => DynamicMatrix<int, rowMajor>"},
		},
		{
			name: "qualifiers are ignored",
			args: []string{"resolve", "const blaze::DynamicTensor<int>&"},
			want: []string{"=> DynamicMatrix<int, rowMajor>"},
		},
		{
			name: "view forwards to wrapped tensor",
			args: []string{"resolve", "Subtensor<CompressedTensor<float>, 0, 1>", "--axis", "quatslice", "--explain"},
			want: []string{"=> CompressedMatrix<float, rowMajor>", "via quatslice: Subtensor<TT, CSAs...>", "  [Uniform] CompressedTensor<float>"},
		},
		{
			name: "all axes as YAML",
			args: []string{"resolve", "UniformTensor<bool>", "--axis", "all", "-o", "yaml"},
			want: []string{"axis: rowslice", "axis: quatslice", "valid: true", "source: slicetrait/tensors"},
		},
		{
			name: "table",
			args: []string{"resolve", "HybridTensor<double, 2, 3, 4>", "-o", "table"},
			want: []string{"AXIS", "DynamicMatrix<double, rowMajor>", "Uniform"},
		},
		{
			name: "unsupported container",
			args: []string{"resolve", "Dynamictensor<int>", "--index", "5"},
			want: []string{"=> INVALID_TYPE", "unsupported slice trait", "hint: did you mean", "DynamicTensor"},
		},
		{
			name: "dump",
			args: []string{"resolve", "DynamicTensor<int>", "--dump"},
			want: []string{"descriptor.Con", "DynamicMatrix"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, tt.args...)
			require.Equal(t, 0, r.code, r.err)

			for _, w := range tt.want {
				assert.Contains(t, r.out, w)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"require unsupported", []string{"resolve", "Unregistered<int>", "--require"}, []string{"unsupported slice trait"}},
		{"syntax", []string{"resolve", "DynamicTensor<int"}, []string{"descriptor syntax error", "Hint:"}},
		{"unknown axis", []string{"resolve", "DynamicTensor<int>", "--axis", "rowslise"}, []string{"unknown axis", `Hint: did you mean "rowslice"?`}},
		{"bad index", []string{"resolve", "DynamicTensor<int>", "--index", "-3"}, []string{"invalid index"}},
		{"bad output", []string{"resolve", "DynamicTensor<int>", "-o", "html"}, []string{"invalid configuration", "Hint: use one of text, table, yaml"}},
		{"no builtin", []string{"resolve", "DynamicTensor<int>", "--no-builtin", "--require"}, []string{"unsupported slice trait"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, tt.args...)
			require.Equal(t, 1, r.code)

			for _, w := range tt.want {
				assert.Contains(t, r.err, w)
			}
		})
	}
}

func TestResolve_MappingFile(t *testing.T) {
	r := execute(t, "resolve", "Grid<int>", "--mapping", "testdata/grid.yaml", "--axis", "colslice", "--index", "0")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "colslice: Grid<int> [0] => GridLine<int>")

	r = execute(t, "resolve", "Grid<int>", "-m", "testdata/grid.yaml", "--index", "0")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "=> GridHeader<int>")

	r = execute(t, "resolve", "Grid<int>", "-m", "testdata/bad.yaml")
	require.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "mapping file is invalid")
}

func TestList(t *testing.T) {
	r := execute(t, "list", "--axis", "rowslice", "-o", "table")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "DynamicTensor<T>")
	assert.Contains(t, r.out, "forward(TT)")
	assert.Contains(t, r.out, "slicetrait/tensors")
	assert.NotContains(t, r.out, "quatslice")

	r = execute(t, "list", "--no-builtin", "-m", "testdata/grid.yaml")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t,
		"rowslice: Grid<T> [*] -> GridLine<T>  (testdata/grid.yaml:traits[0])\n"+
			"rowslice: Grid<T> [0] -> GridHeader<T>  (testdata/grid.yaml:traits[1])\n"+
			"colslice: Grid<T> [*] -> GridLine<T>  (testdata/grid.yaml:traits[0])\n",
		r.out)
}

func TestList_YAMLIsLoadable(t *testing.T) {
	r := execute(t, "list", "--no-builtin", "-m", "testdata/grid.yaml", "--axis", "rowslice", "-o", "yaml")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "container: Grid<T>")
	assert.Contains(t, r.out, "index: 0")
}

func TestCheck(t *testing.T) {
	r := execute(t, "check", "testdata/grid.yaml", "testdata/containers.yaml")
	require.Equal(t, 0, r.code, r.err)
	assert.Empty(t, r.out)

	r = execute(t, "check", "testdata/bad.yaml", "-o", "yaml")
	require.Equal(t, 1, r.code)
	assert.Contains(t, r.out, "code: unknown_axis")
	assert.Contains(t, r.out, "code: unbound_result_var")
	assert.Contains(t, r.err, "1 of 1 file(s) have errors")

	// Conflicts with the built-in set are found by registering.
	r = execute(t, "check", "testdata/conflict.yaml")
	require.Equal(t, 1, r.code)
	assert.Contains(t, r.out, "registration_failed")

	r = execute(t, "check", "testdata/conflict.yaml", "--no-builtin")
	require.Equal(t, 0, r.code, r.err)

	r = execute(t, "check", "testdata/missing.yaml")
	require.Equal(t, 1, r.code)
	assert.Contains(t, r.out, "load_failed")
}

func TestCheck_Packages(t *testing.T) {
	r := execute(t, "check", "testdata/grid.yaml", "--packages", containersPkg, "-o", "table")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "container_not_found")
}

func TestAudit(t *testing.T) {
	r := execute(t, "audit", containersPkg, "--no-builtin", "-m", "testdata/containers.yaml")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "rowslice "+containersPkg+".Cube<T>: 1 mapping(s)")
	assert.Contains(t, r.out, "quatslice "+containersPkg+".Dense2D<T>: uncovered")

	r = execute(t, "audit", containersPkg, "--no-builtin", "-m", "testdata/containers.yaml", "--axis", "rowslice", "--uncovered", "-o", "yaml")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "container: "+containersPkg+".Ring<T>")
	assert.NotContains(t, r.out, "Cube")

	r = execute(t, "audit", containersPkg, "--no-builtin", "--strict")
	require.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "containers without slice traits")
}

func TestGen(t *testing.T) {
	r := execute(t, "gen", "testdata/grid.yaml", "--stdout", "--package", "gridtraits", "--init")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "package gridtraits")
	assert.Contains(t, r.out, `.AtIndex(0).From("grid.yaml:traits[1]")`)
	assert.Contains(t, r.out, "func init()")

	dir := t.TempDir()
	r = execute(t, "gen", "testdata/grid.yaml", "--dir", dir)
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, filepath.Join(dir, "grid_traits.go")+"\n", r.out)
	assert.FileExists(t, filepath.Join(dir, "grid_traits.go"))

	r = execute(t, "gen", "testdata/bad.yaml", "--stdout")
	require.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "mapping file is invalid")
	assert.Empty(t, r.out)
}

func TestBuildRegistry(t *testing.T) {
	reg, err := BuildRegistry(&config.Config{Builtin: true})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Mappings(trait.RowSlice))
	assert.NotEmpty(t, reg.Mappings(trait.QuatSlice))

	reg, err = BuildRegistry(&config.Config{MappingFiles: []string{"testdata/grid.yaml"}})
	require.NoError(t, err)
	assert.Contains(t, reg.Axes(), trait.Axis("colslice"))

	_, err = BuildRegistry(&config.Config{MappingFiles: []string{"testdata/missing.yaml"}})
	require.Error(t, err)
}
