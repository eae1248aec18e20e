package gen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicetrait/internal/diagnostic"
	"slicetrait/internal/mapping"
)

func loadGrid(t *testing.T) *mapping.MappingFile {
	t.Helper()

	mf, err := mapping.LoadFile(filepath.Join("testdata", "grid.yaml"))
	require.NoError(t, err)

	return mf
}

func generateGrid(t *testing.T, cfg GeneratorConfig) string {
	t.Helper()

	file, err := NewGenerator(cfg).Generate(loadGrid(t), filepath.Join("testdata", "grid.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "grid_traits.go", file.Filename)

	_, err = parser.ParseFile(token.NewFileSet(), file.Filename, file.Content, parser.AllErrors)
	require.NoError(t, err, "generated code must parse:\n%s", file.Content)

	return string(file.Content)
}

func TestGenerate(t *testing.T) {
	src := generateGrid(t, DefaultGeneratorConfig())

	assert.True(t, strings.HasPrefix(src, "// Code generated by slicetrait gen from grid.yaml. DO NOT EDIT."))
	assert.Contains(t, src, "package traits\n")
	assert.Contains(t, src, `import "slicetrait/trait"`)
	assert.Contains(t, src, `if err := reg.AddAxis(trait.Axis("colslice")); err != nil {`)
	assert.Contains(t, src,
		`trait.MustDefine(trait.RowSlice, "Grid<T, N>", "GridLine<T, N>", "T", "N").From("grid.yaml:traits[1]")`)
	assert.Contains(t, src,
		`trait.MustDefine(trait.Axis("colslice"), "Grid<T, N>", "GridLine<T, N>", "T", "N").From("grid.yaml:traits[1]")`)
	assert.Contains(t, src,
		`trait.MustDefine(trait.RowSlice, "Grid<T, N>", "GridHeader<T>", "T", "N").AtIndex(0).From("grid.yaml:traits[2]")`)
	assert.Contains(t, src,
		`trait.MustDefineForward(trait.RowSlice, "GridView<TT, Ops...>", "TT", "TT", "Ops...").From("grid.yaml:traits[3]")`)
	assert.Contains(t, src, "// rowslice: Grid<T, N> [0] -> GridHeader<T>")
	assert.NotContains(t, src, "func init()")
}

func TestGenerate_GeneralBeforeSpecific(t *testing.T) {
	src := generateGrid(t, DefaultGeneratorConfig())

	general := strings.Index(src, `"Grid<T, N>", "GridLine<T, N>"`)
	specific := strings.Index(src, `"Grid<T, 3>", "GridLine<T, 3>"`)

	require.NotEqual(t, -1, general)
	require.NotEqual(t, -1, specific)
	assert.Less(t, general, specific, "traits[0] refines traits[1] and follows it")
}

func TestGenerate_Init(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.PackageName = "gridtraits"
	cfg.Init = true

	src := generateGrid(t, cfg)

	assert.Contains(t, src, "package gridtraits\n")
	assert.Contains(t, src, "func init() {\n\tif err := Register(trait.Default); err != nil {")
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("nil file", func(t *testing.T) {
		_, err := NewGenerator(DefaultGeneratorConfig()).Generate(nil, "x.yaml")
		require.Error(t, err)
	})

	t.Run("bad package name", func(t *testing.T) {
		cfg := DefaultGeneratorConfig()
		cfg.PackageName = "grid-traits"

		_, err := NewGenerator(cfg).Generate(loadGrid(t), "grid.yaml")
		require.ErrorContains(t, err, "invalid package name")
	})

	t.Run("invalid mapping file", func(t *testing.T) {
		mf := &mapping.MappingFile{
			Version: mapping.CurrentVersion,
			Traits: []mapping.TraitEntry{
				{Axis: mapping.StringOrArray{"rowslise"}, Container: "Grid<T>", Params: mapping.StringOrArray{"T"}, Result: "T"},
			},
		}

		_, err := NewGenerator(DefaultGeneratorConfig()).Generate(mf, "bad.yaml")
		require.ErrorIs(t, err, diagnostic.ErrInvalid)
		assert.Contains(t, err.Error(), "bad.yaml")
	})
}

func TestGenerator_Filename(t *testing.T) {
	g := NewGenerator(GeneratorConfig{})
	assert.Equal(t, "my_grid_v2_traits.go", g.filename("dir/my-grid.v2.yaml"))

	g = NewGenerator(GeneratorConfig{Filename: "zz_traits.go"})
	assert.Equal(t, "zz_traits.go", g.filename("grid.yaml"))
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := WriteFiles([]GeneratedFile{{Filename: "a.go", Content: []byte("package a\n")}}, dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.go")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(data))
}

func TestWriteDebugUnformatted(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeDebugUnformatted(dir, "grid_traits.go", []byte("package x {")))
	assert.FileExists(t, filepath.Join(dir, "grid_traits.unformatted.go"))

	require.NoError(t, writeDebugUnformatted("", "grid_traits.go", nil))
}
