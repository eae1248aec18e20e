package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicetrait/internal/config"
	"slicetrait/internal/diagnostic"
	"slicetrait/trait"
)

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "slicetrait v1.2.3\n", buf.String())
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
}

func TestStateFrom_Default(t *testing.T) {
	st := StateFrom(context.Background())
	require.NotNil(t, st.Registry)
	assert.Equal(t, config.OutputText, st.Config.Output)
	assert.Empty(t, st.Registry.Mappings(trait.RowSlice))

	custom := &State{Config: &config.Config{Output: config.OutputYAML}, Registry: trait.NewRegistry()}
	assert.Same(t, custom, StateFrom(WithState(context.Background(), custom)))
}

func TestResolveCommand_StandaloneState(t *testing.T) {
	reg := trait.NewRegistry()
	reg.MustRegister(trait.MustDefine(trait.RowSlice, "Dense2D<T>", "View2D<T, rowMajor>", "T"))

	cmd := NewResolveCommand()
	cmd.SetContext(WithState(context.Background(), &State{
		Config:   &config.Config{Output: config.OutputText},
		Registry: reg,
	}))

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"const Dense2D<int>&", "--index", "0"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "rowslice: const Dense2D<int>& [0] => View2D<int, rowMajor>\n", buf.String())
}

func TestRenderDiagnostics_Text(t *testing.T) {
	var d diagnostic.Diagnostics
	d.AddError("unknown_axis", `unknown axis "rowslise"`, "traits[0]", "axis", "rowslice")
	d.AddWarning("unused_param", "parameter U does not occur", "traits[0]", "params")

	var buf bytes.Buffer
	require.NoError(t, renderDiagnostics(&buf, config.OutputText, viewDiagnostics("a.yaml", d.All())))

	assert.Equal(t,
		`error: a.yaml: [traits[0]] axis: [unknown_axis] unknown axis "rowslise" (did you mean rowslice?)`+"\n"+
			"warning: a.yaml: [traits[0]] params: [unused_param] parameter U does not occur\n",
		buf.String())
}

func TestCloneRegistry(t *testing.T) {
	reg := trait.NewRegistry(trait.RowSlice, "colslice")
	reg.MustRegister(trait.MustDefine("colslice", "Grid<T>", "Col<T>", "T"))

	clone := cloneRegistry(reg)
	clone.MustRegister(trait.MustDefine(trait.RowSlice, "Grid<T>", "Row<T>", "T"))

	assert.Len(t, clone.Mappings("colslice"), 1)
	assert.Empty(t, reg.Mappings(trait.RowSlice), "registering into the clone leaves the original alone")
}
