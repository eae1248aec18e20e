package diagnostic

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Empty(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Error())
	assert.Empty(t, d.All())
}

func TestDiagnostics_Error(t *testing.T) {
	var d Diagnostics

	d.AddWarning("no_params", "params are inferred", "traits[0]", "params")
	d.AddError("unknown_axis", `unknown axis "rowslise"`, "traits[1]", "axis", "rowslice")

	require.True(t, d.HasErrors())

	err := d.Error()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), `[traits[1]] axis: [unknown_axis] unknown axis "rowslise"`)
	assert.Equal(t, []string{"axis: did you mean rowslice?"}, errors.GetAllHints(err))
}

func TestDiagnostics_MergeAndAll(t *testing.T) {
	var a, b Diagnostics

	a.AddInfo("loaded", "2 entries", "", "")
	b.AddError("duplicate_entry", "duplicate", "traits[3]", "container")
	b.AddWarning("w", "warn", "", "")
	a.Merge(b)

	all := a.All()
	require.Len(t, all, 3)
	assert.Equal(t, DiagnosticError, all[0].Severity)
	assert.Equal(t, DiagnosticWarning, all[1].Severity)
	assert.Equal(t, DiagnosticInfo, all[2].Severity)
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{"message only", Diagnostic{Message: "m"}, "m"},
		{"code", Diagnostic{Code: "c", Message: "m"}, "[c] m"},
		{"entry and subject", Diagnostic{Code: "c", Message: "m", Entry: "traits[0]", Subject: "result"}, "[traits[0]] result: [c] m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}
