package errors

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostic_Error(t *testing.T) {
	d := New(PhaseResolve, ErrRawContainer, "raw java.util.Set has no element type", Warning).
		ForType("com.acme.Person").
		ForMember("tags")

	assert.Equal(t, "com.acme.Person.tags: M001: raw java.util.Set has no element type", d.Error())
	assert.True(t, d.IsWarning())
	assert.False(t, d.IsError())
}

func TestDiagnostic_ErrorWithoutSubject(t *testing.T) {
	d := New(PhaseLoad, ErrSourceLoad, "no sources", Error)
	assert.Equal(t, "M300: no sources", d.Error())
}

func TestDiagnostic_WithCause(t *testing.T) {
	cause := stderrors.New("disk full")
	d := New(PhaseEmit, ErrEmissionWrite, "", Error).WithCause(cause)

	assert.Equal(t, "disk full", d.Message)
	assert.True(t, stderrors.Is(d, cause))
}

func TestSeverity_JSONRoundTrip(t *testing.T) {
	for _, s := range []Severity{Info, Warning, Error, Fatal} {
		data, err := json.Marshal(s)
		require.NoError(t, err)

		var got Severity
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, s, got)
	}

	var unknown Severity
	require.NoError(t, json.Unmarshal([]byte(`"bogus"`), &unknown))
	assert.Equal(t, Error, unknown)
}

func TestFormatDiagnosticsAsJSON(t *testing.T) {
	diags := []Diagnostic{
		New(PhaseResolve, ErrRawContainer, "raw", Warning).ForType("a.B"),
		New(PhaseSupertype, ErrSupertypeCycle, "cycle", Error).ForType("a.C"),
		New(PhaseEmit, "", "note", Info),
	}

	out, err := FormatDiagnosticsAsJSON("run-1", 3, 1, diags)
	require.NoError(t, err)

	var decoded JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "error", decoded.Status)
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Len(t, decoded.Errors, 1)
	assert.Len(t, decoded.Warnings, 1)
	assert.Equal(t, 3, decoded.Summary.Generated)
	assert.Equal(t, 1, decoded.Summary.Skipped)
	assert.Equal(t, 3, decoded.Summary.TotalCount)
}

func TestFormatDiagnosticsAsJSON_Success(t *testing.T) {
	out, err := FormatDiagnosticsAsJSON("", 2, 0, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "success"`)
	assert.Contains(t, out, `"errors": []`)
}
