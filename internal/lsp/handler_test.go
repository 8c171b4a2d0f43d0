package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"absint/internal/domain/interval"
)

func TestDiagnoseReportsParseError(t *testing.T) {
	h := NewHandler()
	diags := h.diagnose("<test>", `x := `)
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
}

func TestDiagnoseReportsUnreachableBinding(t *testing.T) {
	h := NewHandler()
	diags := h.diagnose("<test>", `x := 0 ; while (x >= 0) { x := x + 1 }`)
	require.NotEmpty(t, diags)

	found := false
	for _, d := range diags {
		if *d.Severity == protocol.DiagnosticSeverityWarning {
			found = true
		}
	}
	assert.True(t, found, "expected at least one warning diagnostic for the unreachable binding")
}

func TestDiagnoseReportsIterationCap(t *testing.T) {
	// The sign domain's lattice has height 3 and always converges within a
	// handful of joins, so it can never hit the cap; the interval domain
	// without widening needs it to demonstrate the warning.
	h := NewHandlerWithDomain(interval.Domain)
	diags := h.diagnose("<test>", `x := 0 ; while (x <= 100) { if (x >= 50) { x := 10 } else { x := x + 1 } }`)

	found := false
	for _, d := range diags {
		if d.Message != "" && *d.Severity == protocol.DiagnosticSeverityWarning {
			found = found || containsIterationCapCode(d.Message)
		}
	}
	assert.True(t, found, "expected an iteration-cap diagnostic, got %+v", diags)
}

func containsIterationCapCode(msg string) bool {
	return len(msg) >= 4 && msg[:4] == "W001"
}
