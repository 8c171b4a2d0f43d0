package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgramShapes(t *testing.T) {
	sources := []string{
		`skip`,
		`x := 1`,
		`x := -y + 2 * (3 - z)`,
		`input(x)`,
		`if (x > 0) { y := 1 } else { y := -1 }`,
		`while (x <= 10) { x := x + 1 }`,
		`x := 1 ; y := 2 ; z := x + y`,
	}
	for _, src := range sources {
		_, err := ParseSource("<test>", src)
		assert.NoError(t, err, "source: %s", src)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseSource("<test>", `x := `)
	require.Error(t, err)

	_, err = ParseSource("<test>", `if (x > 0) { y := 1 }`)
	require.Error(t, err, "a guarded command without an else branch is not valid in this grammar")
}

// Round-trip: re-serialising a parsed tree and re-parsing it must produce
// the same canonical rendering (spec's AST contract).
func TestRoundTripParse(t *testing.T) {
	sources := []string{
		`skip`,
		`x := 1 + 2 * 3`,
		`x := -y + 2 * (3 - z)`,
		`input(x) ; y := x - 1`,
		`if (x > 0) { y := 1 } else { y := -1 }`,
		`while (x <= 10) { x := x + 1 ; y := y * 2 }`,
	}
	for _, src := range sources {
		cmd1, err := ParseSource("<test>", src)
		require.NoError(t, err, "source: %s", src)
		rendered := cmd1.String()

		cmd2, err := ParseSource("<test>", rendered)
		require.NoError(t, err, "re-parsing rendered output: %s", rendered)

		assert.Equal(t, rendered, cmd2.String())
	}
}

func TestParsePreservesOperatorPrecedence(t *testing.T) {
	cmd, err := ParseSource("<test>", `x := 1 + 2 * 3`)
	require.NoError(t, err)
	assert.Equal(t, "x := 1 + 2 * 3", cmd.String())
}
