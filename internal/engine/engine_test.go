package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absint/internal/ast"
	"absint/internal/domain/interval"
	"absint/internal/domain/sign"
	"absint/internal/parser"
)

func analyzeInterval(t *testing.T, src string, params Params) *Memory {
	t.Helper()
	cmd, err := parser.ParseSource("<test>", src)
	require.NoError(t, err)
	mem := NewMemory(interval.Domain)
	New(interval.Domain, params).Analyze(cmd, mem)
	return mem
}

func analyzeSign(t *testing.T, src string, pre map[ast.Var]Sign) *Memory {
	t.Helper()
	cmd, err := parser.ParseSource("<test>", src)
	require.NoError(t, err)
	bindings := map[ast.Var]Sign{}
	for k, v := range pre {
		bindings[k] = v
	}
	mem := NewMemory(sign.Domain)
	for k, v := range bindings {
		mem.Set(k, v)
	}
	New(sign.Domain, DefaultParams(sign.Domain)).Analyze(cmd, mem)
	return mem
}

// local alias so analyzeSign's signature doesn't need the sign package's
// exported type spelled out at every call site.
type Sign = sign.Sign

// Scenario 1: an interval join across a branch recovers ⊤ for the
// untouched variable and a tight non-negative bound for the computed one.
func TestScenarioIfBranchJoin(t *testing.T) {
	mem := analyzeInterval(t, `if (x > 7) { y := x - 7 } else { y := 7 - x }`, DefaultParams(interval.Domain))
	assert.True(t, mem.Get("x").Equal(interval.Domain.Top()))

	zero, _ := interval.NewBounded(0, 0)
	assert.True(t, mem.Get("y").Includes(zero))
	assert.False(t, mem.Get("y").Sat(ast.BExpr{Op: ast.LE, Const: -1}))
}

// Scenario 2: widening converges to [0, +∞) before the loop-exit filter,
// which then tightens the lower bound toward 100 but leaves the upper
// bound unbounded.
func TestScenarioWhileWithWideningConverges(t *testing.T) {
	params := DefaultParams(interval.Domain)
	params.UseWidening = true
	mem := analyzeInterval(t, `x := 0 ; while (x <= 100) { if (x >= 50) { x := 10 } else { x := x + 1 } }`, params)

	x := mem.Get("x")
	assert.True(t, x.Sat(ast.BExpr{Op: ast.GE, Const: 100}))
	assert.True(t, x.Sat(ast.BExpr{Op: ast.GT, Const: 1e30}))
}

// Scenario 3: a finite widening threshold pins the invariant's upper bound
// at the threshold rather than letting it run to +∞; the loop-exit filter
// then finds the post-loop state unreachable.
func TestScenarioWideningThresholdPinsInvariant(t *testing.T) {
	params := DefaultParams(interval.Domain)
	params.UseWidening = true
	threshold, err := interval.NewBounded(-50, 50)
	require.NoError(t, err)
	params.WideningThreshold = threshold

	mem := analyzeInterval(t, `x := 0 ; while (x <= 100) { if (x >= 50) { x := 10 } else { x := x + 1 } }`, params)
	assert.True(t, mem.Get("x").Equal(interval.Domain.Bottom()))
}

// Scenario 2 (continued): without widening the same loop still converges by
// plain joins, after 52 Kleene iterations (just under IterationCap): the
// reset to 10 keeps the invariant's upper bound just below 51, so the exit
// filter on x > 100 proves the loop's exit state unreachable.
func TestScenarioWhileWithoutWideningExitIsBottom(t *testing.T) {
	mem := analyzeInterval(t, `x := 0 ; while (x <= 100) { if (x >= 50) { x := 10 } else { x := x + 1 } }`, DefaultParams(interval.Domain))
	assert.True(t, mem.Get("x").Equal(interval.Domain.Bottom()))
}

// Scenario 4: the then-branch becomes infeasible, suppressing its
// assignment; joining with the else branch recovers the else values exactly.
func TestScenarioBottomSuppressesAssignment(t *testing.T) {
	mem := analyzeInterval(t, `x := 8 ; y := 1 ; if (x < 0) { y := 0 } else { skip }`, DefaultParams(interval.Domain))
	eight, _ := interval.NewBounded(8, 8)
	one, _ := interval.NewBounded(1, 1)
	assert.True(t, mem.Get("x").Equal(eight))
	assert.True(t, mem.Get("y").Equal(one))
}

// Scenario 5: a loop that never falsifies its own guard is, after the
// exit filter, proven unreachable.
func TestScenarioSignLoopExitIsBottom(t *testing.T) {
	mem := analyzeSign(t, `x := 0 ; while (x >= 0) { x := x + 1 }`, map[ast.Var]Sign{"x": sign.Pos})
	assert.Equal(t, sign.Bottom, mem.Get("x"))
}

// Scenario 6: the sign domain's 3-level lattice stabilizes after two
// Kleene iterations regardless of how many concrete iterations the loop
// actually runs.
func TestScenarioSignLoopConvergesToPos(t *testing.T) {
	mem := analyzeSign(t, `x := 0 ; y := 0 ; while (x < 10) { x := x + 1 ; y := x }`, nil)
	assert.Equal(t, sign.Pos, mem.Get("x"))
	assert.Equal(t, sign.Pos, mem.Get("y"))
}

func TestEngineMonotonicity(t *testing.T) {
	cmd, err := parser.ParseSource("<test>", `y := x + 1`)
	require.NoError(t, err)

	small, _ := interval.NewBounded(0, 5)
	big, _ := interval.NewBounded(-10, 10)

	m1 := NewMemory(interval.Domain)
	m1.Set("x", small)
	New(interval.Domain, DefaultParams(interval.Domain)).Analyze(cmd, m1)

	m2 := NewMemory(interval.Domain)
	m2.Set("x", big)
	New(interval.Domain, DefaultParams(interval.Domain)).Analyze(cmd, m2)

	assert.True(t, m2.Get("y").Includes(m1.Get("y")))
}
