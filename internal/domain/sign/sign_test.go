package sign

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"absint/internal/ast"
)

func guard(op ast.GuardOp, n float64) ast.BExpr {
	return ast.BExpr{Op: op, Const: ast.Const(n)}
}

func TestBottomAbsorbsArithmetic(t *testing.T) {
	for _, v := range []Sign{Bottom, Neg, Zero, Pos, Top} {
		assert.Equal(t, Bottom, Bottom.Add(v))
		assert.Equal(t, Bottom, v.Add(Bottom))
		assert.Equal(t, Bottom, Bottom.Mul(v))
		assert.Equal(t, Bottom, v.Mul(Bottom))
	}
}

func TestAddTable(t *testing.T) {
	assert.Equal(t, Pos, Pos.Add(Zero))
	assert.Equal(t, Neg, Zero.Add(Neg))
	assert.Equal(t, Pos, Pos.Add(Pos))
	assert.Equal(t, Neg, Neg.Add(Neg))
	assert.Equal(t, Top, Pos.Add(Neg))
	assert.Equal(t, Top, Top.Add(Pos))
}

func TestSubViaAddNeg(t *testing.T) {
	// Zero - Pos must be Neg: the original Rust reference gets this wrong.
	assert.Equal(t, Neg, Zero.Sub(Pos))
	assert.Equal(t, Pos, Zero.Sub(Neg))
	assert.Equal(t, Pos, Pos.Sub(Zero))
	assert.Equal(t, Neg, Neg.Sub(Zero))
}

func TestMulTable(t *testing.T) {
	assert.Equal(t, Zero, Zero.Mul(Pos))
	assert.Equal(t, Zero, Pos.Mul(Zero))
	assert.Equal(t, Pos, Neg.Mul(Neg))
	assert.Equal(t, Neg, Neg.Mul(Pos))
	assert.Equal(t, Top, Top.Mul(Pos))
}

func TestJoinIsLatticeLUB(t *testing.T) {
	assert.Equal(t, Pos, Bottom.Join(Pos))
	assert.Equal(t, Pos, Pos.Join(Bottom))
	assert.Equal(t, Neg, Neg.Join(Neg))
	assert.Equal(t, Top, Pos.Join(Neg))
	assert.Equal(t, Top, Zero.Join(Top))
}

func TestIncludes(t *testing.T) {
	assert.True(t, Top.Includes(Pos))
	assert.True(t, Top.Includes(Bottom))
	assert.False(t, Pos.Includes(Neg))
	assert.True(t, Pos.Includes(Bottom))
	assert.False(t, Bottom.Includes(Pos))
}

func TestSatAndRefine(t *testing.T) {
	assert.True(t, Top.Sat(guard(ast.GT, 0)))
	assert.Equal(t, Pos, Top.Refine(guard(ast.GT, 0)))

	assert.True(t, Neg.Sat(guard(ast.LE, 100)))
	assert.False(t, Pos.Sat(guard(ast.LE, -1)))

	assert.False(t, Bottom.Sat(guard(ast.EQ, 0)))
	assert.Equal(t, Bottom, Bottom.Refine(guard(ast.EQ, 0)))

	// No sign value is tight enough to represent a punctured set.
	assert.Equal(t, Bottom, Top.Refine(guard(ast.NE, 5)))
}

func TestWidenIsJoin(t *testing.T) {
	assert.Equal(t, Top, Pos.Widen(Neg, Top))
	assert.Equal(t, Pos, Pos.Widen(Pos, Top))
}
