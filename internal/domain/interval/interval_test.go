package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absint/internal/ast"
	"absint/internal/domain"
)

func iv(lo, hi float64) domain.Value {
	v, err := NewBounded(lo, hi)
	if err != nil {
		panic(err)
	}
	return v
}

func guard(op ast.GuardOp, n float64) ast.BExpr {
	return ast.BExpr{Op: op, Const: ast.Const(n)}
}

func TestNewBoundedRejectsInverted(t *testing.T) {
	_, err := NewBounded(5, 1)
	require.Error(t, err)
}

func TestArithmeticIsBottomAbsorbing(t *testing.T) {
	bot := Domain.Bottom()
	five := Domain.FromReal(5)
	assert.True(t, bot.Add(five).Equal(bot))
	assert.True(t, five.Mul(bot).Equal(bot))
}

func TestAddSub(t *testing.T) {
	a := iv(1, 3)
	b := iv(-2, 4)
	assert.True(t, a.Add(b).Equal(iv(-1, 7)))
	assert.True(t, a.Sub(b).Equal(iv(-3, 5)))
}

func TestMulCoversAllCorners(t *testing.T) {
	a := iv(-2, 3)
	b := iv(-1, 5)
	// corners: -2*-1=2, -2*5=-10, 3*-1=-3, 3*5=15 -> [-10, 15]
	assert.True(t, a.Mul(b).Equal(iv(-10, 15)))
}

func TestDivByStraddlingZeroIsTop(t *testing.T) {
	a := iv(1, 10)
	b := iv(-1, 1)
	assert.True(t, a.Div(b).Equal(Domain.Top()))
}

func TestDivByPositiveInterval(t *testing.T) {
	a := iv(10, 20)
	b := iv(2, 5)
	result := a.Div(b)
	// [10,20] / [2,5]: corners 10/2=5, 10/5=2, 20/2=10, 20/5=4 -> [2,10]
	assert.True(t, result.Equal(iv(2, 10)))
}

func TestJoinCanonicalizesToTop(t *testing.T) {
	joined := iv(negInf, 5).Join(iv(-5, posInf))
	assert.True(t, joined.Equal(Domain.Top()))
}

func TestIncludes(t *testing.T) {
	assert.True(t, iv(0, 10).Includes(iv(2, 8)))
	assert.False(t, iv(2, 8).Includes(iv(0, 10)))
	assert.True(t, iv(0, 10).Includes(Domain.Bottom()))
	assert.False(t, Domain.Bottom().Includes(iv(0, 10)))
}

func TestSatAndRefine(t *testing.T) {
	a := iv(0, 10)
	assert.True(t, a.Sat(guard(ast.LE, 5)))
	refined := a.Refine(guard(ast.LE, 5))
	assert.True(t, refined.Equal(iv(0, 5)))

	assert.False(t, a.Sat(guard(ast.GT, 20)))
	assert.True(t, a.Refine(guard(ast.GT, 20)).Equal(Domain.Bottom()))
}

func TestRefineStrictInequalityCloses(t *testing.T) {
	a := iv(0, 10)
	refined := a.Refine(guard(ast.LT, 5))
	lo, hi := refined.(Interval).lo, refined.(Interval).hi
	assert.Equal(t, 0.0, lo)
	assert.InDelta(t, 5-epsilon, hi, 1e-9)
}

func TestWidenSnapsToFiniteThresholdAndStaysThere(t *testing.T) {
	threshold := iv(-100, 100)
	prev := iv(0, 10)
	next := iv(0, 50)
	widened := next.Widen(prev, threshold)
	assert.True(t, widened.Equal(iv(0, 100)))

	// A finite threshold bound is adopted unconditionally, with no
	// overshoot check: growth that continues past it does not escalate
	// further to infinity, it stays pinned at the threshold.
	next2 := iv(0, 250)
	widened2 := next2.Widen(widened, threshold)
	assert.True(t, widened2.Equal(iv(0, 100)))
}

func TestWidenWithTopThresholdEscalatesToInfinity(t *testing.T) {
	prev := iv(0, 10)
	next := iv(0, 50)
	widened := next.Widen(prev, Domain.Top())
	assert.True(t, widened.Equal(iv(0, posInf)))
}

func TestWidenStableChainDoesNotMove(t *testing.T) {
	a := iv(0, 10)
	assert.True(t, a.Widen(a, Domain.Top()).Equal(a))
}

func TestWidenBottomPrevForcesMotion(t *testing.T) {
	widened := iv(0, 1).Widen(Domain.Bottom(), Domain.Top())
	assert.True(t, widened.Equal(Domain.Top()))
}
