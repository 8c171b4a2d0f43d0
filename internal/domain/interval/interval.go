// Package interval implements the Interval abstract domain ({⊥} ∪ closed
// real intervals ∪ {⊤}) described in spec §4.3.
package interval

import (
	"fmt"
	"math"
	"strconv"

	"absint/internal/ast"
	"absint/internal/domain"
)

// epsilon masks the rounding noise the numeric kernel introduces when
// comparing endpoints, and closes strict-inequality refinement (spec §4.3,
// §9).
const epsilon = 1e-5

// negInf and posInf stand in for -∞/+∞ (spec §4.3: "represented by the
// numeric type's minimum and maximum sentinels"). Every arithmetic result is
// clamped back into [negInf, posInf] so the sentinels stay exact rather than
// drifting into real IEEE infinities, which would break the
// join-to-⊤ canonicalisation and Equal's epsilon comparison.
const (
	negInf = -math.MaxFloat64
	posInf = math.MaxFloat64
)

// Interval is one element of the interval lattice: ⊥, or a closed [lo, hi]
// (with [negInf, posInf] standing for ⊤).
type Interval struct {
	bottom bool
	lo, hi float64
}

func clamp(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	if x > posInf {
		return posInf
	}
	if x < negInf {
		return negInf
	}
	return x
}

func isTop(iv Interval) bool { return !iv.bottom && iv.lo <= negInf && iv.hi >= posInf }

func nearlyEqual(x, y float64) bool {
	if x == y {
		return true
	}
	return math.Abs(x-y) < epsilon
}

func (iv Interval) String() string {
	if iv.bottom {
		return "⊥"
	}
	if isTop(iv) {
		return "⊤"
	}
	return fmt.Sprintf("[%s, %s]", boundString(iv.lo, false), boundString(iv.hi, true))
}

func boundString(x float64, upper bool) string {
	if x <= negInf {
		return "-inf"
	}
	if x >= posInf {
		return "+inf"
	}
	_ = upper
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func asInterval(v domain.Value) Interval {
	iv, ok := v.(Interval)
	if !ok {
		panic(fmt.Sprintf("interval: value of unexpected type %T", v))
	}
	return iv
}

type domainImpl struct{}

// Domain is the interval domain's factory.
var Domain domain.Domain = domainImpl{}

func (domainImpl) Name() string { return "interval" }

func (domainImpl) FromReal(n float64) domain.Value {
	return Interval{lo: n, hi: n}
}

func (domainImpl) Bottom() domain.Value { return Interval{bottom: true} }
func (domainImpl) Top() domain.Value    { return Interval{lo: negInf, hi: posInf} }

// NewBounded constructs a closed [lo, hi], rejecting lo > hi (spec §4.3:
// "the constructor for a bounded interval must reject a > b").
func NewBounded(lo, hi float64) (domain.Value, error) {
	if lo > hi {
		return nil, fmt.Errorf("interval: invalid bounds [%g, %g]: lower exceeds upper", lo, hi)
	}
	return Interval{lo: clamp(lo), hi: clamp(hi)}, nil
}

func (a Interval) Add(other domain.Value) domain.Value {
	b := asInterval(other)
	if a.bottom || b.bottom {
		return Interval{bottom: true}
	}
	return Interval{lo: clamp(a.lo + b.lo), hi: clamp(a.hi + b.hi)}
}

func (a Interval) Sub(other domain.Value) domain.Value {
	b := asInterval(other)
	if a.bottom || b.bottom {
		return Interval{bottom: true}
	}
	return Interval{lo: clamp(a.lo - b.hi), hi: clamp(a.hi - b.lo)}
}

func (a Interval) Neg() domain.Value {
	if a.bottom {
		return a
	}
	return Interval{lo: clamp(-a.hi), hi: clamp(-a.lo)}
}

// mulBound multiplies two (possibly sentinel) endpoints, defining 0 times
// anything — including an unbounded sentinel — as exactly 0, the standard
// interval-arithmetic convention.
func mulBound(x, y float64) float64 {
	if x == 0 || y == 0 {
		return 0
	}
	return clamp(x * y)
}

func (a Interval) Mul(other domain.Value) domain.Value {
	b := asInterval(other)
	if a.bottom || b.bottom {
		return Interval{bottom: true}
	}
	corners := [4]float64{
		mulBound(a.lo, b.lo),
		mulBound(a.lo, b.hi),
		mulBound(a.hi, b.lo),
		mulBound(a.hi, b.hi),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	return Interval{lo: lo, hi: hi}
}

// Div reuses multiplication by the divisor's reciprocal when the divisor is
// bounded away from zero; an interval that may contain zero yields ⊤ — the
// analysis makes no divide-by-zero guarantee (spec §4.3, §4.4).
func (a Interval) Div(other domain.Value) domain.Value {
	b := asInterval(other)
	if a.bottom || b.bottom {
		return Interval{bottom: true}
	}
	if b.lo <= 0 && 0 <= b.hi {
		return Domain.Top()
	}
	reciprocal := Interval{lo: clamp(1 / b.hi), hi: clamp(1 / b.lo)}
	return a.Mul(reciprocal)
}

func (a Interval) Join(other domain.Value) domain.Value {
	b := asInterval(other)
	if a.bottom {
		return b
	}
	if b.bottom {
		return a
	}
	// An interval that reaches [negInf, posInf] here is, by construction,
	// already ⊤ — no separate canonicalisation step is needed (spec §9).
	return Interval{lo: math.Min(a.lo, b.lo), hi: math.Max(a.hi, b.hi)}
}

func (a Interval) Includes(other domain.Value) bool {
	b := asInterval(other)
	if b.bottom {
		return true
	}
	if a.bottom {
		return false
	}
	return a.lo <= b.lo && b.hi <= a.hi
}

func (a Interval) Sat(g ast.BExpr) bool {
	if a.bottom {
		return false
	}
	if isTop(a) {
		return true
	}
	n := float64(g.Const)
	switch g.Op {
	case ast.EQ:
		return a.lo <= n && n <= a.hi
	case ast.LE:
		return a.lo <= n
	case ast.LT:
		return a.lo < n
	case ast.GE:
		return n <= a.hi
	case ast.GT:
		return n < a.hi
	case ast.NE:
		return n < a.lo || a.hi < n
	default:
		panic("interval: unsupported guard operator")
	}
}

func (a Interval) Refine(g ast.BExpr) domain.Value {
	if !a.Sat(g) {
		return Interval{bottom: true}
	}
	n := float64(g.Const)
	lo, hi := a.lo, a.hi
	switch g.Op {
	case ast.EQ:
		return Interval{lo: n, hi: n}
	case ast.LE:
		hi = math.Min(hi, n)
	case ast.LT:
		hi = math.Min(hi, n-epsilon)
	case ast.GE:
		lo = math.Max(lo, n)
	case ast.GT:
		lo = math.Max(lo, n+epsilon)
	case ast.NE:
		// Split-avoidance (spec §4.3): Sat has already placed n outside
		// [lo, hi], so this moves the endpoint on n's side to n ∓ ε. Unless
		// that endpoint was already within ε of n, the result is wider
		// than [lo, hi], not narrower.
		if hi < n {
			hi = n - epsilon
		} else {
			lo = n + epsilon
		}
	default:
		panic("interval: unsupported guard operator")
	}
	return Interval{lo: clamp(lo), hi: clamp(hi)}
}

// widenLower and widenUpper implement the per-endpoint rule of spec §4.3: an
// endpoint that loosens jumps straight to the threshold's matching bound
// whenever the threshold supplies one, with no overshoot check — a ⊤
// threshold widens straight to the sentinel infinity, a ⊥ threshold leaves
// the endpoint where it was, and a finite threshold is always adopted.
func widenLower(a0 float64, threshold Interval) float64 {
	if threshold.bottom {
		return a0
	}
	if isTop(threshold) {
		return negInf
	}
	return threshold.lo
}

func widenUpper(b0 float64, threshold Interval) float64 {
	if threshold.bottom {
		return b0
	}
	if isTop(threshold) {
		return posInf
	}
	return threshold.hi
}

// Widen implements spec §4.3: called as next.Widen(prev, threshold).
func (a Interval) Widen(prevVal, thresholdVal domain.Value) domain.Value {
	prev := asInterval(prevVal)
	if prev.bottom || isTop(prev) {
		// "Initial step forces motion" / ⊤ is already the ceiling.
		return Domain.Top()
	}
	next := a
	if next.bottom {
		// Nothing grew; widening an ascending chain never needs to move.
		return prev
	}

	threshold := asInterval(thresholdVal)
	loLoosens := next.lo < prev.lo-epsilon
	hiLoosens := next.hi > prev.hi+epsilon

	if loLoosens && hiLoosens {
		return Domain.Top()
	}

	lo, hi := prev.lo, prev.hi
	if loLoosens {
		lo = widenLower(prev.lo, threshold)
	}
	if hiLoosens {
		hi = widenUpper(prev.hi, threshold)
	}
	return Interval{lo: clamp(lo), hi: clamp(hi)}
}

func (a Interval) Equal(other domain.Value) bool {
	b := asInterval(other)
	if a.bottom != b.bottom {
		return false
	}
	if a.bottom {
		return true
	}
	return nearlyEqual(a.lo, b.lo) && nearlyEqual(a.hi, b.hi)
}
