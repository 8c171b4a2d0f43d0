// Package sign implements the five-element Sign abstract domain
// ({⊥, Neg, Zero, Pos, ⊤}) described in spec §4.2.
package sign

import (
	"fmt"

	"absint/internal/ast"
	"absint/internal/domain"
)

// Sign is one element of the sign lattice. The zero value is Bottom.
type Sign int

const (
	Bottom Sign = iota
	Neg
	Zero
	Pos
	Top
)

func (s Sign) String() string {
	switch s {
	case Bottom:
		return "⊥"
	case Neg:
		return "Neg"
	case Zero:
		return "Zero"
	case Pos:
		return "Pos"
	case Top:
		return "⊤"
	default:
		return fmt.Sprintf("Sign(%d)", int(s))
	}
}

func asSign(v domain.Value) Sign {
	s, ok := v.(Sign)
	if !ok {
		panic(fmt.Sprintf("sign: value of unexpected type %T", v))
	}
	return s
}

// domainImpl is the domain.Domain for Sign.
type domainImpl struct{}

// Domain is the sign domain's factory, selected by the CLI/engine via its name.
var Domain domain.Domain = domainImpl{}

func (domainImpl) Name() string { return "sign" }

func (domainImpl) FromReal(n float64) domain.Value {
	switch {
	case n == 0:
		return Zero
	case n > 0:
		return Pos
	default:
		return Neg
	}
}

func (domainImpl) Bottom() domain.Value { return Bottom }
func (domainImpl) Top() domain.Value    { return Top }

// Add implements the sign addition table (spec §4.2): same-sign addition is
// absorbing, Zero is the identity, and Pos/Neg mixed addition loses
// precision to Top.
func (a Sign) Add(other domain.Value) domain.Value {
	b := asSign(other)
	if a == Bottom || b == Bottom {
		return Bottom
	}
	if a == Zero {
		return b
	}
	if b == Zero {
		return a
	}
	if a == Top || b == Top {
		return Top
	}
	if a == b {
		return a
	}
	return Top
}

// Sub is defined as a + (-b); this is sound and simpler than tabulating
// subtraction directly (see DESIGN.md for why this departs from the
// original Rust reference, which has an unsound Zero-minus-x case).
func (a Sign) Sub(other domain.Value) domain.Value {
	b := asSign(other)
	return a.Add(b.Neg())
}

// Mul implements the sign multiplication table: Zero absorbs every non-⊥
// operand (even ⊤), same-sign multiplication yields Pos, mixed yields Neg.
func (a Sign) Mul(other domain.Value) domain.Value {
	b := asSign(other)
	if a == Bottom || b == Bottom {
		return Bottom
	}
	if a == Zero || b == Zero {
		return Zero
	}
	if a == Top || b == Top {
		return Top
	}
	if a == b {
		return Pos
	}
	return Neg
}

// Div reuses Mul (spec §4.2: "division reuses multiplication"); the
// analysis makes no divide-by-zero guarantee.
func (a Sign) Div(other domain.Value) domain.Value {
	return a.Mul(other)
}

func (a Sign) Neg() domain.Value {
	switch a {
	case Neg:
		return Pos
	case Pos:
		return Neg
	default: // Bottom, Zero, Top are their own negation
		return a
	}
}

// Join returns the least upper bound on the Hasse diagram ⊥ < {Neg,Zero,Pos} < ⊤.
func (a Sign) Join(other domain.Value) domain.Value {
	b := asSign(other)
	if a == Bottom {
		return b
	}
	if b == Bottom {
		return a
	}
	if a == b {
		return a
	}
	return Top
}

// Includes is true iff other ⊑ a.
func (a Sign) Includes(other domain.Value) bool {
	b := asSign(other)
	if b == Bottom {
		return true
	}
	if a == Top {
		return true
	}
	if a == Bottom {
		return b == Bottom
	}
	return a == b
}

// satMid decides feasibility of a guard against a single mid-level sign
// (Neg, Zero, or Pos), by cases on the guard operator (spec §4.2).
func satMid(a Sign, op ast.GuardOp, n float64) bool {
	switch op {
	case ast.EQ:
		switch a {
		case Neg:
			return n < 0
		case Zero:
			return n == 0
		default: // Pos
			return n > 0
		}
	case ast.NE:
		if a == Zero {
			return n != 0
		}
		return true
	case ast.LE:
		switch a {
		case Neg:
			return true
		case Zero:
			return n >= 0
		default: // Pos
			return n > 0
		}
	case ast.LT:
		switch a {
		case Neg:
			return true
		case Zero:
			return n > 0
		default: // Pos
			return n > 0
		}
	case ast.GE:
		switch a {
		case Neg:
			return n < 0
		case Zero:
			return n <= 0
		default: // Pos
			return true
		}
	case ast.GT:
		switch a {
		case Neg:
			return n < 0
		case Zero:
			return n < 0
		default: // Pos
			return true
		}
	default:
		panic("sign: unsupported guard operator")
	}
}

func (a Sign) Sat(b ast.BExpr) bool {
	if a == Bottom {
		return false
	}
	if a == Top {
		return true
	}
	return satMid(a, b.Op, float64(b.Const))
}

// Refine tightens a given a known-true guard (spec §4.2). For a value other
// than ⊤ there is no tighter sign abstraction to compute: refine either
// keeps the value (if feasible) or collapses to ⊥.
func (a Sign) Refine(b ast.BExpr) domain.Value {
	if !a.Sat(b) {
		return Bottom
	}
	if a != Top {
		return a
	}
	n := float64(b.Const)
	switch b.Op {
	case ast.EQ:
		return Domain.FromReal(n)
	case ast.LE:
		// x <= n pins x negative only when n itself is strictly negative;
		// n == 0 still admits x == 0.
		if n < 0 {
			return Neg
		}
		return Top
	case ast.LT:
		// x < n pins x negative as soon as n <= 0.
		if n <= 0 {
			return Neg
		}
		return Top
	case ast.GE:
		// x >= n pins x positive only when n is strictly positive; n == 0
		// still admits x == 0.
		if n > 0 {
			return Pos
		}
		return Top
	case ast.GT:
		// x > n pins x positive as soon as n >= 0.
		if n >= 0 {
			return Pos
		}
		return Top
	case ast.NE:
		// No sign value is tighter than ⊤ for "not equal to a single
		// value"; this case returns ⊥ instead (spec §9, Open Question fixed
		// as ⊥). Unlike the other cases, ⊥ does not over-approximate
		// ⊤ ∩ ⟦x != n⟧: a ⊤ variable filtered by x != n ends up bound to ⊥.
		return Bottom
	default:
		panic("sign: unsupported guard operator")
	}
}

// Widen equals Join: the sign lattice has height 3 and converges without
// acceleration (spec §4.2).
func (a Sign) Widen(prev, _ domain.Value) domain.Value {
	return asSign(prev).Join(a)
}

func (a Sign) Equal(other domain.Value) bool {
	return a == asSign(other)
}
