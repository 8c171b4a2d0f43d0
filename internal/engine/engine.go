// Package engine implements the abstract interpreter's fixpoint core: the
// transfer functions of spec §4.4, dispatched over whichever domain.Domain
// the caller selects. It never knows about Sign or Interval concretely —
// only the domain.Value/domain.Domain contract.
package engine

import (
	"github.com/golang/glog"

	"absint/internal/ast"
	"absint/internal/domain"
)

// IterationCap bounds the Kleene phase of a while loop: reaching it without
// finding a post-fixpoint is not fatal, but it means the analysis returns an
// over-approximation that has not been proven stable (spec §4.4).
const IterationCap = 53

// Engine runs the transfer functions for one chosen domain and parameter set.
type Engine struct {
	Domain domain.Domain
	Params Params

	capped []ast.Position
}

// New builds an Engine for the given domain and loop-handling parameters.
func New(dom domain.Domain, params Params) *Engine {
	return &Engine{Domain: dom, Params: params}
}

// CappedLoops returns the source positions of every while loop, across the
// most recent Analyze call, whose Kleene iteration hit IterationCap without
// finding a post-fixpoint (spec §7's non-fatal warning condition).
func (e *Engine) CappedLoops() []ast.Position {
	return e.capped
}

// Analyze runs the command against m in place and returns it, for chaining.
func (e *Engine) Analyze(c ast.Command, m *Memory) *Memory {
	e.capped = nil
	e.analyzeCommand(c, m)
	return m
}

func (e *Engine) analyzeCommand(c ast.Command, m *Memory) {
	switch n := c.(type) {
	case *ast.SkipCommand:
		// no-op

	case *ast.SeqCommand:
		e.analyzeCommand(n.C1, m)
		e.analyzeCommand(n.C2, m)

	case *ast.AssignCommand:
		e.analyzeAssign(n, m)

	case *ast.InputCommand:
		m.Set(n.Var, e.Domain.Top())

	case *ast.IfCommand:
		e.analyzeIf(n, m)

	case *ast.WhileCommand:
		e.analyzeWhile(n, m)

	default:
		panic("engine: unknown command type")
	}
}

// analyzeAssign implements spec §4.4's Assign rule: if x is currently bound
// to ⊥, the assignment is suppressed (x stays ⊥, and the right-hand side is
// not even evaluated) rather than overwritten with a possibly-⊤ result.
func (e *Engine) analyzeAssign(n *ast.AssignCommand, m *Memory) {
	if m.Get(n.Var).Equal(e.Domain.Bottom()) {
		return
	}
	m.Set(n.Var, e.eval(n.Expr, m))
}

func (e *Engine) analyzeIf(n *ast.IfCommand, m *Memory) {
	thenMem := m.Clone()
	e.filter(n.Cond, thenMem)
	e.analyzeCommand(n.Then, thenMem)

	elseMem := m.Clone()
	e.filter(n.Cond.Negate(), elseMem)
	e.analyzeCommand(n.Else, elseMem)

	joined := thenMem.Join(elseMem)
	m.vals = joined.vals
}

// analyzeWhile implements spec §4.4's While rule in its two phases: a fixed
// number of unconditional unrollings, then Kleene iteration (joining or
// widening the loop body's output back into the running memory) until a
// post-fixpoint is reached or IterationCap is hit, followed by filtering the
// negated guard to account for loop exit.
func (e *Engine) analyzeWhile(n *ast.WhileCommand, m *Memory) {
	for i := 0; i < e.Params.LoopUnrollings; i++ {
		e.analyzeCommand(n.Body, m)
	}

	plainJoins := 0
	for iter := 0; iter < IterationCap; iter++ {
		prev := m.Clone()
		next := m.Clone()
		e.filter(n.Cond, next)
		e.analyzeCommand(n.Body, next)

		var merged *Memory
		if e.Params.UseWidening && plainJoins >= e.Params.WideningDelays {
			merged = WidenMemories(prev, next, e.Params.WideningThreshold)
		} else {
			merged = prev.Join(next)
			plainJoins++
		}
		m.vals = merged.vals

		if prev.Includes(m) {
			break
		}
		if iter == IterationCap-1 {
			glog.Warningf("while loop at %s: iteration cap (%d) reached before a post-fixpoint was found", n.Pos(), IterationCap)
			e.capped = append(e.capped, n.Pos())
		}
	}

	e.filter(n.Cond.Negate(), m)
}

// eval implements E⟦·⟧ (spec §4.4): structural recursion over the
// expression tree, dispatching arithmetic to the domain.Value contract.
func (e *Engine) eval(expr ast.SExpr, m *Memory) domain.Value {
	switch n := expr.(type) {
	case *ast.ConstExpr:
		return e.Domain.FromReal(float64(n.Value))
	case *ast.VarExpr:
		return m.Get(n.Name)
	case *ast.NegExpr:
		return e.eval(n.X, m).Neg()
	case *ast.AddExpr:
		return e.eval(n.L, m).Add(e.eval(n.R, m))
	case *ast.SubExpr:
		return e.eval(n.L, m).Sub(e.eval(n.R, m))
	case *ast.MulExpr:
		return e.eval(n.L, m).Mul(e.eval(n.R, m))
	case *ast.DivExpr:
		return e.eval(n.L, m).Div(e.eval(n.R, m))
	default:
		panic("engine: unknown expression type")
	}
}

// filter implements F⟦·⟧ (spec §4.4): when the guard's variable is
// satisfiable, its binding is refined in place; otherwise the whole memory
// is marked infeasible (every binding collapses to ⊥), so execution past an
// infeasible branch contributes nothing when later joined back in.
func (e *Engine) filter(b ast.BExpr, m *Memory) {
	cur := m.Get(b.Var)
	if cur.Sat(b) {
		m.Set(b.Var, cur.Refine(b))
		return
	}
	m.MakeInfeasible()
}
