// Package domain defines the capability contract every concrete abstract
// domain (sign, interval, ...) must satisfy. The fixpoint engine
// (internal/engine) is generic over this interface and never inspects a
// concrete domain's internals (spec §9: "polymorphism over the abstract
// domain realised as an interface/trait").
package domain

import "absint/internal/ast"

// Value is one element of an abstract domain's lattice. Implementations
// must be immutable value types: every method returns a new Value rather
// than mutating the receiver.
//
// Contracts (spec §4.1):
//   - all operations are total;
//   - Bottom is absorbing for arithmetic;
//   - Top is absorbing for non-Bottom operands absent more precise reasoning;
//   - every operation preserves soundness: concrete results of f are always
//     contained in the concretisation of the abstract counterpart f♯.
type Value interface {
	// Add, Sub, Mul, Div implement the four abstract arithmetic operators.
	Add(Value) Value
	Sub(Value) Value
	Mul(Value) Value
	Div(Value) Value
	// Neg implements abstract unary negation.
	Neg() Value

	// Join returns the least upper bound of the receiver and the argument.
	Join(Value) Value
	// Includes is true iff other ⊑ receiver (i.e. γ(other) ⊆ γ(receiver)).
	Includes(other Value) bool

	// Sat is true iff the receiver's concretisation intersects the guard's.
	// False when the receiver is Bottom; true when it is Top.
	Sat(ast.BExpr) bool
	// Refine returns the best abstraction of γ(receiver) ∩ ⟦guard⟧. Returns
	// Bottom whenever Sat(guard) is false. The sign and interval domains'
	// NE refinements are exceptions; see their Refine methods.
	Refine(ast.BExpr) Value
	// Widen accelerates convergence given the previous and next iterates of
	// an ascending chain, using threshold as a per-analysis upper bound hint.
	Widen(prev, threshold Value) Value

	// Equal reports structural/concretisation equality (domains that use a
	// numeric epsilon, e.g. Interval, bake that tolerance in here).
	Equal(Value) bool
	// String renders the value for CLI/REPL/LSP output.
	String() string
}

// Domain is a named factory for a concrete lattice: it knows how to inject
// concrete reals and produce its Bottom/Top elements. The engine takes one
// Domain per analysis run; everything else flows through Value.
type Domain interface {
	// Name identifies the domain for CLI/LSP selection ("sign", "interval").
	Name() string
	// FromReal produces the most precise Value containing n.
	FromReal(n float64) Value
	// Bottom and Top are the lattice's least and greatest elements.
	Bottom() Value
	Top() Value
}
