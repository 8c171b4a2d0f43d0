// Package ast defines the immutable program tree consumed by the engine.
//
// The tree is produced by internal/parser (an external collaborator with
// respect to the analysis core: see the package doc there) and is never
// mutated once built. Every node carries its source Position so that
// diagnostics — parser errors, and later LSP diagnostics derived from an
// analysis run — can point back at concrete source locations.
package ast

import (
	"fmt"
	"strconv"
)

// Position locates a node in its source file.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Var is a program identifier. The grammar restricts it to a non-empty
// alphanumeric/underscore name starting with a letter or underscore.
type Var string

// Const is a real-number literal. The numeric model treats machine-precision
// floats as exact reals (spec Non-goals: no rounding soundness is claimed).
type Const float64

// Node is implemented by every AST type so callers can locate any node in
// its source file.
type Node interface {
	Pos() Position
}

// SExpr is an arithmetic expression: Const | Var | Neg | Add | Sub | Mul | Div.
type SExpr interface {
	Node
	isSExpr()
	String() string
}

type ConstExpr struct {
	Position
	Value Const
}

type VarExpr struct {
	Position
	Name Var
}

type NegExpr struct {
	Position
	X SExpr
}

type AddExpr struct {
	Position
	L, R SExpr
}

type SubExpr struct {
	Position
	L, R SExpr
}

type MulExpr struct {
	Position
	L, R SExpr
}

type DivExpr struct {
	Position
	L, R SExpr
}

func (p Position) Pos() Position { return p }

func (*ConstExpr) isSExpr() {}
func (*VarExpr) isSExpr()   {}
func (*NegExpr) isSExpr()   {}
func (*AddExpr) isSExpr()   {}
func (*SubExpr) isSExpr()   {}
func (*MulExpr) isSExpr()   {}
func (*DivExpr) isSExpr()   {}

func (e *ConstExpr) String() string {
	return strconv.FormatFloat(float64(e.Value), 'g', -1, 64)
}
func (e *VarExpr) String() string { return string(e.Name) }
func (e *NegExpr) String() string { return "-" + parenIfBinary(e.X) }
func (e *AddExpr) String() string { return e.L.String() + " + " + e.R.String() }
func (e *SubExpr) String() string { return e.L.String() + " - " + parenIfBinary(e.R) }
func (e *MulExpr) String() string { return parenIfBinary(e.L) + " * " + parenIfBinary(e.R) }
func (e *DivExpr) String() string { return parenIfBinary(e.L) + " / " + parenIfBinary(e.R) }

func parenIfBinary(e SExpr) string {
	switch e.(type) {
	case *AddExpr, *SubExpr:
		return "(" + e.String() + ")"
	default:
		return e.String()
	}
}

// GuardOp is the comparison operator of a guard.
type GuardOp int

const (
	EQ GuardOp = iota
	NE
	LT
	LE
	GT
	GE
)

func (op GuardOp) String() string {
	switch op {
	case EQ:
		return "=="
	case NE:
		return "!="
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	default:
		return "?"
	}
}

// negated maps each operator to the comparator of its logical negation.
var negated = map[GuardOp]GuardOp{
	EQ: NE, NE: EQ,
	LT: GE, GE: LT,
	LE: GT, GT: LE,
}

// BExpr is a guard: a comparison of a variable against a constant. The
// grammar restricts guards to this `var op const` shape; refine/sat exploit
// it directly (spec §3).
type BExpr struct {
	Position
	Var   Var
	Op    GuardOp
	Const Const
}

func (b BExpr) String() string {
	return fmt.Sprintf("%s %s %s", b.Var, b.Op, (&ConstExpr{Value: b.Const}).String())
}

// Negate returns the guard for ¬b, preserving the variable and swapping the
// comparator (spec §4.4, §9: "¬(x == n) is x != n").
func (b BExpr) Negate() BExpr {
	return BExpr{Position: b.Position, Var: b.Var, Op: negated[b.Op], Const: b.Const}
}

// Command is a program statement: Skip | Seq | Assign | Input | If | While.
type Command interface {
	Node
	isCommand()
	String() string
}

type SkipCommand struct {
	Position
}

type SeqCommand struct {
	Position
	C1, C2 Command
}

type AssignCommand struct {
	Position
	Var  Var
	Expr SExpr
}

type InputCommand struct {
	Position
	Var Var
}

type IfCommand struct {
	Position
	Cond BExpr
	Then Command
	Else Command
}

type WhileCommand struct {
	Position
	Cond BExpr
	Body Command
}

func (*SkipCommand) isCommand()   {}
func (*SeqCommand) isCommand()    {}
func (*AssignCommand) isCommand() {}
func (*InputCommand) isCommand()  {}
func (*IfCommand) isCommand()     {}
func (*WhileCommand) isCommand()  {}

func (c *SkipCommand) String() string { return "skip" }
func (c *SeqCommand) String() string  { return c.C1.String() + " ; " + c.C2.String() }
func (c *AssignCommand) String() string {
	return fmt.Sprintf("%s := %s", c.Var, c.Expr.String())
}
func (c *InputCommand) String() string { return fmt.Sprintf("input(%s)", c.Var) }
func (c *IfCommand) String() string {
	return fmt.Sprintf("if (%s) { %s } else { %s }", c.Cond.String(), c.Then.String(), c.Else.String())
}
func (c *WhileCommand) String() string {
	return fmt.Sprintf("while (%s) { %s }", c.Cond.String(), c.Body.String())
}
