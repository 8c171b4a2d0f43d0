// Package parser turns IMP-language source text into an internal/ast tree,
// using participle/v2 against the grammar in the grammar package and then
// folding the parsed concrete syntax into the engine's abstract syntax.
package parser

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"absint/grammar"
	"absint/internal/ast"
	"absint/internal/errors"
)

var participleParser = buildParser()

func buildParser() *participle.Parser[grammar.Program] {
	p, err := participle.Build[grammar.Program](
		participle.Lexer(grammar.Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(4),
	)
	if err != nil {
		panic(fmt.Errorf("parser: grammar failed to build: %w", err))
	}
	return p
}

// ParseFile reads and parses path, returning the program's root command.
func ParseFile(path string) (ast.Command, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	return ParseSource(path, string(source))
}

// ParseSource parses source text attributed to sourceName (used for error
// positions and, by convention, the file path when one exists).
func ParseSource(sourceName, source string) (ast.Command, error) {
	prog, err := participleParser.ParseString(sourceName, source)
	if err != nil {
		return nil, translateParseError(sourceName, err)
	}
	return buildCommand(prog.Cmd), nil
}

// translateParseError wraps participle's error in the project's own
// diagnostic type, defaulting to position 1:1 when participle reports none.
func translateParseError(sourceName string, err error) error {
	pos := ast.Position{Filename: sourceName, Line: 1, Column: 1}
	if pe, ok := err.(participle.Error); ok {
		pos = fromLexerPosition(pe.Position())
	}
	return errors.New(pos, errors.CodeUnexpectedToken, "%s", err.Error())
}

func fromLexerPosition(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func posOf(p lexer.Position) ast.Position { return fromLexerPosition(p) }

func buildCommand(c *grammar.Command) ast.Command {
	var head ast.Command
	switch {
	case c.Skip != nil:
		head = &ast.SkipCommand{Position: posOf(c.Skip.Pos)}
	case c.Input != nil:
		head = &ast.InputCommand{Position: posOf(c.Input.Pos), Var: ast.Var(c.Input.Var)}
	case c.If != nil:
		head = &ast.IfCommand{
			Position: posOf(c.If.Pos),
			Cond:     buildGuard(c.If.Cond),
			Then:     buildCommand(c.If.Then),
			Else:     buildCommand(c.If.Else),
		}
	case c.While != nil:
		head = &ast.WhileCommand{
			Position: posOf(c.While.Pos),
			Cond:     buildGuard(c.While.Cond),
			Body:     buildCommand(c.While.Body),
		}
	case c.Assign != nil:
		head = &ast.AssignCommand{
			Position: posOf(c.Assign.Pos),
			Var:      ast.Var(c.Assign.Var),
			Expr:     buildExpr(c.Assign.Expr),
		}
	default:
		panic("parser: command with no alternative set")
	}

	if c.Next == nil {
		return head
	}
	return &ast.SeqCommand{Position: posOf(c.Pos), C1: head, C2: buildCommand(c.Next)}
}

var guardOps = map[string]ast.GuardOp{
	"==": ast.EQ, "!=": ast.NE,
	"<": ast.LT, "<=": ast.LE,
	">": ast.GT, ">=": ast.GE,
}

func buildGuard(g *grammar.Guard) ast.BExpr {
	return ast.BExpr{
		Position: posOf(g.Pos),
		Var:      ast.Var(g.Var),
		Op:       guardOps[g.Op],
		Const:    parseConst(g.Const),
	}
}

func parseConst(n *grammar.Number) ast.Const {
	v, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		// The lexer's Number rule only accepts digits and a single dot, so
		// this can only fail on an internal inconsistency between the
		// lexer's regex and strconv's grammar.
		panic(fmt.Sprintf("parser: malformed numeric literal %q: %v", n.Value, err))
	}
	return ast.Const(v)
}

func buildExpr(e *grammar.Expr) ast.SExpr {
	result := buildTerm(e.Head)
	for _, rest := range e.Rest {
		rhs := buildTerm(rest.Rhs)
		if rest.Op == "+" {
			result = &ast.AddExpr{Position: posOf(rest.Pos), L: result, R: rhs}
		} else {
			result = &ast.SubExpr{Position: posOf(rest.Pos), L: result, R: rhs}
		}
	}
	return result
}

func buildTerm(t *grammar.Term) ast.SExpr {
	result := buildFactor(t.Head)
	for _, rest := range t.Rest {
		rhs := buildFactor(rest.Rhs)
		if rest.Op == "*" {
			result = &ast.MulExpr{Position: posOf(rest.Pos), L: result, R: rhs}
		} else {
			result = &ast.DivExpr{Position: posOf(rest.Pos), L: result, R: rhs}
		}
	}
	return result
}

func buildFactor(f *grammar.Factor) ast.SExpr {
	switch {
	case f.Neg != nil:
		return &ast.NegExpr{Position: posOf(f.Pos), X: buildFactor(f.Neg)}
	case f.Paren != nil:
		return buildExpr(f.Paren)
	case f.Number != nil:
		return &ast.ConstExpr{Position: posOf(f.Number.Pos), Value: parseConst(f.Number)}
	case f.Var != nil:
		return &ast.VarExpr{Position: posOf(f.Pos), Name: ast.Var(*f.Var)}
	default:
		panic("parser: factor with no alternative set")
	}
}
