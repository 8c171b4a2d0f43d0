package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Program is the grammar's start symbol: a single top-level command (spec
// §2: "a program is one command; sequencing is itself a command").
type Program struct {
	Pos lexer.Position
	Cmd *Command `@@`
}

// Command covers every statement form. Alternatives are tried in order, so
// more specific prefixes (keywords) are listed before the catch-all
// assignment form.
type Command struct {
	Pos lexer.Position

	Skip   *SkipCommand   `(  @@`
	Input  *InputCommand  ` | @@`
	If     *IfCommand     ` | @@`
	While  *WhileCommand  ` | @@`
	Assign *AssignCommand ` | @@ )`

	// Next, when present, sequences this command with what follows a ';'.
	Next *Command `( ";" @@ )?`
}

type SkipCommand struct {
	Pos lexer.Position
	Kw  string `@"skip"`
}

type InputCommand struct {
	Pos lexer.Position
	Var string `"input" "(" @Ident ")"`
}

type AssignCommand struct {
	Pos  lexer.Position
	Var  string `@Ident`
	Expr *Expr  `":=" @@`
}

type IfCommand struct {
	Pos  lexer.Position
	Cond *Guard   `"if" "(" @@ ")"`
	Then *Command `"{" @@ "}"`
	Else *Command `"else" "{" @@ "}"`
}

type WhileCommand struct {
	Pos  lexer.Position
	Cond *Guard   `"while" "(" @@ ")"`
	Body *Command `"{" @@ "}"`
}

// Guard is a single comparison of a variable against a numeric constant
// (spec §2: guards have no boolean connectives).
type Guard struct {
	Pos   lexer.Position
	Var   string `@Ident`
	Op    string `@("==" | "!=" | "<=" | ">=" | "<" | ">")`
	Const *Number `@@`
}

// Expr is an arithmetic expression with the usual +/- and */÷ precedence
// levels, written participle-style as left-to-right accumulation over a
// leading term/factor (participle grammars cannot left-recurse).
type Expr struct {
	Pos   lexer.Position
	Head  *Term        `@@`
	Rest  []*AddOrSub  `@@*`
}

type AddOrSub struct {
	Pos lexer.Position
	Op  string `@("+" | "-")`
	Rhs *Term  `@@`
}

type Term struct {
	Pos  lexer.Position
	Head *Factor     `@@`
	Rest []*MulOrDiv `@@*`
}

type MulOrDiv struct {
	Pos lexer.Position
	Op  string  `@("*" | "/")`
	Rhs *Factor `@@`
}

// Factor is the tightest-binding production: a parenthesised expression, a
// unary negation, a bare number, or a bare variable reference.
type Factor struct {
	Pos    lexer.Position
	Neg    *Factor `(  "-" @@`
	Paren  *Expr   ` | "(" @@ ")"`
	Number *Number ` | @@`
	Var    *string ` | @Ident )`
}

type Number struct {
	Pos   lexer.Position
	Value string `@Number`
}
