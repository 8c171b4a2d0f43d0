// Package grammar defines the lexical and syntactic grammar of the IMP-style
// input language, expressed as participle/v2 struct tags (spec §2).
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenises source into the handful of kinds the grammar needs.
// Keywords have no rule of their own: they lex as Ident and the grammar
// matches them by value. Inside Operator, multi-character operators are
// tried before their single-character prefixes.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Number", `[0-9]+(\.[0-9]+)?`, nil},
		{"Operator", `(:=|==|!=|<=|>=|[-+*/<>])`, nil},
		{"Punctuation", `[(){};]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
