// Package errors defines the diagnostic types shared by the parser and the
// CLI/LSP front ends: a stable error code, a message, and a source Position
// for reporting. It intentionally carries no dependency on internal/ast
// beyond the Position type, so the parser can report before a full AST node
// exists.
package errors

import (
	"fmt"

	"absint/internal/ast"
)

// Code identifies a diagnostic's kind independent of its message wording, so
// callers (tests, the LSP's diagnostic severity mapping) can switch on it
// without string matching.
type Code string

const (
	CodeUnexpectedToken Code = "E001"
	CodeIterationCap    Code = "W001"
)

// Diagnostic is one reportable problem: a parse failure, or (via the
// W-series codes) a non-fatal analysis warning.
type Diagnostic struct {
	Code     Code
	Message  string
	Position ast.Position
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Position, d.Code, d.Message)
}

// IsWarning is true for diagnostics that do not prevent producing a result
// (currently only the iteration-cap notice).
func (d Diagnostic) IsWarning() bool {
	return len(d.Code) > 0 && d.Code[0] == 'W'
}

// New constructs a Diagnostic at pos with the given code and formatted message.
func New(pos ast.Position, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Position: pos}
}

// List collects diagnostics produced over the course of analyzing a single
// file, so a caller (currently the LSP handler) can report more than one
// finding from a single run.
type List struct {
	items []Diagnostic
}

func (l *List) Add(d Diagnostic) { l.items = append(l.items, d) }

func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if !d.IsWarning() {
			return true
		}
	}
	return false
}

func (l *List) Items() []Diagnostic { return l.items }

func (l *List) Error() string {
	if len(l.items) == 0 {
		return ""
	}
	s := l.items[0].Error()
	for _, d := range l.items[1:] {
		s += "\n" + d.Error()
	}
	return s
}
