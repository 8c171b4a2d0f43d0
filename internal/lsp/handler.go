// Package lsp exposes the analyzer over the Language Server Protocol:
// parse errors and bottom-binding warnings are republished as diagnostics
// every time a document opens or changes.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"absint/internal/domain"
	"absint/internal/domain/sign"
	"absint/internal/engine"
	"absint/internal/errors"
	"absint/internal/parser"
)

// Handler implements the glsp protocol.Handler callbacks this server
// supports. It keeps one abstract domain for the lifetime of the session;
// a real deployment might expose this as a client-configurable setting.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	domain  domain.Domain
}

// NewHandler creates a Handler running analysis over the sign domain, the
// cheapest of the two to re-run on every keystroke.
func NewHandler() *Handler {
	return NewHandlerWithDomain(sign.Domain)
}

// NewHandlerWithDomain creates a Handler analyzing over an explicitly chosen
// domain, for callers (tests, a future client-configurable setting) that
// need something other than the default.
func NewHandlerWithDomain(dom domain.Domain) *Handler {
	return &Handler{
		content: make(map[string]string),
		domain:  dom,
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.refresh(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// TextDocumentSyncKindFull means every change event carries the whole
	// document as a single TextDocumentContentChangeEventWhole.
	change, ok := params.ContentChanges[0].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	return h.refresh(ctx, params.TextDocument.URI, change.Text)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

func (h *Handler) refresh(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("lsp: invalid URI %s: %w", uri, err)
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	diagnostics := h.diagnose(path, text)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

// diagnose runs the parser and, on success, the engine, reporting syntax
// errors as errors, a capped loop as a warning, and ⊥-bound variables as
// warnings: a variable whose final abstract value is ⊥ is one the analysis
// proved unreachable, which almost always indicates a logic error in the
// source.
func (h *Handler) diagnose(path, text string) []protocol.Diagnostic {
	cmd, err := parser.ParseSource(path, text)
	if err != nil {
		return convertParseError(err)
	}

	mem := engine.NewMemory(h.domain)
	eng := engine.New(h.domain, engine.DefaultParams(h.domain))
	eng.Analyze(cmd, mem)

	var warnings errors.List
	for _, pos := range eng.CappedLoops() {
		warnings.Add(errors.New(pos, errors.CodeIterationCap,
			"loop iteration cap (%d) reached before a post-fixpoint was found", engine.IterationCap))
	}

	var diagnostics []protocol.Diagnostic
	for _, d := range warnings.Items() {
		diagnostics = append(diagnostics, diagnosticFromError(d))
	}

	for name, val := range mem.Bindings() {
		if val.Equal(h.domain.Bottom()) {
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    protocol.Range{Start: protocol.Position{Line: 0, Character: 0}, End: protocol.Position{Line: 0, Character: 1}},
				Severity: ptrSeverity(protocol.DiagnosticSeverityWarning),
				Source:   ptrString("absint"),
				Message:  fmt.Sprintf("%s is unreachable (abstract value is ⊥)", name),
			})
		}
	}
	return diagnostics
}

// diagnosticFromError renders an errors.Diagnostic (currently only the
// iteration-cap warning) as a single-line LSP diagnostic, severity keyed off
// its code's W/E prefix.
func diagnosticFromError(d errors.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.IsWarning() {
		severity = protocol.DiagnosticSeverityWarning
	}
	line, col := uint32(0), uint32(0)
	if d.Position.Line > 0 {
		line = uint32(d.Position.Line - 1)
	}
	if d.Position.Column > 0 {
		col = uint32(d.Position.Column - 1)
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: ptrSeverity(severity),
		Source:   ptrString("absint"),
		Message:  fmt.Sprintf("%s: %s", d.Code, d.Message),
	}
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
