// Command absint-lsp runs the analyzer as a Language Server Protocol
// server over stdio, publishing parse and reachability diagnostics as a
// document is opened and edited.
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"absint/internal/lsp"
)

const serverName = "absint"

var version = "0.0.1"

func main() {
	commonlog.Configure(1, nil)

	h := lsp.NewHandler()
	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, serverName, false)

	log.Printf("starting %s LSP server %s\n", serverName, version)
	if err := s.RunStdio(); err != nil {
		log.Println("LSP server exited:", err)
		os.Exit(1)
	}
}
