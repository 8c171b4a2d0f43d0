// Package repl implements an interactive line-at-a-time session: each line
// is parsed as one command and folded into a running memory, so a variable
// assigned on one line is visible when referenced on the next.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"absint/internal/domain"
	"absint/internal/engine"
	"absint/internal/parser"
)

const prompt = ">> "

// Start runs the REPL loop against dom until in is exhausted.
func Start(in io.Reader, out io.Writer, dom domain.Domain) {
	scanner := bufio.NewScanner(in)
	eng := engine.New(dom, engine.DefaultParams(dom))
	mem := engine.NewMemory(dom)

	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		cmd, err := parser.ParseSource("<repl>", line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		eng.Analyze(cmd, mem)
		fmt.Fprintln(out, mem.String())
	}
}
