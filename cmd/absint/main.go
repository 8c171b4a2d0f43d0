// Command absint runs the analyzer's three operating modes against a single
// IMP-language source file: parse (print the AST), interprete (run the
// fixpoint engine with no loop acceleration), and analyze (the full engine,
// with unrolling/widening flags).
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"absint/internal/ast"
	"absint/internal/domain"
	"absint/internal/domain/interval"
	"absint/internal/domain/sign"
	"absint/internal/engine"
	"absint/internal/errors"
	"absint/internal/parser"
	"absint/repl"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	mode := os.Args[1]

	if mode == "repl" {
		fs := flag.NewFlagSet(mode, flag.ExitOnError)
		domainName := fs.String("domain", "sign", "abstract domain: sign|interval")
		_ = fs.Parse(os.Args[2:])
		repl.Start(os.Stdin, os.Stdout, resolveDomain(*domainName))
		return
	}

	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}
	path := os.Args[2]
	fs := flag.NewFlagSet(mode, flag.ExitOnError)
	domainName := fs.String("domain", "sign", "abstract domain: sign|interval")
	unroll := fs.Int("unroll", 0, "number of loop-unrolling passes before fixpoint iteration")
	useWiden := fs.Bool("widen", false, "enable widening during fixpoint iteration")
	widenDelay := fs.Int("widen-delay", 0, "plain joins before widening kicks in")
	threshold := fs.String("threshold", "", "widening threshold interval literal, e.g. \"[-10, 10]\" (interval domain only)")
	_ = fs.Parse(os.Args[3:])

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %v", path, err)
		os.Exit(1)
	}

	prog, err := parser.ParseSource(path, string(source))
	if err != nil {
		reportParseError(string(source), err)
		os.Exit(1)
	}

	switch mode {
	case "parse":
		fmt.Println(prog.String())
		color.Green("parsed %s", path)

	case "interprete":
		dom := resolveDomain(*domainName)
		m := engine.NewMemory(dom)
		engine.New(dom, engine.DefaultParams(dom)).Analyze(prog, m)
		fmt.Println(m.String())

	case "analyze":
		dom := resolveDomain(*domainName)
		params := engine.DefaultParams(dom)
		params.LoopUnrollings = *unroll
		params.UseWidening = *useWiden
		params.WideningDelays = *widenDelay
		if *threshold != "" {
			t, err := parseThreshold(dom, *threshold)
			if err != nil {
				color.Red("invalid --threshold: %v", err)
				os.Exit(1)
			}
			params.WideningThreshold = t
		}
		m := engine.NewMemory(dom)
		engine.New(dom, params).Analyze(prog, m)
		fmt.Println(m.String())

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: absint <parse|interprete|analyze> <file> [--domain=sign|interval] [--unroll=N] [--widen] [--widen-delay=N] [--threshold=\"[lo, hi]\"]")
	fmt.Println("       absint repl [--domain=sign|interval]")
}

func resolveDomain(name string) domain.Domain {
	switch name {
	case "sign":
		return sign.Domain
	case "interval":
		return interval.Domain
	default:
		color.Red("unknown domain %q (expected sign|interval)", name)
		os.Exit(1)
		return nil
	}
}

// parseThreshold accepts a literal of the form "[lo, hi]" for the interval
// domain; the sign domain has no tunable threshold, so any value is rejected.
func parseThreshold(dom domain.Domain, literal string) (domain.Value, error) {
	if dom.Name() != "interval" {
		return nil, fmt.Errorf("--threshold only applies to the interval domain")
	}
	trimmed := strings.TrimSpace(literal)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	parts := strings.SplitN(trimmed, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected \"[lo, hi]\", got %q", literal)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lower bound: %w", err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid upper bound: %w", err)
	}
	return interval.NewBounded(lo, hi)
}

// reportParseError prints a caret-framed syntax error, in the same style the
// CLI has always used for parse failures.
func reportParseError(src string, err error) {
	var pos ast.Position
	var msg string
	switch e := err.(type) {
	case participle.Error:
		p := e.Position()
		pos = ast.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
		msg = e.Message()
	case errors.Diagnostic:
		pos, msg = e.Position, e.Message
	default:
		color.Red("unexpected error: %s", err)
		return
	}

	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) || pos.Column <= 0 {
		color.Red("syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", msg)
}
