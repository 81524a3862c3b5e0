package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vic/lamb/pkg/config"
	"github.com/vic/lamb/pkg/interpreter"
	"github.com/vic/lamb/pkg/lambda"
	"github.com/vic/lamb/pkg/trace"
)

type flags struct {
	verbose    bool
	veryVerb   bool
	renameFree bool
	noEquiv    bool
	maxDepth   int
	config     string
	repl       bool
	watch      bool
	trace      bool
	stats      bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var f flags
	fs := flag.NewFlagSet("lamb", flag.ContinueOnError)
	fs.BoolVar(&f.verbose, "v", false, "log α/β/δ steps")
	fs.BoolVar(&f.veryVerb, "vv", false, "log steps with explanations")
	fs.BoolVar(&f.renameFree, "rename-free", false, "rename free variables to X`n")
	fs.BoolVar(&f.noEquiv, "no-equiv", false, "do not list bindings equivalent to a result")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "recursion bound for expansion and reduction")
	fs.StringVar(&f.config, "config", "", "YAML options file")
	fs.BoolVar(&f.repl, "repl", false, "start an interactive session")
	fs.BoolVar(&f.watch, "watch", false, "re-run the input file whenever it changes")
	fs.BoolVar(&f.trace, "trace", false, "print the derivation log")
	fs.BoolVar(&f.stats, "stats", false, "print statistics to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ip, err := newInterpreter(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	color := isTerminal(os.Stdout.Fd())

	if f.repl || (fs.NArg() == 0 && isTerminal(os.Stdin.Fd())) {
		return repl(ip, color)
	}

	if f.watch {
		if fs.NArg() == 0 {
			fmt.Fprintf(os.Stderr, "Error: -watch needs a file\n")
			return 2
		}
		if err := watch(fs.Arg(0), func(src string) { execute(ip, src, f, color) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	var input []byte
	if fs.NArg() > 0 {
		input, err = os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			return 1
		}
	} else {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			return 1
		}
	}

	if !execute(ip, string(input), f, color) {
		return 1
	}
	return 0
}

func newInterpreter(f flags) (*interpreter.Interpreter, error) {
	opts := interpreter.DefaultOptions()
	opts.Verbosity = trace.VerbosityNone

	var cfg *config.Config
	if f.config != "" {
		c, err := config.Load(f.config)
		if err != nil {
			return nil, err
		}
		if err := c.Check(interpreter.Version); err != nil {
			return nil, fmt.Errorf("config %s: %w", f.config, err)
		}
		opts = c.Apply(opts)
		cfg = c
	}

	switch {
	case f.veryVerb:
		opts.Verbosity = trace.VerbosityHigh
	case f.verbose:
		opts.Verbosity = trace.VerbosityLow
	}
	if f.trace && opts.Verbosity == trace.VerbosityNone {
		opts.Verbosity = trace.VerbosityLow
	}
	if f.renameFree {
		opts.RenameFreeVars = true
	}
	if f.noEquiv {
		opts.ShowEquivalent = false
	}
	if f.maxDepth > 0 {
		opts.MaxDepth = f.maxDepth
	}

	ip, err := interpreter.New(opts)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		if err := cfg.Define(ip); err != nil {
			return nil, err
		}
	}
	return ip, nil
}

// execute runs every statement in src and prints the outcome. It reports
// whether all statements succeeded.
func execute(ip *interpreter.Interpreter, src string, f flags, color bool) bool {
	start := time.Now()
	results := ip.Exec(src)
	elapsed := time.Since(start)

	ok := true
	for _, r := range results {
		switch {
		case r.Err != nil:
			ok = false
			fmt.Fprintln(os.Stderr, paint(color, red, "Error: "+r.Err.Error()))
			if p := partialTerm(r.Err); p != nil {
				fmt.Fprintln(os.Stderr, "partial: "+p.String())
			}
		case r.Term != nil:
			fmt.Println(paint(color, blue, r.Term.String()))
		case r.Output != "":
			fmt.Println(r.Output)
		}
	}

	if f.trace {
		fmt.Fprint(os.Stderr, ip.Log().String())
	}
	if f.stats {
		printStats(ip.Stats(), elapsed)
	}
	return ok
}

func printStats(stats interpreter.Stats, elapsed time.Duration) {
	seconds := elapsed.Seconds()
	line := func(label string, n uint64) {
		fmt.Fprintf(os.Stderr, "  %-17s %6d", label+":", n)
		if seconds > 0 {
			fmt.Fprintf(os.Stderr, " (%.2f ops/sec)", float64(n)/seconds)
		}
		fmt.Fprintf(os.Stderr, "\n")
	}

	fmt.Fprintf(os.Stderr, "\nStats:\n")
	fmt.Fprintf(os.Stderr, "Time: %v\n", elapsed)
	fmt.Fprintf(os.Stderr, "Evaluations: %d, Errors: %d\n", stats.Evaluations, stats.Errors)

	fmt.Fprintf(os.Stderr, "\nBreakdown:\n")
	line("β-reductions", stats.BetaReductions)
	line("α-renames", stats.AlphaRenames)
	line("δ-expansions", stats.DeltaExpansions)
	if stats.FreeRenames > 0 {
		line("ε-renames", stats.FreeRenames)
	}
}

const (
	red  = "\x1b[31m"
	blue = "\x1b[94m"
)

func paint(enabled bool, code, s string) string {
	if !enabled {
		return s
	}
	return code + s + "\x1b[0m"
}

// partialTerm returns how far a reduction got before hitting the depth bound.
func partialTerm(err error) lambda.Term {
	var de *lambda.RecursionDepthError
	if errors.As(err, &de) {
		return de.Partial
	}
	return nil
}
