package interpreter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/vic/lamb/pkg/lambda"
	"github.com/vic/lamb/pkg/trace"
)

// Version is the semantic version of the evaluator and its builtin table.
const Version = "1.2.0"

// Options configures logging and reduction for subsequent evaluations.
type Options struct {
	Verbosity      trace.Verbosity
	RenameFreeVars bool
	ShowEquivalent bool
	// MaxDepth bounds resolution and reduction nesting; 0 means
	// lambda.DefaultMaxDepth.
	MaxDepth int
	// TraceCapacity caps the retained log entries; 0 means unlimited.
	TraceCapacity int
}

func DefaultOptions() Options {
	return Options{
		Verbosity:      trace.VerbosityLow,
		ShowEquivalent: true,
		MaxDepth:       lambda.DefaultMaxDepth,
	}
}

// Stats accumulates counters over the interpreter's lifetime.
type Stats struct {
	Evaluations     uint64
	Errors          uint64
	BetaReductions  uint64
	AlphaRenames    uint64
	FreeRenames     uint64
	DeltaExpansions uint64
}

// Result is the outcome of one statement run by Exec.
type Result struct {
	Stmt   lambda.Stmt
	Term   lambda.Term
	Output string
	Err    error
}

// Interpreter runs the lex, parse, resolve, reduce pipeline against a table
// of named terms. Calls are serialised; one evaluation runs at a time.
type Interpreter struct {
	mu   sync.Mutex
	opts Options
	log  *trace.Log

	lexer  *lambda.Lexer
	parser *lambda.Parser

	bindings   map[string]lambda.Term
	hashes     map[string]int64
	structures map[int64]map[string]struct{}

	stats Stats
}

// New builds an interpreter and loads the builtin terms through the same
// lexer and parser used for input.
func New(opts Options) (*Interpreter, error) {
	ip := &Interpreter{
		opts:       opts,
		log:        trace.New(opts.Verbosity),
		bindings:   make(map[string]lambda.Term),
		hashes:     make(map[string]int64),
		structures: make(map[int64]map[string]struct{}),
	}
	ip.log.SetCapacity(opts.TraceCapacity)
	ip.lexer = lambda.NewLexer("", ip.log)
	ip.parser = lambda.NewParser(ip.log, 1)

	for _, b := range builtins {
		t, err := ip.parseTerm(b.src)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", strings.Join(b.names, "|"), err)
		}
		for _, name := range b.names {
			ip.bindings[name] = t
		}
	}
	// Hash once everything is bound, so definitions can refer to each other.
	for _, b := range builtins {
		for _, name := range b.names {
			ip.addHash(name, ip.bindings[name])
		}
	}
	ip.log.Clear()
	return ip, nil
}

func (ip *Interpreter) Log() *trace.Log {
	return ip.log
}

func (ip *Interpreter) Options() Options {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	return ip.opts
}

// SetOptions reconfigures verbosity and reduction behaviour.
func (ip *Interpreter) SetOptions(opts Options) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.opts = opts
	ip.log.SetVerbosity(opts.Verbosity)
	ip.log.SetCapacity(opts.TraceCapacity)
}

func (ip *Interpreter) Stats() Stats {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	return ip.stats
}

// Bindings returns the bound names in sorted order.
func (ip *Interpreter) Bindings() []string {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	names := lo.Keys(ip.bindings)
	slices.Sort(names)
	return names
}

// Lookup returns a clone of the term bound to name.
func (ip *Interpreter) Lookup(name string) (lambda.Term, bool) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	t, ok := ip.bindings[name]
	if !ok {
		return nil, false
	}
	return lambda.Clone(t), true
}

// Define binds name to the term in source, replacing any previous binding.
func (ip *Interpreter) Define(name, source string) error {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.log.SetSource(source)
	t, err := ip.parseTerm(source)
	if err != nil {
		return fmt.Errorf("define %s: %w", name, err)
	}
	ip.bind(name, t)
	return nil
}

// Evaluate reduces a single term to normal form. Progress, the result and
// any errors are appended to the log, which is cleared first.
func (ip *Interpreter) Evaluate(input string) (lambda.Term, error) {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	ip.log.Clear()
	ip.log.SetSource(input)
	ip.log.InputEcho(strings.TrimRight(input, "\n"))

	t, err := ip.parseTerm(input)
	if err != nil {
		ip.stats.Errors++
		return nil, err
	}
	return ip.run(t)
}

// Exec runs every statement in source: bindings, commands and terms. A
// malformed statement fails on its own; the rest still run.
func (ip *Interpreter) Exec(source string) []Result {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	ip.log.Clear()
	ip.log.SetSource(source)

	ip.lexer.Reset(source)
	ip.parser.SetTokens(ip.lexer.Tokens())

	var results []Result
	for !ip.parser.Done() {
		st, err := ip.parser.Next()
		if err != nil {
			ip.stats.Errors++
			results = append(results, Result{Err: err})
			continue
		}
		results = append(results, ip.execStmt(st))
	}
	return results
}

func (ip *Interpreter) execStmt(st lambda.Stmt) Result {
	switch s := st.(type) {
	case *lambda.TermStmt:
		t, err := ip.run(s.Term)
		return Result{Stmt: st, Term: t, Err: err}
	case *lambda.BindingStmt:
		ip.bind(s.Name, s.Term)
		out := fmt.Sprintf("%s = %s", s.Name, s.Term)
		ip.log.Normal(out)
		return Result{Stmt: st, Output: out}
	case *lambda.CommandStmt:
		out := ip.handleCommand(s)
		ip.log.Normal(out)
		return Result{Stmt: st, Output: out}
	default:
		return Result{Stmt: st, Err: fmt.Errorf("unknown statement %T", st)}
	}
}

// HandleCommand runs env, unbind or help and returns its text.
func (ip *Interpreter) HandleCommand(cmd *lambda.CommandStmt) string {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	return ip.handleCommand(cmd)
}

func (ip *Interpreter) handleCommand(cmd *lambda.CommandStmt) string {
	switch cmd.Kind {
	case lambda.CommandEnv:
		return ip.env()
	case lambda.CommandUnbind:
		if cmd.Arg == "" {
			return "Missing argument for unbind"
		}
		return ip.unbind(cmd.Arg)
	case lambda.CommandHelp:
		return helpText
	default:
		return "Unknown command"
	}
}

// env lists the bindings. Names whose definitions have the same value hash
// are aliases and share a line.
func (ip *Interpreter) env() string {
	names := lo.Keys(ip.bindings)
	slices.Sort(names)
	groups := lo.GroupBy(names, func(name string) int64 {
		return lambda.ValueHash(ip.bindings[name])
	})

	var b strings.Builder
	b.WriteString("Current bindings:\n")
	seen := make(map[int64]bool)
	for _, name := range names {
		h := lambda.ValueHash(ip.bindings[name])
		if seen[h] {
			continue
		}
		seen[h] = true
		fmt.Fprintf(&b, "%s:\t%s\n", strings.Join(groups[h], ", "), ip.bindings[name])
	}
	return b.String()
}

func (ip *Interpreter) unbind(name string) string {
	if _, ok := ip.bindings[name]; !ok {
		return fmt.Sprintf("'%s' was not bound", name)
	}
	ip.deleteHash(name)
	delete(ip.bindings, name)
	return fmt.Sprintf("Unbound '%s'", name)
}

func (ip *Interpreter) bind(name string, t lambda.Term) {
	if _, ok := ip.bindings[name]; ok {
		ip.deleteHash(name)
	}
	ip.bindings[name] = t
	ip.addHash(name, t)
}

// parseTerm lexes and parses one term with the shared lexer and parser, so
// abstraction ids keep increasing across inputs. Lex errors are reported and
// skipped; only a parse failure is returned.
func (ip *Interpreter) parseTerm(src string) (lambda.Term, error) {
	ip.lexer.Reset(src)
	ip.parser.SetTokens(ip.lexer.Tokens())
	return ip.parser.ParseTerm()
}

func (ip *Interpreter) run(t lambda.Term) (lambda.Term, error) {
	ip.stats.Evaluations++
	ip.log.ParsedInput(t.String())

	resolver := lambda.NewResolver(ip.bindings, ip.log)
	resolver.SetMaxDepth(ip.opts.MaxDepth)
	resolved, err := resolver.Resolve(t)
	ip.stats.DeltaExpansions += uint64(resolver.Expansions())
	if err != nil {
		return nil, ip.fail(err)
	}

	reducer := lambda.NewReducer(lambda.ReducerOptions{
		RenameFreeVars: ip.opts.RenameFreeVars,
		MaxDepth:       ip.opts.MaxDepth,
	}, ip.log)
	reduced, err := reducer.Reduce(resolved)
	rs := reducer.Stats()
	ip.stats.BetaReductions += rs.BetaReductions
	ip.stats.AlphaRenames += rs.AlphaRenames
	ip.stats.FreeRenames += rs.FreeRenames
	if err != nil {
		return nil, ip.fail(err)
	}

	id := ip.log.FinalResult(reduced.String())
	if ip.opts.ShowEquivalent {
		if names := ip.equivalents(reduced); len(names) > 0 {
			ip.log.Equivalence(names, id)
		}
	}
	return reduced, nil
}

func (ip *Interpreter) fail(err error) error {
	ip.stats.Errors++
	ip.log.ReportError(err)
	var de *lambda.RecursionDepthError
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("evaluate: %w", err)
}

// Equivalents returns the bound names whose normal form shares t's structure
// hash.
func (ip *Interpreter) Equivalents(t lambda.Term) []string {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	return ip.equivalents(t)
}

func (ip *Interpreter) equivalents(t lambda.Term) []string {
	names := lo.Keys(ip.structures[lambda.StructureHash(t)])
	slices.Sort(names)
	return names
}

// normalForm resolves and reduces a copy of t silently. It falls back to t
// itself when that does not terminate within the depth bound.
func (ip *Interpreter) normalForm(t lambda.Term) lambda.Term {
	resolved, err := lambda.NewResolver(ip.bindings, nil).Resolve(lambda.Clone(t))
	if err != nil {
		return t
	}
	reduced, err := lambda.NewReducer(lambda.ReducerOptions{MaxDepth: ip.opts.MaxDepth}, nil).Reduce(resolved)
	if err != nil {
		return t
	}
	return reduced
}

func (ip *Interpreter) addHash(name string, t lambda.Term) {
	h := lambda.StructureHash(ip.normalForm(t))
	ip.hashes[name] = h
	set, ok := ip.structures[h]
	if !ok {
		set = make(map[string]struct{})
		ip.structures[h] = set
	}
	set[name] = struct{}{}
}

func (ip *Interpreter) deleteHash(name string) {
	h, ok := ip.hashes[name]
	if !ok {
		return
	}
	delete(ip.hashes, name)
	if set, ok := ip.structures[h]; ok {
		delete(set, name)
		if len(set) == 0 {
			delete(ip.structures, h)
		}
	}
}
