package interpreter

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/vic/lamb/pkg/lambda"
	"github.com/vic/lamb/pkg/trace"
)

func newTestInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	ip, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ip
}

func evaluate(t *testing.T, ip *Interpreter, src string) lambda.Term {
	t.Helper()
	term, err := ip.Evaluate(src)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v\n%s", src, err, ip.Log())
	}
	return term
}

func lastEquivalence(ip *Interpreter) (trace.Entry, bool) {
	entries := ip.Log().Snapshot()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Kind == trace.KindEquivalence {
			return entries[i], true
		}
	}
	return trace.Entry{}, false
}

func TestBuiltinsLoaded(t *testing.T) {
	ip := newTestInterpreter(t)
	names := ip.Bindings()
	for _, want := range []string{"true", "false", "pair", "cons", "car", "five", "iszero", "times"} {
		if !slices.Contains(names, want) {
			t.Errorf("builtin %s missing", want)
		}
	}
	if len(ip.Log().Snapshot()) != 0 {
		t.Errorf("loading builtins left log entries")
	}
}

// TestChurchAddition checks plus two three reduces to a term structurally
// equal to five, and that the log names five as equivalent.
func TestChurchAddition(t *testing.T) {
	ip := newTestInterpreter(t)
	got := evaluate(t, ip, "plus two three")

	five, _ := ip.Lookup("five")
	if !lambda.Equivalent(got, five) {
		t.Fatalf("plus two three = %s", got)
	}

	eq, ok := lastEquivalence(ip)
	if !ok {
		t.Fatalf("no equivalence entry:\n%s", ip.Log())
	}
	if eq.Message != "equivalent to: five" {
		t.Errorf("equivalence = %q", eq.Message)
	}

	entries := ip.Log().Snapshot()
	if entries[0].Kind != trace.KindInputEcho || entries[0].Message != "plus two three" {
		t.Errorf("first entry = %+v", entries[0])
	}
	var result trace.Entry
	for _, e := range entries {
		if e.Kind == trace.KindFinalResult {
			result = e
		}
	}
	if eq.ParentID != result.ID {
		t.Errorf("equivalence parent %d, result id %d", eq.ParentID, result.ID)
	}

	st := ip.Stats()
	if st.Evaluations != 1 || st.BetaReductions == 0 || st.DeltaExpansions == 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestBooleansAndPairs(t *testing.T) {
	ip := newTestInterpreter(t)

	got := evaluate(t, ip, "and true false")
	if falseTerm, _ := ip.Lookup("false"); !lambda.Equivalent(got, falseTerm) {
		t.Errorf("and true false = %s", got)
	}
	eq, _ := lastEquivalence(ip)
	if eq.Message != "equivalent to: false, zero" {
		t.Errorf("equivalence = %q", eq.Message)
	}

	if got := evaluate(t, ip, "first (pair a b)"); got.String() != "a" {
		t.Errorf("first (pair a b) = %s", got)
	}
	if got := evaluate(t, ip, "cdr (cons a b)"); got.String() != "b" {
		t.Errorf("cdr (cons a b) = %s", got)
	}
	if got := evaluate(t, ip, "if (iszero zero) yes no"); got.String() != "yes" {
		t.Errorf("if (iszero zero) yes no = %s", got)
	}
	if got := evaluate(t, ip, "datum (left (tree a (tree b nil nil) nil))"); got.String() != "b" {
		t.Errorf("tree walk = %s", got)
	}
}

func TestMultiplication(t *testing.T) {
	ip := newTestInterpreter(t)
	got := evaluate(t, ip, "times two three")
	want, err := lambda.Parse(`\f x. f (f (f (f (f (f x)))))`)
	if err != nil {
		t.Fatal(err)
	}
	if !lambda.Equivalent(got, want) {
		t.Errorf("times two three = %s", got)
	}
}

func TestVerbosityNoneLogsOnlyResult(t *testing.T) {
	opts := DefaultOptions()
	opts.Verbosity = trace.VerbosityNone
	ip, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	evaluate(t, ip, "not true")
	for _, e := range ip.Log().Snapshot() {
		switch e.Kind {
		case trace.KindAlpha, trace.KindBeta, trace.KindDeltaExpansion, trace.KindDeltaSummary:
			t.Errorf("step logged at verbosity none: %s", e.Format())
		}
	}
}

func TestShowEquivalentDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowEquivalent = false
	ip, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	evaluate(t, ip, "plus two three")
	if _, ok := lastEquivalence(ip); ok {
		t.Errorf("equivalence logged although disabled")
	}
}

// TestUnbind checks that an unbound name is no longer expanded nor reported
// as equivalent.
func TestUnbind(t *testing.T) {
	ip := newTestInterpreter(t)
	out := ip.HandleCommand(&lambda.CommandStmt{Kind: lambda.CommandUnbind, Arg: "two"})
	if out != "Unbound 'two'" {
		t.Errorf("unbind = %q", out)
	}
	if out := ip.HandleCommand(&lambda.CommandStmt{Kind: lambda.CommandUnbind, Arg: "two"}); out != "'two' was not bound" {
		t.Errorf("second unbind = %q", out)
	}
	if got := evaluate(t, ip, "two"); got.String() != "two" {
		t.Errorf("two = %s after unbind", got)
	}

	evaluate(t, ip, "plus one one")
	if eq, ok := lastEquivalence(ip); ok {
		t.Errorf("unexpected equivalence after unbind: %s", eq.Message)
	}
	if slices.Contains(ip.Bindings(), "two") {
		t.Errorf("two still listed")
	}
}

func TestEnvGroupsAliases(t *testing.T) {
	ip := newTestInterpreter(t)
	out := ip.HandleCommand(&lambda.CommandStmt{Kind: lambda.CommandEnv})
	if !strings.HasPrefix(out, "Current bindings:\n") {
		t.Fatalf("env = %q", out)
	}
	if !strings.Contains(out, "cons, pair:\t(λx. (λy. (λf. ((f x) y))))\n") {
		t.Errorf("aliases not grouped:\n%s", out)
	}
	if !strings.Contains(out, "five:\t") {
		t.Errorf("five missing:\n%s", out)
	}
	if help := ip.HandleCommand(&lambda.CommandStmt{Kind: lambda.CommandHelp}); !strings.Contains(help, "unbind <name>") {
		t.Errorf("help = %q", help)
	}
}

// TestExecStatements runs bindings, commands and terms in one source with a
// malformed line in the middle.
func TestExecStatements(t *testing.T) {
	ip := newTestInterpreter(t)
	src := "k = \\x y. x\nk a b\n(oops\nenv\nunbind k\nk a b\n"
	results := ip.Exec(src)
	if len(results) != 6 {
		t.Fatalf("got %d results, want 6", len(results))
	}

	if results[0].Output != "k = (λx. (λy. x))" {
		t.Errorf("binding output = %q", results[0].Output)
	}
	if results[1].Term == nil || results[1].Term.String() != "a" {
		t.Errorf("k a b = %v", results[1].Term)
	}
	var pe *lambda.ParseError
	if !errors.As(results[2].Err, &pe) {
		t.Errorf("expected a parse error, got %v", results[2].Err)
	}
	if !strings.Contains(results[3].Output, "k:\t(λx. (λy. x))") {
		t.Errorf("env does not list k:\n%s", results[3].Output)
	}
	if results[4].Output != "Unbound 'k'" {
		t.Errorf("unbind output = %q", results[4].Output)
	}
	if results[5].Term == nil || results[5].Term.String() != "((k a) b)" {
		t.Errorf("k a b after unbind = %v", results[5].Term)
	}

	if !ip.Log().HasError() {
		t.Errorf("parse error not logged")
	}
	if ip.Stats().Errors != 1 {
		t.Errorf("errors = %d, want 1", ip.Stats().Errors)
	}
}

// TestBindingEquivalence checks that a user binding is hashed by its normal
// form and reported for matching results.
func TestBindingEquivalence(t *testing.T) {
	ip := newTestInterpreter(t)
	ip.Exec("six = plus three three\n")
	evaluate(t, ip, "times two three")
	eq, ok := lastEquivalence(ip)
	if !ok || eq.Message != "equivalent to: six" {
		t.Errorf("equivalence = %q, %v", eq.Message, ok)
	}
}

func TestDefine(t *testing.T) {
	ip := newTestInterpreter(t)
	if err := ip.Define("swap", `\p. pair (second p) (first p)`); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if got := evaluate(t, ip, "first (swap (pair a b))"); got.String() != "b" {
		t.Errorf("got %s", got)
	}
	if err := ip.Define("bad", "(x"); err == nil {
		t.Errorf("Define accepted a malformed term")
	}
}

func TestErrors(t *testing.T) {
	ip := newTestInterpreter(t)

	_, err := ip.Evaluate(`(\x. x x) (\x. x x)`)
	var de *lambda.RecursionDepthError
	if !errors.As(err, &de) {
		t.Errorf("Ω: expected *RecursionDepthError, got %v", err)
	}
	if !ip.Log().HasError() {
		t.Errorf("Ω: error not logged")
	}

	_, err = ip.Evaluate(`(\x. x x x) (\x. x x x)`)
	if err == nil || !strings.Contains(err.Error(), "Non-terminating expression detected") {
		t.Errorf("triple self-application: got %v", err)
	}

	if _, err := ip.Evaluate("(a b"); err == nil {
		t.Errorf("unbalanced parenthesis accepted")
	}
	snap := ip.Log().Snapshot()
	if len(snap) < 3 || snap[len(snap)-1].ParentID == 0 {
		t.Errorf("expected a caret context entry:\n%s", ip.Log())
	}
}

// TestLexErrorIsNotFatal checks that an unknown character is reported while
// the rest of the input is still evaluated.
func TestLexErrorIsNotFatal(t *testing.T) {
	ip := newTestInterpreter(t)
	got, err := ip.Evaluate("first $ (pair a b)")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got.String() != "a" {
		t.Errorf("got %s", got)
	}
	if !ip.Log().HasError() {
		t.Errorf("lex error not logged")
	}
}

func TestRenameFreeVars(t *testing.T) {
	opts := DefaultOptions()
	opts.RenameFreeVars = true
	ip, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := evaluate(t, ip, "first (pair a b)"); got.String() != "X`0" {
		t.Errorf("got %s", got)
	}
	var renames int
	for _, e := range ip.Log().Snapshot() {
		if e.Kind == trace.KindFreeRename {
			renames++
		}
	}
	if renames == 0 {
		t.Errorf("no ε entries logged")
	}
}

func TestConcurrentEvaluate(t *testing.T) {
	ip := newTestInterpreter(t)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ip.Evaluate("plus two two"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Evaluate: %v", err)
	}
	if ip.Stats().Evaluations != 8 {
		t.Errorf("evaluations = %d", ip.Stats().Evaluations)
	}
}

func TestBetaCasesWithBuiltins(t *testing.T) {
	ip := newTestInterpreter(t)
	cases := []struct {
		in, want string
	}{
		{`(\x. x) y`, "y"},
		{`(\t f. t) x y`, "x"},
		{`(\p. p true) (\b. b v w)`, "v"},
	}
	for _, tc := range cases {
		if got := evaluate(t, ip, tc.in); got.String() != tc.want {
			t.Errorf("%s = %s, want %s", tc.in, got, tc.want)
		}
	}

	got := evaluate(t, ip, `(\a b. a b false) true false`)
	if falseTerm, _ := ip.Lookup("false"); !lambda.Equivalent(got, falseTerm) {
		t.Errorf("AND true false = %s", got)
	}
}

func TestSetOptions(t *testing.T) {
	ip := newTestInterpreter(t)
	opts := ip.Options()
	opts.Verbosity = trace.VerbosityHigh
	opts.MaxDepth = 20
	ip.SetOptions(opts)

	if ip.Log().Verbosity() != trace.VerbosityHigh {
		t.Errorf("log verbosity not updated")
	}
	evaluate(t, ip, "not true")
	var detailed bool
	for _, e := range ip.Log().Snapshot() {
		if e.Kind == trace.KindBeta && strings.HasPrefix(e.Detail, "Beta reducing") {
			detailed = true
		}
	}
	if !detailed {
		t.Errorf("no β detail at high verbosity:\n%s", ip.Log())
	}

	var de *lambda.RecursionDepthError
	if _, err := ip.Evaluate("times five five"); !errors.As(err, &de) {
		t.Errorf("MaxDepth 20 not applied: %v", err)
	}
}
