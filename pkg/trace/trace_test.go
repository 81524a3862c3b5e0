package trace

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type locatedError struct {
	line, col, length int
	eof               bool
}

func (e *locatedError) Error() string { return "located" }
func (e *locatedError) Location() (int, int, int, bool) {
	return e.line, e.col, e.length, e.eof
}

func TestVerbosityGating(t *testing.T) {
	cases := []struct {
		v          Verbosity
		wantSteps  int
		wantDetail bool
	}{
		{VerbosityNone, 0, false},
		{VerbosityLow, 5, false},
		{VerbosityHigh, 5, true},
	}
	for _, tc := range cases {
		l := New(tc.v)
		l.Alpha("a", "alpha detail")
		l.Beta("b", "beta detail")
		l.FreeRename("x", "X`0")
		l.DeltaExpansion("id", "(λx. x)")
		l.DeltaSummary("((λx. x) a)")
		l.FinalResult("a")

		entries := l.Snapshot()
		if got := len(entries) - 1; got != tc.wantSteps {
			t.Errorf("%v: %d step entries, want %d", tc.v, got, tc.wantSteps)
		}
		if tc.wantSteps > 0 {
			if got := entries[0].Detail != ""; got != tc.wantDetail {
				t.Errorf("%v: detail present = %v", tc.v, got)
			}
		}
		if entries[len(entries)-1].Kind != KindFinalResult {
			t.Errorf("%v: final result missing", tc.v)
		}
	}
}

func TestEntryFormat(t *testing.T) {
	cases := []struct {
		e    Entry
		want string
	}{
		{Entry{Kind: KindInputEcho, Message: "id a"}, "λ> id a"},
		{Entry{Kind: KindParsedInput, Message: "(id a)"}, "λ > (id a)"},
		{Entry{Kind: KindBeta, Message: "a", Detail: "why"}, "β > a\n    why"},
		{Entry{Kind: KindAlpha, Message: "t"}, "α > t"},
		{Entry{Kind: KindFreeRename, Message: "'x' → 'X`0'"}, "ε > 'x' → 'X`0'"},
		{Entry{Kind: KindDeltaExpansion, Message: "m"}, "    δ > m"},
		{Entry{Kind: KindDeltaSummary, Message: "m"}, "Δ > m"},
		{Entry{Kind: KindFinalResult, Message: "a"}, ">>> a"},
		{Entry{Kind: KindEquivalence, Message: "equivalent to: id"}, "    ↳ equivalent to: id"},
		{Entry{Kind: KindError, Message: "bad"}, "Error: bad"},
		{Entry{Kind: KindError, Message: "ctx", ParentID: 1}, "ctx"},
	}
	for _, tc := range cases {
		if got := tc.e.Format(); got != tc.want {
			t.Errorf("%v: got %q, want %q", tc.e.Kind, got, tc.want)
		}
	}
}

// TestReportErrorCaret checks the child entry quoting the source line with a
// caret row under the offending columns.
func TestReportErrorCaret(t *testing.T) {
	l := New(VerbosityNone)
	l.SetSource("first\nab $ cd")
	l.ReportError(&locatedError{line: 2, col: 4, length: 1})

	if !l.HasError() {
		t.Fatal("HasError = false")
	}
	entries := l.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1].ParentID != entries[0].ID {
		t.Errorf("caret entry not linked to its error")
	}
	if want := "ab $ cd\n   ^"; entries[1].Message != want {
		t.Errorf("caret = %q, want %q", entries[1].Message, want)
	}

	l.ReportError(&locatedError{line: 2, col: 8, length: 0, eof: true})
	if got := l.Snapshot()[3].Message; !strings.HasSuffix(got, "       ^^") {
		t.Errorf("EOF caret = %q", got)
	}
}

func TestReportErrorWithoutLocation(t *testing.T) {
	l := New(VerbosityNone)
	l.SetSource("x")
	l.ReportError(errors.New("plain"))
	l.ReportError(fmt.Errorf("wrapped: %w", &locatedError{line: 9}))

	entries := l.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(entries), entries)
	}
	if entries[0].Format() != "Error: plain" {
		t.Errorf("got %q", entries[0].Format())
	}
}

func TestCapacityAndClear(t *testing.T) {
	l := New(VerbosityLow)
	l.SetCapacity(2)
	var seen int
	l.Subscribe(func(Entry) { seen++ })
	for i := 0; i < 5; i++ {
		l.Normal(fmt.Sprint(i))
	}
	if len(l.Snapshot()) != 2 || l.Dropped() != 3 {
		t.Errorf("kept %d, dropped %d", len(l.Snapshot()), l.Dropped())
	}
	if seen != 5 {
		t.Errorf("sink saw %d entries, want 5", seen)
	}

	last := l.Snapshot()[1].ID
	l.Clear()
	if len(l.Snapshot()) != 0 || l.Dropped() != 0 || l.HasError() {
		t.Errorf("Clear left state behind")
	}
	id := l.InputEcho("x")
	if id <= last {
		t.Errorf("ids went backwards: %d after %d", id, last)
	}
	if l.Snapshot()[0].Sequence != 1 {
		t.Errorf("sequence not reset")
	}
}

func TestReductionSteps(t *testing.T) {
	l := New(VerbosityLow)
	l.InputEcho("id a")
	l.ParsedInput("(id a)")
	l.DeltaExpansion("id", "(λx. x)")
	l.Beta("a", "")
	id := l.FinalResult("a")
	l.Equivalence([]string{"a"}, id)
	l.Normal("noise")

	steps := l.ReductionSteps()
	if len(steps) != 5 {
		t.Fatalf("got %d steps, want 5", len(steps))
	}
	if steps[4].ParentID != id {
		t.Errorf("equivalence not linked to its result")
	}
	if !strings.Contains(l.String(), ">>> a\n") {
		t.Errorf("String() = %q", l.String())
	}
}

func TestParseVerbosity(t *testing.T) {
	for in, want := range map[string]Verbosity{"": VerbosityNone, "LOW": VerbosityLow, " high ": VerbosityHigh} {
		got, err := ParseVerbosity(in)
		if err != nil || got != want {
			t.Errorf("ParseVerbosity(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseVerbosity("loud"); err == nil {
		t.Errorf("expected error for unknown verbosity")
	}
}
