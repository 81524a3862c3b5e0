package trace

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Kind int

const (
	KindNormal Kind = iota
	KindInputEcho
	KindParsedInput
	KindAlpha
	KindBeta
	KindFreeRename
	KindDeltaExpansion
	KindDeltaSummary
	KindFinalResult
	KindEquivalence
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindInputEcho:
		return "input"
	case KindParsedInput:
		return "parsed"
	case KindAlpha:
		return "alpha"
	case KindBeta:
		return "beta"
	case KindFreeRename:
		return "free-rename"
	case KindDeltaExpansion:
		return "delta"
	case KindDeltaSummary:
		return "delta-summary"
	case KindFinalResult:
		return "result"
	case KindEquivalence:
		return "equivalence"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

type Verbosity int

const (
	VerbosityNone Verbosity = iota
	VerbosityLow
	VerbosityHigh
)

// ParseVerbosity accepts none, low or high.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return VerbosityNone, nil
	case "low":
		return VerbosityLow, nil
	case "high":
		return VerbosityHigh, nil
	}
	return VerbosityNone, fmt.Errorf("unknown verbosity %q", s)
}

func (v Verbosity) String() string {
	switch v {
	case VerbosityLow:
		return "low"
	case VerbosityHigh:
		return "high"
	default:
		return "none"
	}
}

// Entry is one record of the log. ParentID is 0 for top-level entries.
type Entry struct {
	ID       uint64
	ParentID uint64
	Sequence int
	Message  string
	Detail   string
	Kind     Kind
	Time     time.Time
}

// Format renders the entry the way the terminal front end prints it.
func (e Entry) Format() string {
	switch e.Kind {
	case KindInputEcho:
		return "λ> " + e.Message
	case KindParsedInput:
		return "λ > " + e.Message
	case KindAlpha:
		if e.Detail != "" {
			return "α > " + e.Message + "\n    " + e.Detail
		}
		return "α > " + e.Message
	case KindBeta:
		if e.Detail != "" {
			return "β > " + e.Message + "\n    " + e.Detail
		}
		return "β > " + e.Message
	case KindFreeRename:
		return "ε > " + e.Message
	case KindDeltaExpansion:
		return "    δ > " + e.Message
	case KindDeltaSummary:
		return "Δ > " + e.Message
	case KindFinalResult:
		return ">>> " + e.Message
	case KindEquivalence:
		return "    ↳ " + e.Message
	case KindError:
		if e.ParentID != 0 {
			return e.Message
		}
		return "Error: " + e.Message
	default:
		return e.Message
	}
}

// Locator is implemented by errors that know where in the source they
// happened. Line and column are 1-based; a zero line means unknown.
type Locator interface {
	Location() (line, col, length int, eof bool)
}

// Log is the ordered, append-only derivation log. Writes come from a single
// evaluation at a time; readers may snapshot concurrently.
type Log struct {
	mu        sync.Mutex
	entries   []Entry
	sinks     []func(Entry)
	source    []string
	seq       int
	verbosity Verbosity
	hasError  bool
	capacity  int
	dropped   uint64

	nextID uint64
}

func New(verbosity Verbosity) *Log {
	return &Log{verbosity: verbosity}
}

// SetCapacity limits the number of retained entries; further entries are
// counted as dropped. Zero means unlimited.
func (l *Log) SetCapacity(capacity int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if capacity < 0 {
		capacity = 0
	}
	l.capacity = capacity
}

func (l *Log) SetVerbosity(v Verbosity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbosity = v
}

func (l *Log) Verbosity() Verbosity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbosity
}

// SetSource records the text being evaluated so errors can quote it.
func (l *Log) SetSource(src string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.source = strings.Split(src, "\n")
}

// Subscribe registers a sink called synchronously for every new entry.
func (l *Log) Subscribe(sink func(Entry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sink)
}

// Add appends an entry and returns its id.
func (l *Log) Add(kind Kind, msg, detail string, parentID uint64) uint64 {
	l.mu.Lock()
	l.seq++
	e := Entry{
		ID:       atomic.AddUint64(&l.nextID, 1),
		ParentID: parentID,
		Sequence: l.seq,
		Message:  msg,
		Detail:   detail,
		Kind:     kind,
		Time:     time.Now(),
	}
	if l.capacity > 0 && len(l.entries) >= l.capacity {
		l.dropped++
	} else {
		l.entries = append(l.entries, e)
	}
	sinks := l.sinks
	l.mu.Unlock()

	for _, sink := range sinks {
		sink(e)
	}
	return e.ID
}

func (l *Log) atLeast(v Verbosity) bool {
	return l.Verbosity() >= v
}

// detail keeps explanations only at high verbosity.
func (l *Log) detail(s string) string {
	if l.atLeast(VerbosityHigh) {
		return s
	}
	return ""
}

func (l *Log) Normal(msg string) {
	l.Add(KindNormal, msg, "", 0)
}

func (l *Log) InputEcho(input string) uint64 {
	return l.Add(KindInputEcho, input, "", 0)
}

func (l *Log) ParsedInput(term string) uint64 {
	return l.Add(KindParsedInput, term, "", 0)
}

func (l *Log) Alpha(term, detail string) {
	if !l.atLeast(VerbosityLow) {
		return
	}
	l.Add(KindAlpha, term, l.detail(detail), 0)
}

func (l *Log) Beta(term, detail string) {
	if !l.atLeast(VerbosityLow) {
		return
	}
	l.Add(KindBeta, term, l.detail(detail), 0)
}

func (l *Log) FreeRename(from, to string) {
	if !l.atLeast(VerbosityLow) {
		return
	}
	l.Add(KindFreeRename, fmt.Sprintf("'%s' → '%s'", from, to), "", 0)
}

func (l *Log) DeltaExpansion(name, expanded string) {
	if !l.atLeast(VerbosityLow) {
		return
	}
	l.Add(KindDeltaExpansion, fmt.Sprintf("expanded '%s' into '%s'", name, expanded), "", 0)
}

func (l *Log) DeltaSummary(term string) {
	if !l.atLeast(VerbosityLow) {
		return
	}
	l.Add(KindDeltaSummary, term, "", 0)
}

func (l *Log) FinalResult(term string) uint64 {
	return l.Add(KindFinalResult, term, "", 0)
}

func (l *Log) Equivalence(names []string, parentID uint64) uint64 {
	return l.Add(KindEquivalence, "equivalent to: "+strings.Join(names, ", "), "", parentID)
}

// ReportError logs err. When err carries a source location the message is
// prefixed with it and, if the line is known, a child entry quotes the line
// with a caret row under the offending columns.
func (l *Log) ReportError(err error) {
	l.mu.Lock()
	l.hasError = true
	source := l.source
	l.mu.Unlock()

	id := l.Add(KindError, err.Error(), "", 0)
	var loc Locator
	if !errors.As(err, &loc) {
		return
	}
	line, col, length, eof := loc.Location()
	if line >= 1 && line <= len(source) {
		l.Add(KindError, caretContext(source[line-1], col, length, eof), "", id)
	}
}

func caretContext(line string, col, length int, eof bool) string {
	if col < 1 {
		col = 1
	}
	if length < 1 {
		length = 1
	}
	indicator := strings.Repeat(" ", col-1) + strings.Repeat("^", length)
	if eof {
		indicator += "^"
	}
	return line + "\n" + indicator
}

func (l *Log) HasError() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasError
}

// Dropped is the number of entries discarded because of the capacity.
func (l *Log) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Clear empties the log for a new evaluation. Ids keep increasing.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.seq = 0
	l.hasError = false
	l.dropped = 0
}

// Snapshot returns a copy of the retained entries in order.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := make([]Entry, len(l.entries))
	copy(res, l.entries)
	return res
}

// ReductionSteps returns the entries that make up the derivation.
func (l *Log) ReductionSteps() []Entry {
	var steps []Entry
	for _, e := range l.Snapshot() {
		switch e.Kind {
		case KindParsedInput, KindAlpha, KindBeta, KindFreeRename,
			KindDeltaExpansion, KindDeltaSummary, KindFinalResult, KindEquivalence:
			steps = append(steps, e)
		}
	}
	return steps
}

// String renders every entry, one per line.
func (l *Log) String() string {
	var b strings.Builder
	for _, e := range l.Snapshot() {
		b.WriteString(e.Format())
		b.WriteByte('\n')
	}
	return b.String()
}
