package lambda

import (
	"fmt"
	"os"
)

var lambDebug = os.Getenv("LAMB_DEBUG") != ""

func debugf(format string, args ...any) {
	if lambDebug {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Tracer receives the derivation events of resolution and reduction.
// *trace.Log implements it.
type Tracer interface {
	Alpha(term, detail string)
	Beta(term, detail string)
	FreeRename(from, to string)
	DeltaExpansion(name, expanded string)
	DeltaSummary(term string)
}

type nopTracer struct{}

func (nopTracer) Alpha(string, string)          {}
func (nopTracer) Beta(string, string)           {}
func (nopTracer) FreeRename(string, string)     {}
func (nopTracer) DeltaExpansion(string, string) {}
func (nopTracer) DeltaSummary(string)           {}
