package lambda

import "fmt"

// LexError reports a character the lexer could not scan. Line and Col are
// 1-based; the lexer skips the character and continues.
type LexError struct {
	Line   int
	Col    int
	Length int
	Char   string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d [%d, %d]: Unexpected character: '%s'", e.Line, e.Col, e.Col+e.Length, e.Char)
}

func (e *LexError) Message() string {
	return fmt.Sprintf("Unexpected character: '%s'", e.Char)
}

// Location implements the trace package's locator contract.
func (e *LexError) Location() (line, col, length int, eof bool) {
	return e.Line, e.Col, e.Length, false
}

// ParseError reports malformed grammar at a token.
type ParseError struct {
	Line   int
	Col    int
	Length int
	AtEOF  bool
	Lexeme string
	Msg    string
}

func (e *ParseError) Error() string {
	if e.AtEOF {
		return fmt.Sprintf("end of file: %s", e.Msg)
	}
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d [%d, %d]: %s", e.Line, e.Col, e.Col+e.Length, e.Msg)
}

func (e *ParseError) Message() string {
	return e.Msg
}

func (e *ParseError) Location() (line, col, length int, eof bool) {
	return e.Line, e.Col, e.Length, e.AtEOF
}

// RecursionDepthError aborts a reduction or expansion that nested deeper than
// the configured bound. Term is the text of the term being visited when the
// bound was hit; Partial is the whole term as far as it got.
type RecursionDepthError struct {
	Term    string
	Partial Term
	Depth   int
}

func (e *RecursionDepthError) Error() string {
	return fmt.Sprintf("Non-terminating reduction detected in expression: %s\n"+
		"This expression appears to reduce infinitely. Common examples of such terms include:\n"+
		"- (λx.x x x) (λx.x x x)  [The omega combinator]\n"+
		"- Terms with circular substitutions", e.Term)
}

// TransformError is an internal failure of a generic tree walk: the depth
// bound was exceeded or an unknown term variant showed up.
type TransformError struct {
	Msg string
}

func (e *TransformError) Error() string {
	return "transform error: " + e.Msg
}

// Reporter receives recoverable lexer and parser errors as they happen.
type Reporter interface {
	ReportError(err error)
}

type nopReporter struct{}

func (nopReporter) ReportError(error) {}
