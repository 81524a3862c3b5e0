package lambda

// Lexer turns source text into tokens. A single Lexer can be Reset with new
// source and reused.
type Lexer struct {
	source   []rune
	tokens   []Token
	errs     []*LexError
	start    int
	pos      int
	line     int
	lineHead int
	report   Reporter
}

func NewLexer(source string, report Reporter) *Lexer {
	if report == nil {
		report = nopReporter{}
	}
	l := &Lexer{report: report}
	l.Reset(source)
	return l
}

// Reset replaces the source and clears all lexing state.
func (l *Lexer) Reset(source string) {
	l.source = []rune(source)
	l.tokens = nil
	l.errs = nil
	l.start = 0
	l.pos = 0
	l.line = 1
	l.lineHead = 0
}

// Errors returns the errors met by the last call to Tokens.
func (l *Lexer) Errors() []*LexError {
	return l.errs
}

// Tokens scans the whole source. The result always ends with a NEWLINE
// followed by EOF. Unscannable characters are reported and skipped.
func (l *Lexer) Tokens() []Token {
	l.tokens = nil
	l.errs = nil
	l.start, l.pos, l.line, l.lineHead = 0, 0, 1, 0

	for l.pos < len(l.source) {
		l.start = l.pos
		l.scan()
	}

	if len(l.tokens) == 0 || l.tokens[len(l.tokens)-1].Type != TokenNewline {
		l.start = l.pos
		l.tokens = append(l.tokens, l.token(TokenNewline, "<newline>"))
	}
	l.start = l.pos
	l.tokens = append(l.tokens, l.token(TokenEOF, ""))
	return l.tokens
}

func (l *Lexer) scan() {
	c := l.source[l.pos]
	l.pos++

	switch {
	case c == '(':
		l.add(TokenLParen)
	case c == ')':
		l.add(TokenRParen)
	case c == 'λ' || c == '\\':
		l.add(TokenLambda)
	case c == '.':
		l.add(TokenDot)
	case c == '=':
		l.add(TokenEquals)
	case c == ' ' || c == '\t' || c == '\r':
	case c == '\n':
		l.add(TokenNewline)
		l.line++
		l.lineHead = l.pos
	case c == '#':
		for l.pos < len(l.source) && l.source[l.pos] != '\n' {
			l.pos++
		}
	case isLower(c):
		l.identifier()
	default:
		err := &LexError{
			Line:   l.line,
			Col:    l.start - l.lineHead + 1,
			Length: 1,
			Char:   string(c),
		}
		l.errs = append(l.errs, err)
		l.report.ReportError(err)
	}
}

func (l *Lexer) identifier() {
	for l.pos < len(l.source) && (isLower(l.source[l.pos]) || isDigit(l.source[l.pos])) {
		l.pos++
	}
	text := string(l.source[l.start:l.pos])
	if kw, ok := keywords[text]; ok {
		l.add(kw)
		return
	}
	l.add(TokenIdent)
}

func (l *Lexer) add(typ TokenType) {
	l.tokens = append(l.tokens, l.token(typ, string(l.source[l.start:l.pos])))
}

func (l *Lexer) token(typ TokenType, lexeme string) Token {
	return Token{
		Type:   typ,
		Lexeme: lexeme,
		Line:   l.line,
		Start:  l.start - l.lineHead + 1,
		Length: l.pos - l.start,
	}
}

func isLower(c rune) bool {
	return c >= 'a' && c <= 'z'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// Tokenize lexes source with a throwaway Lexer.
func Tokenize(source string) ([]Token, []*LexError) {
	l := NewLexer(source, nil)
	toks := l.Tokens()
	return toks, l.Errors()
}
