package lambda

import "fmt"

// scopeStack hands out abstraction ids and tracks, per name, the ids of the
// binders currently in scope. The top of a name's stack is the innermost one.
type scopeStack struct {
	next int
	ids  map[string][]int
}

func newScopeStack(start int) *scopeStack {
	return &scopeStack{next: start, ids: make(map[string][]int)}
}

func (s *scopeStack) push(name string) {
	s.ids[name] = append(s.ids[name], s.next)
	s.next++
}

func (s *scopeStack) pop(name string) {
	ids := s.ids[name]
	if len(ids) == 0 {
		return
	}
	ids = ids[:len(ids)-1]
	if len(ids) == 0 {
		delete(s.ids, name)
		return
	}
	s.ids[name] = ids
}

// get returns the innermost id bound to name, or 0 if it is free.
func (s *scopeStack) get(name string) int {
	ids := s.ids[name]
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

func (s *scopeStack) reset() {
	s.ids = make(map[string][]int)
}

// Parser is a recursive-descent parser over a token slice.
//
//	term        ::= 'λ' ident+ '.' term | application
//	application ::= atom atom*
//	atom        ::= '(' term ')' | ident | 'λ' ident+ '.' term
type Parser struct {
	tokens  []Token
	current int
	scope   *scopeStack
	report  Reporter
}

// NewParser returns a parser whose abstraction ids start at startID. Keep
// one parser per interpreter so ids stay unique across inputs.
func NewParser(report Reporter, startID int) *Parser {
	if report == nil {
		report = nopReporter{}
	}
	if startID < 1 {
		startID = 1
	}
	return &Parser{report: report, scope: newScopeStack(startID)}
}

func (p *Parser) SetTokens(tokens []Token) {
	p.tokens = tokens
	p.current = 0
	p.scope.reset()
}

// NextID is the id the next abstraction will receive.
func (p *Parser) NextID() int {
	return p.scope.next
}

// ParseTerm parses a single term followed only by newlines.
func (p *Parser) ParseTerm() (Term, error) {
	p.skipNewlines()
	if p.isAtEnd() {
		return nil, p.errorAt(p.peek(), "Expected expression")
	}
	t, err := p.parseLambdaTerm()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenNewline) {
		return nil, p.errorAt(p.peek(), fmt.Sprintf("Unexpected token '%s'", p.peek()))
	}
	p.skipNewlines()
	if !p.isAtEnd() {
		return nil, p.errorAt(p.peek(), fmt.Sprintf("Unexpected token '%s'", p.peek()))
	}
	if IsNonTerminating(t) {
		return nil, p.nonTerminating()
	}
	return t, nil
}

// Parse parses every statement. A malformed statement is reported, skipped up
// to the next newline, and parsing carries on.
func (p *Parser) Parse() ([]Stmt, []error) {
	var stmts []Stmt
	var errs []error
	for !p.Done() {
		st, err := p.Next()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if st != nil {
			stmts = append(stmts, st)
		}
	}
	return stmts, errs
}

// Done reports whether only newlines remain.
func (p *Parser) Done() bool {
	p.skipNewlines()
	return p.isAtEnd()
}

// Next parses one statement. It returns (nil, nil) at the end of input; on
// error the parser has already resynchronised past the next newline.
func (p *Parser) Next() (Stmt, error) {
	if p.Done() {
		return nil, nil
	}
	st, err := p.parseStatement()
	if err != nil {
		p.synchronize()
		return nil, err
	}
	return st, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	p.scope.reset()
	switch {
	case p.check(TokenIdent) && p.checkNext(TokenEquals):
		return p.parseBinding()
	case p.match(TokenEnv):
		if _, err := p.consume(TokenNewline, "Expected newline after env command"); err != nil {
			return nil, err
		}
		return &CommandStmt{Kind: CommandEnv}, nil
	case p.match(TokenHelp):
		if _, err := p.consume(TokenNewline, "Expected newline after help command"); err != nil {
			return nil, err
		}
		return &CommandStmt{Kind: CommandHelp}, nil
	case p.match(TokenUnbind):
		name, err := p.consume(TokenIdent, "Expected identifier after unbind")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TokenNewline, "Expected newline after unbind statement"); err != nil {
			return nil, err
		}
		return &CommandStmt{Kind: CommandUnbind, Arg: name.Lexeme}, nil
	}

	t, err := p.parseLambdaTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenNewline, "Expected newline after term"); err != nil {
		return nil, err
	}
	if IsNonTerminating(t) {
		return nil, p.nonTerminating()
	}
	return &TermStmt{Term: t}, nil
}

func (p *Parser) parseBinding() (Stmt, error) {
	name, err := p.consume(TokenIdent, "Expected identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenEquals, "Expected '=' after identifier"); err != nil {
		return nil, err
	}
	t, err := p.parseLambdaTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenNewline, "Expected newline after binding"); err != nil {
		return nil, err
	}
	return &BindingStmt{Name: name.Lexeme, Term: t}, nil
}

func (p *Parser) parseLambdaTerm() (Term, error) {
	if p.match(TokenLambda) {
		return p.parseAbstraction()
	}
	return p.parseApplication()
}

// parseAbstraction desugars λx y. e into λx. λy. e, giving each parameter a
// fresh id.
func (p *Parser) parseAbstraction() (Term, error) {
	first, err := p.consume(TokenIdent, "Expected identifier after lambda")
	if err != nil {
		return nil, err
	}
	params := []string{first.Lexeme}
	for p.check(TokenIdent) {
		params = append(params, p.advance().Lexeme)
	}
	if _, err := p.consume(TokenDot, "Expected '.' after lambda parameters"); err != nil {
		return nil, err
	}

	for _, name := range params {
		p.scope.push(name)
	}
	body, err := p.parseLambdaTerm()

	result := body
	for i := len(params) - 1; i >= 0; i-- {
		name := params[i]
		if err == nil {
			result = NewAbs(name, p.scope.get(name), result)
		}
		p.scope.pop(name)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Parser) parseApplication() (Term, error) {
	t, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.check(TokenLParen) || p.check(TokenIdent) || p.check(TokenLambda) {
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		t = NewApp(t, right)
	}
	return t, nil
}

func (p *Parser) parseAtom() (Term, error) {
	switch {
	case p.match(TokenLParen):
		t, err := p.parseLambdaTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TokenRParen, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return t, nil
	case p.match(TokenIdent):
		name := p.previous().Lexeme
		return NewVar(name, p.scope.get(name)), nil
	case p.match(TokenLambda):
		return p.parseAbstraction()
	}
	return nil, p.errorAt(p.peek(), "Expected expression")
}

func (p *Parser) match(typ TokenType) bool {
	if p.check(typ) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(typ TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == typ
}

func (p *Parser) checkNext(typ TokenType) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == typ
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) consume(typ TokenType, msg string) (Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(p.peek(), msg)
}

// synchronize skips past the next newline so the following statement can be
// parsed.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.advance().Type == TokenNewline {
			return
		}
	}
}

func (p *Parser) skipNewlines() {
	for p.match(TokenNewline) {
	}
}

func (p *Parser) isAtEnd() bool {
	return len(p.tokens) == 0 || p.peek().Type == TokenEOF
}

func (p *Parser) peek() Token {
	if len(p.tokens) == 0 {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.peek()
	}
	return p.tokens[p.current-1]
}

func (p *Parser) errorAt(tok Token, msg string) *ParseError {
	err := &ParseError{
		Line:   tok.Line,
		Col:    tok.Start,
		Length: tok.Length,
		AtEOF:  tok.Type == TokenEOF,
		Lexeme: tok.Lexeme,
		Msg:    msg,
	}
	p.report.ReportError(err)
	return err
}

func (p *Parser) nonTerminating() *ParseError {
	err := &ParseError{Msg: "Non-terminating expression detected. This would lead to infinite reduction."}
	p.report.ReportError(err)
	return err
}

// IsNonTerminating recognises the literal shape (λx. x x x) (λx. x x x).
// It is a usability guard only; plain Ω and friends are caught by the
// reducer's depth bound instead.
func IsNonTerminating(t Term) bool {
	app, ok := t.(*App)
	if !ok {
		return false
	}
	return isTripleSelfApply(app.Fun) && isTripleSelfApply(app.Arg)
}

func isTripleSelfApply(t Term) bool {
	abs, ok := t.(*Abs)
	if !ok {
		return false
	}
	bound := func(t Term) bool {
		v, ok := t.(*Var)
		return ok && v.ID == abs.ID
	}
	outer, ok := abs.Body.(*App)
	if !ok || !bound(outer.Arg) {
		return false
	}
	inner, ok := outer.Fun.(*App)
	return ok && bound(inner.Fun) && bound(inner.Arg)
}

// Parse lexes and parses a single term with a throwaway parser.
func Parse(input string) (Term, error) {
	l := NewLexer(input, nil)
	toks := l.Tokens()
	if errs := l.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	p := NewParser(nil, 1)
	p.SetTokens(toks)
	return p.ParseTerm()
}
