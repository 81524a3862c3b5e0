package lambda

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLParen
	TokenRParen
	TokenLambda
	TokenDot
	TokenEquals
	TokenIdent
	TokenNewline
	TokenEnv
	TokenUnbind
	TokenHelp
	TokenError
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLambda:
		return "lambda"
	case TokenDot:
		return "'.'"
	case TokenEquals:
		return "'='"
	case TokenIdent:
		return "identifier"
	case TokenNewline:
		return "newline"
	case TokenEnv:
		return "env"
	case TokenUnbind:
		return "unbind"
	case TokenHelp:
		return "help"
	case TokenError:
		return "error"
	default:
		return "unknown"
	}
}

var keywords = map[string]TokenType{
	"lambda": TokenLambda,
	"env":    TokenEnv,
	"unbind": TokenUnbind,
	"help":   TokenHelp,
}

// Token is one lexeme with its 1-based line and start column.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Start  int
	Length int
}

func (t Token) String() string {
	if t.Type == TokenNewline {
		return "<newline>"
	}
	return t.Lexeme
}
