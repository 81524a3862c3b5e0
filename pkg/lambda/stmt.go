package lambda

// Stmt is one top-level line of input: a term, a binding or a command.
type Stmt interface {
	stmt()
}

type TermStmt struct {
	Term Term
}

// BindingStmt is `name = term`.
type BindingStmt struct {
	Name string
	Term Term
}

type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandEnv
	CommandUnbind
	CommandHelp
)

func (k CommandKind) String() string {
	switch k {
	case CommandEnv:
		return "env"
	case CommandUnbind:
		return "unbind"
	case CommandHelp:
		return "help"
	default:
		return "none"
	}
}

// CommandStmt is `env`, `help` or `unbind <name>`; Arg holds the name.
type CommandStmt struct {
	Kind CommandKind
	Arg  string
}

func (*TermStmt) stmt()    {}
func (*BindingStmt) stmt() {}
func (*CommandStmt) stmt() {}
