package interpreter

// builtin is a definition loaded at startup; every name in names is bound to
// the same parsed term.
type builtin struct {
	names []string
	src   string
}

var builtins = []builtin{
	// Logic
	{[]string{"true"}, "(λt. (λf. t))"},
	{[]string{"false"}, "(λt. (λf. f))"},
	{[]string{"and"}, "(λa. (λb. ((a b) a)))"},
	{[]string{"or"}, "(λa. (λb. ((a a) b)))"},
	{[]string{"not"}, "(λb. ((b false) true))"},
	{[]string{"if"}, "(λp. (λa. (λb. ((p a) b))))"},

	// Lists
	{[]string{"pair", "cons"}, "(λx. (λy. (λf. ((f x) y))))"},
	{[]string{"first", "car"}, "(λp. (p true))"},
	{[]string{"second", "cdr"}, "(λp. (p false))"},
	{[]string{"nil", "empty"}, "(λx. true)"},
	{[]string{"null", "isempty"}, "(λp. (p (λx. (λy. false))))"},

	// Trees
	{[]string{"tree"}, "(λd. (λl. (λr. ((pair d) ((pair l) r)))))"},
	{[]string{"datum"}, "(λt. (first t))"},
	{[]string{"left"}, "(λt. (first (second t)))"},
	{[]string{"right"}, "(λt. (second (second t)))"},

	// Arithmetic
	{[]string{"zero"}, "(λf. (λx. x))"},
	{[]string{"one"}, "(λf. (λx. (f x)))"},
	{[]string{"two"}, "(λf. (λx. (f (f x))))"},
	{[]string{"three"}, "(λf. (λx. (f (f (f x)))))"},
	{[]string{"four"}, "(λf. (λx. (f (f (f (f x))))))"},
	{[]string{"five"}, "(λf. (λx. (f (f (f (f (f x)))))))"},
	{[]string{"incr"}, "(λn. (λf. (λy. (f ((n f) y)))))"},
	{[]string{"plus"}, "(λm. (λn. ((m incr) n)))"},
	{[]string{"times"}, "(λm. (λn. ((m (plus n)) zero)))"},
	{[]string{"iszero"}, "(λn. ((n (λy. false)) true))"},
}

const helpText = `Available commands:
env               - Show current environment
unbind <name>     - Remove binding
help              - Show this help

Statements:
name = term       - Bind a name to a term
term              - Reduce a term to normal form

Examples:
\x. x             - Identity function
(\x. x) y         - Application
\t. \f. t         - Church true
\t. \f. f         - Church false
plus two three    - Church arithmetic

Built-in terms:
true, false, and, or, not, if
pair/cons, first/car, second/cdr, nil/empty, null/isempty
tree, datum, left, right
zero .. five, incr, plus, times, iszero`
