package lambda

// DefaultMaxDepth bounds recursion in the resolver and the reducer.
const DefaultMaxDepth = 1000

// Resolver performs δ-expansion: free variables naming a binding are replaced
// by a fresh clone of its term, recursively.
type Resolver struct {
	bindings map[string]Term
	tracer   Tracer
	maxDepth int

	expanded   bool
	expansions int
}

// NewResolver returns a resolver over bindings. The map is read, never
// written.
func NewResolver(bindings map[string]Term, tracer Tracer) *Resolver {
	if tracer == nil {
		tracer = nopTracer{}
	}
	return &Resolver{bindings: bindings, tracer: tracer, maxDepth: DefaultMaxDepth}
}

// SetMaxDepth changes the nesting bound; values below 1 restore the default.
func (r *Resolver) SetMaxDepth(depth int) {
	if depth < 1 {
		depth = DefaultMaxDepth
	}
	r.maxDepth = depth
}

// Expansions is the number of δ-expansions done by the last Resolve.
func (r *Resolver) Expansions() int {
	return r.expansions
}

// Resolve expands t in place and returns the resulting root. A binding that
// refers to itself recurses until the depth bound returns a
// *RecursionDepthError.
func (r *Resolver) Resolve(t Term) (Term, error) {
	r.expanded = false
	r.expansions = 0

	out, err := r.resolve(t, 0)
	if err != nil {
		if de, ok := err.(*RecursionDepthError); ok {
			de.Partial = t
		}
		return nil, err
	}
	if r.expanded {
		r.tracer.DeltaSummary(out.String())
	}
	return out, nil
}

func (r *Resolver) resolve(t Term, depth int) (Term, error) {
	if depth > r.maxDepth {
		return nil, &RecursionDepthError{Term: Stringify(t), Depth: depth}
	}
	switch n := t.(type) {
	case *Abs:
		body, err := r.resolve(n.Body, depth+1)
		if err != nil {
			return nil, err
		}
		n.SetBody(body)
		return n, nil
	case *App:
		fun, err := r.resolve(n.Fun, depth+1)
		if err != nil {
			return nil, err
		}
		n.SetFun(fun)
		arg, err := r.resolve(n.Arg, depth+1)
		if err != nil {
			return nil, err
		}
		n.SetArg(arg)
		return n, nil
	case *Var:
		if !n.IsFree() {
			return n, nil
		}
		binding, ok := r.bindings[n.Name]
		if !ok {
			return n, nil
		}
		r.tracer.DeltaExpansion(n.Name, binding.String())
		debugf("resolve: expanding %q at depth %d\n", n.Name, depth)
		r.expanded = true
		r.expansions++
		return r.resolve(Clone(binding), depth+1)
	default:
		return nil, &TransformError{Msg: "unknown term type"}
	}
}
