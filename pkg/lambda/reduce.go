package lambda

import (
	"fmt"

	"github.com/samber/lo"
)

type ReducerOptions struct {
	// RenameFreeVars gives every free variable a fresh X`<n> name, once.
	RenameFreeVars bool
	// MaxDepth bounds the reduction nesting; 0 means DefaultMaxDepth.
	MaxDepth int
}

// ReducerStats counts the steps taken by a Reducer.
type ReducerStats struct {
	BetaReductions uint64
	AlphaRenames   uint64
	FreeRenames    uint64
}

// Reducer reduces terms to normal form: function and argument are normalised
// first, then a β-step fires if the function is an abstraction, and the
// result is reduced again.
type Reducer struct {
	opts   ReducerOptions
	tracer Tracer

	root      Term
	names     int
	freeNames int
	nextID    int
	stats     ReducerStats
}

func NewReducer(opts ReducerOptions, tracer Tracer) *Reducer {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if tracer == nil {
		tracer = nopTracer{}
	}
	return &Reducer{opts: opts, tracer: tracer}
}

func (r *Reducer) Stats() ReducerStats {
	return r.stats
}

// Reduce returns the normal form of a clone of t; t itself is untouched.
func (r *Reducer) Reduce(t Term) (Term, error) {
	r.root = Clone(t)
	out, err := r.reduce(r.root, 0)
	if err != nil {
		if de, ok := err.(*RecursionDepthError); ok {
			de.Partial = r.root
		}
		return nil, err
	}
	return out, nil
}

func (r *Reducer) reduce(t Term, depth int) (Term, error) {
	if depth > r.opts.MaxDepth {
		return nil, &RecursionDepthError{Term: Stringify(t), Depth: depth}
	}
	switch n := t.(type) {
	case *Abs:
		body, err := r.reduce(n.Body, depth+1)
		if err != nil {
			return nil, err
		}
		n.SetBody(body)
		return n, nil
	case *App:
		return r.reduceApp(n, depth)
	case *Var:
		r.renameFree(n)
		return n, nil
	default:
		return nil, &TransformError{Msg: fmt.Sprintf("unknown term type %T", t)}
	}
}

func (r *Reducer) reduceApp(app *App, depth int) (Term, error) {
	fun, err := r.reduce(app.Fun, depth+1)
	if err != nil {
		return nil, err
	}
	app.SetFun(fun)

	arg, err := r.reduce(app.Arg, depth+1)
	if err != nil {
		return nil, err
	}
	app.SetArg(arg)

	abs, ok := fun.(*Abs)
	if !ok {
		return app, nil
	}

	r.avoidCapture(abs, arg)

	detail := fmt.Sprintf("Beta reducing '%s' into '%s'", arg, abs)
	debugf("reduce: %s at depth %d\n", detail, depth)
	reduct := substitute(abs.Body, abs.ID, arg)
	if replaceInParent(app, reduct) {
		r.root = reduct
	}
	r.stats.BetaReductions++
	r.tracer.Beta(r.root.String(), detail)

	return r.reduce(reduct, depth+1)
}

// avoidCapture α-renames every binder inside abs's body whose name also
// occurs in arg. Renamed binders get a fresh name and a fresh id, so neither
// names nor ids can be captured once arg is substituted.
func (r *Reducer) avoidCapture(abs *Abs, arg Term) {
	argNames := VarNames(arg)
	conflicts := lo.Filter(Binders(abs.Body), func(b *Abs, _ int) bool {
		return lo.Contains(argNames, b.Name)
	})
	for _, b := range conflicts {
		before := b.String()
		oldName := b.Name
		name := r.genName()
		b.Rename(name, r.genID())
		r.stats.AlphaRenames++
		r.tracer.Alpha(r.root.String(), fmt.Sprintf("Alpha reducing '%s' with name '%s' (was '%s')", before, name, oldName))
	}
}

func (r *Reducer) renameFree(v *Var) {
	if !r.opts.RenameFreeVars || !v.IsFree() || v.FreeRenamed() {
		return
	}
	name := fmt.Sprintf("X`%d", r.freeNames)
	r.freeNames++
	old := v.Name
	v.renameFree(name)
	r.stats.FreeRenames++
	r.tracer.FreeRename(old, name)
}

func (r *Reducer) genName() string {
	name := fmt.Sprintf("X%d", r.names)
	r.names++
	return name
}

// genID hands out negative ids, which can never clash with the positive ids
// assigned by the parser.
func (r *Reducer) genID() int {
	r.nextID--
	return r.nextID
}

// substitute replaces every variable bound to id in t with a fresh clone of
// arg. A nested binder with the same id is a copy that shadows it.
func substitute(t Term, id int, arg Term) Term {
	switch n := t.(type) {
	case *Var:
		if n.ID == id {
			return Clone(arg)
		}
		return n
	case *Abs:
		if n.ID == id {
			return n
		}
		n.SetBody(substitute(n.Body, id, arg))
		return n
	case *App:
		n.SetFun(substitute(n.Fun, id, arg))
		n.SetArg(substitute(n.Arg, id, arg))
		return n
	default:
		return t
	}
}

// Reduce normalises t with a default reducer.
func Reduce(t Term) (Term, error) {
	return NewReducer(ReducerOptions{}, nil).Reduce(t)
}
