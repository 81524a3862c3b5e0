package lambda

import "fmt"

// MaxTransformDepth bounds the nesting Transform will follow before giving up.
const MaxTransformDepth = 1000

// TransformFuncs holds the per-variant callbacks of a post-order fold.
type TransformFuncs[T any] struct {
	Abs func(a *Abs, body T) T
	App func(a *App, fun, arg T) T
	Var func(v *Var) T
}

// Transform folds t bottom-up. The depth is carried through the recursion
// rather than kept in shared state, so concurrent folds never interfere.
func Transform[T any](t Term, funcs TransformFuncs[T]) (T, error) {
	return transform(t, funcs, 0)
}

func transform[T any](t Term, funcs TransformFuncs[T], depth int) (T, error) {
	var zero T
	if depth > MaxTransformDepth {
		return zero, &TransformError{Msg: "maximum transform depth exceeded - possible infinite recursion"}
	}
	switch n := t.(type) {
	case *Abs:
		body, err := transform(n.Body, funcs, depth+1)
		if err != nil {
			return zero, err
		}
		return funcs.Abs(n, body), nil
	case *App:
		fun, err := transform(n.Fun, funcs, depth+1)
		if err != nil {
			return zero, err
		}
		arg, err := transform(n.Arg, funcs, depth+1)
		if err != nil {
			return zero, err
		}
		return funcs.App(n, fun, arg), nil
	case *Var:
		return funcs.Var(n), nil
	default:
		return zero, &TransformError{Msg: fmt.Sprintf("unknown term type %T", t)}
	}
}

// TraverseFuncs holds optional visitors; nil entries are skipped.
type TraverseFuncs struct {
	Abs func(*Abs)
	App func(*App)
	Var func(*Var)
}

// Traverse visits every node of t in post-order.
func Traverse(t Term, funcs TraverseFuncs) error {
	_, err := Transform(t, TransformFuncs[struct{}]{
		Abs: func(a *Abs, _ struct{}) struct{} {
			if funcs.Abs != nil {
				funcs.Abs(a)
			}
			return struct{}{}
		},
		App: func(a *App, _, _ struct{}) struct{} {
			if funcs.App != nil {
				funcs.App(a)
			}
			return struct{}{}
		},
		Var: func(v *Var) struct{} {
			if funcs.Var != nil {
				funcs.Var(v)
			}
			return struct{}{}
		},
	})
	return err
}

// BoundVars returns every bound variable occurrence in t.
func BoundVars(t Term) []*Var {
	var vars []*Var
	walkNodes(t, func(n Term) bool {
		if v, ok := n.(*Var); ok && !v.IsFree() {
			vars = append(vars, v)
		}
		return true
	})
	return vars
}

// BoundVarNames returns the set of names of bound occurrences in t.
func BoundVarNames(t Term) map[string]struct{} {
	names := make(map[string]struct{})
	for _, v := range BoundVars(t) {
		names[v.Name] = struct{}{}
	}
	return names
}

// VarNames returns every name used in t: variables (bound and free) and
// binders alike.
func VarNames(t Term) []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	walkNodes(t, func(n Term) bool {
		switch x := n.(type) {
		case *Var:
			add(x.Name)
		case *Abs:
			add(x.Name)
		}
		return true
	})
	return names
}

// FreeVars returns the free variable occurrences in t, left to right.
func FreeVars(t Term) []*Var {
	var vars []*Var
	walkNodes(t, func(n Term) bool {
		if v, ok := n.(*Var); ok && v.IsFree() {
			vars = append(vars, v)
		}
		return true
	})
	return vars
}

// Binders returns the abstractions nested in t, outermost first, including t
// itself when it is an abstraction.
func Binders(t Term) []*Abs {
	var out []*Abs
	walkNodes(t, func(n Term) bool {
		if a, ok := n.(*Abs); ok {
			out = append(out, a)
		}
		return true
	})
	return out
}

// walkNodes is a pre-order walk without a depth bound. visit returning false
// skips the node's children.
func walkNodes(t Term, visit func(Term) bool) {
	if t == nil || !visit(t) {
		return
	}
	switch n := t.(type) {
	case *Abs:
		walkNodes(n.Body, visit)
	case *App:
		walkNodes(n.Fun, visit)
		walkNodes(n.Arg, visit)
	}
}
