package lambda

import (
	"fmt"
	"strings"
)

// Term represents a lambda calculus term.
//
// The variant set is closed: only *Var, *Abs and *App implement it.
// Every node keeps a non-owning link to its parent so reduction can find
// the slot a subterm occupies.
type Term interface {
	fmt.Stringer
	Parent() Term
	setParent(Term)
	term()
}

// Var represents a variable usage. ID is 0 for free variables, otherwise the
// ID of the binding abstraction.
type Var struct {
	Name string
	ID   int

	parent      Term
	freeRenamed bool
}

// Abs represents an abstraction (lambda).
type Abs struct {
	Name string
	ID   int
	Body Term

	parent Term
}

// App represents an application.
type App struct {
	Fun Term
	Arg Term

	parent Term
}

func NewVar(name string, id int) *Var {
	return &Var{Name: name, ID: id}
}

func NewAbs(name string, id int, body Term) *Abs {
	a := &Abs{Name: name, ID: id}
	a.SetBody(body)
	return a
}

func NewApp(fun, arg Term) *App {
	a := &App{}
	a.SetFun(fun)
	a.SetArg(arg)
	return a
}

func (*Var) term() {}
func (*Abs) term() {}
func (*App) term() {}

func (v *Var) Parent() Term { return v.parent }
func (a *Abs) Parent() Term { return a.parent }
func (a *App) Parent() Term { return a.parent }

func (v *Var) setParent(p Term) { v.parent = p }
func (a *Abs) setParent(p Term) { a.parent = p }
func (a *App) setParent(p Term) { a.parent = p }

// IsFree reports whether the variable is not bound by any abstraction.
func (v *Var) IsFree() bool { return v.ID == 0 }

// FreeRenamed reports whether the reducer already gave this free variable a
// fresh name.
func (v *Var) FreeRenamed() bool { return v.freeRenamed }

func (v *Var) renameFree(name string) {
	v.Name = name
	v.freeRenamed = true
}

// ParentAbstraction walks up the tree and returns the abstraction that binds
// v, or nil when v is free or detached from its binder.
func (v *Var) ParentAbstraction() *Abs {
	if v.IsFree() {
		return nil
	}
	for cur := v.parent; cur != nil; cur = cur.Parent() {
		if abs, ok := cur.(*Abs); ok && abs.ID == v.ID {
			return abs
		}
	}
	return nil
}

func (a *Abs) SetBody(body Term) {
	a.Body = body
	if body != nil {
		body.setParent(a)
	}
}

func (a *App) SetFun(fun Term) {
	a.Fun = fun
	if fun != nil {
		fun.setParent(a)
	}
}

func (a *App) SetArg(arg Term) {
	a.Arg = arg
	if arg != nil {
		arg.setParent(a)
	}
}

// Rename α-renames the binder and every occurrence it binds to the given name
// and id. Nested binders sharing the old id shadow it and are left alone.
func (a *Abs) Rename(name string, id int) {
	old := a.ID
	a.Name, a.ID = name, id
	var walk func(Term)
	walk = func(t Term) {
		switch n := t.(type) {
		case *Var:
			if n.ID == old {
				n.Name, n.ID = name, id
			}
		case *Abs:
			if n.ID == old {
				return
			}
			walk(n.Body)
		case *App:
			walk(n.Fun)
			walk(n.Arg)
		}
	}
	walk(a.Body)
}

func (v *Var) String() string {
	return v.Name
}

func (a *Abs) String() string {
	var b strings.Builder
	writeTerm(&b, a)
	return b.String()
}

func (a *App) String() string {
	var b strings.Builder
	writeTerm(&b, a)
	return b.String()
}

func writeTerm(b *strings.Builder, t Term) {
	switch n := t.(type) {
	case *Var:
		b.WriteString(n.Name)
	case *Abs:
		b.WriteString("(λ")
		b.WriteString(n.Name)
		b.WriteString(". ")
		writeTerm(b, n.Body)
		b.WriteByte(')')
	case *App:
		b.WriteByte('(')
		writeTerm(b, n.Fun)
		b.WriteByte(' ')
		writeTerm(b, n.Arg)
		b.WriteByte(')')
	case nil:
		b.WriteString("<nil>")
	default:
		panic(fmt.Sprintf("unknown term type %T", t))
	}
}

// Stringify renders t, tolerating a nil term.
func Stringify(t Term) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Clone returns a deep, independent copy of t. Names, ids and free-rename
// marks are preserved; the copy has no parent.
func Clone(t Term) Term {
	switch n := t.(type) {
	case *Var:
		return &Var{Name: n.Name, ID: n.ID, freeRenamed: n.freeRenamed}
	case *Abs:
		return NewAbs(n.Name, n.ID, Clone(n.Body))
	case *App:
		return NewApp(Clone(n.Fun), Clone(n.Arg))
	case nil:
		return nil
	default:
		panic(fmt.Sprintf("unknown term type %T", t))
	}
}

// replaceInParent puts repl in the slot old occupies under its parent. When
// old is a root, repl is detached and returned as the new root.
func replaceInParent(old, repl Term) (root bool) {
	switch p := old.Parent().(type) {
	case *Abs:
		p.SetBody(repl)
	case *App:
		if p.Fun == old {
			p.SetFun(repl)
		} else {
			p.SetArg(repl)
		}
	case nil:
		repl.setParent(nil)
		return true
	}
	return false
}
