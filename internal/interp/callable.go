package interp

import "fmt"

// Lambda is created by the `fn` special form; it captures the innermost
// scope at creation time (spec §3 "Lifecycles"). Parameter binding is
// shared with Macro via bindParams (bind.go).
type Lambda struct {
	Params Value // parameter-list expression, see bind.go
	Body   Value // body expression, evaluated in a fresh child of Scope
	Scope  *Scope
	Name   string // best-effort name for stack traces, may be empty
}

// Macro is like a Lambda but captures no scope: its temporary evaluation
// scope is always rooted at the *caller's* current scope (spec §4.3).
type Macro struct {
	Params Value
	Body   Value
	Name   string
}

// BuiltinFunc is a native callable. Every builtin receives its argument
// expressions unevaluated through the same lazy ArgIter: special forms
// evaluate what they choose via Next/EvalNext/Rest, ordinary builtins
// evaluate all of them left to right via EvalAll. Dispatch stays uniform
// (spec §4.1 dispatch rule 3, DESIGN NOTES "special forms as first-class
// callables").
type BuiltinFunc func(ev *Evaluator, env *Environment, args *ArgIter) (Value, error)

// Builtin is the descriptor for a native callable. Special is the flag
// DESIGN NOTES recommends in place of a distinct callable kind.
type Builtin struct {
	Name    string
	Special bool // marks special forms; dispatch passes every Fn the same unevaluated ArgIter
	Fn      BuiltinFunc
}

func (b *Builtin) String() string { return fmt.Sprintf("(builtin %s)", b.Name) }

// ArgIter is a lazy iterator over a callable's argument expressions. It is
// built once per call and handed either to a special form (which evaluates
// what it chooses) or evaluated in full by ordinary builtins and lambdas.
type ArgIter struct {
	exprs []Value
	pos   int
}

func NewArgIter(list Value) *ArgIter {
	items, _ := ListToSlice(list)
	return &ArgIter{exprs: items}
}

// Len reports the number of remaining unevaluated expressions.
func (a *ArgIter) Len() int { return len(a.exprs) - a.pos }

// Next returns the next raw (unevaluated) argument expression.
func (a *ArgIter) Next() (Value, bool) {
	if a.pos >= len(a.exprs) {
		return Nil, false
	}
	v := a.exprs[a.pos]
	a.pos++
	return v, true
}

// Rest returns all remaining raw argument expressions.
func (a *ArgIter) Rest() []Value {
	rest := a.exprs[a.pos:]
	a.pos = len(a.exprs)
	return rest
}

// EvalNext evaluates and returns the next argument.
func (a *ArgIter) EvalNext(ev *Evaluator, env *Environment) (Value, bool, error) {
	raw, ok := a.Next()
	if !ok {
		return Nil, false, nil
	}
	v, err := ev.Eval(env, raw)
	return v, true, err
}

// EvalAll evaluates every remaining argument, left to right (spec §4.1
// "Ordering & tie-breaks").
func (a *ArgIter) EvalAll(ev *Evaluator, env *Environment) ([]Value, error) {
	out := make([]Value, 0, a.Len())
	for {
		raw, ok := a.Next()
		if !ok {
			break
		}
		v, err := ev.Eval(env, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
