// Package interp implements the evaluation core of spec §2: the value
// model, scope graph, per-interpreter environment, tree-walking evaluator,
// macro expander, and the Lisp/process integration boundary. Kept as one
// package — mirroring the teacher's (breadchris-yaegi) choice to keep
// node/frame/scope/Interpreter together in a single `interp` package
// rather than splitting tightly coupled pieces across packages and fighting
// import cycles between the value model and the scope graph that closures
// capture.
package interp

import "fmt"

// Evaluator is the stateless (beyond eval_level bookkeeping is on
// Environment) dispatcher of spec §4.1. Its fields are a StdlibProvider
// for `load`'s embedded-source fallback and a Reader for `load`'s parsing
// (spec §4.6); the
// actual mutable interpreter state lives entirely on the *Environment
// passed to every call, the way the teacher threads *frame through every
// CFG-execution function rather than hanging state off the dispatcher.
type Evaluator struct {
	Stdlib StdlibProvider
	Reader Reader
}

// StdlibProvider resolves a basename to embedded standard-library source
// text (spec §4.6 step 2). internal/builtins implements this against its
// go:embed'd .lisp files; kept as an interface here so the evaluation core
// never imports the builtin registry package (which imports interp, not
// the other way around).
type StdlibProvider interface {
	Lookup(basename string) (string, bool)
}

// Reader parses source text into a sequence of top-level expressions
// (spec §4.6 step 3). internal/reader implements this; kept as an
// interface for the same reason as StdlibProvider — the tokenizer/reader
// is an out-of-scope "external collaborator" (spec §1) that the core only
// consumes through this seam.
type Reader interface {
	Parse(src string) ([]Value, error)
}

func NewEvaluator(stdlib StdlibProvider, reader Reader) *Evaluator {
	return &Evaluator{Stdlib: stdlib, Reader: reader}
}

// Eval is the total eval(env, expr) -> value | error contract of spec
// §4.1. It increments eval_level on entry and decrements it on every exit
// path.
func (ev *Evaluator) Eval(env *Environment, expr Value) (Value, error) {
	env.EvalLevel++
	defer func() { env.EvalLevel-- }()

	if err := env.CheckInterrupt(); err != nil {
		return Nil, err
	}

	switch expr.Kind() {
	case KindNil, KindTrue, KindInt, KindFloat, KindString,
		KindLambda, KindMacro, KindHashMap, KindBuiltin, KindFile, KindProcess:
		return expr, nil // dispatch rule 1
	case KindSymbol:
		return ev.evalSymbol(env, expr)
	case KindVector:
		// A vector literal evaluates to itself; only pair-chain lists (or,
		// equivalently, a head symbol/expression with list tail) are treated
		// as calls (spec §4.1 rule 3 speaks of "a list or proper pair-chain").
		return expr, nil
	case KindPair:
		return ev.evalCall(env, expr)
	default:
		return Nil, &EvalError{Kind: ErrNotCallable, Message: fmt.Sprintf("cannot evaluate %s", expr)}
	}
}

func (ev *Evaluator) evalSymbol(env *Environment, sym Value) (Value, error) {
	name := sym.Str()

	if len(name) > 0 && name[0] == '$' {
		v, ok := lookupProcessEnv(name[1:])
		if !ok {
			if env.LooseSymbols {
				return Nil, nil
			}
			return String(""), nil
		}
		return String(v), nil
	}

	if v, ok := env.DynamicScope[name]; ok {
		return v, nil
	}

	if v, ok := resolveNamespaced(env, name); ok {
		return dereferenceVariableLike(v), nil
	}

	if v, ok := env.CurrentScope().Lookup(name); ok {
		return dereferenceVariableLike(v), nil
	}

	if env.LooseSymbols {
		return String(name), nil
	}
	return Nil, errUnbound(name)
}

// dereferenceVariableLike implements spec §4.1 rule 2's parenthetical:
// "If found and the value is a callable with arity zero that is marked as
// a variable-like binding, return the binding itself (not the call)." Our
// Builtin descriptor has no notion of arity-zero auto-invocation — bare
// symbol lookup never calls anything in this design, so this is the
// identity function; it is the single place where a variable-like
// zero-arity builtin would get special treatment.
func dereferenceVariableLike(v Value) Value { return v }

// resolveNamespaced looks up name, splitting on the first "::" into
// ns::name and resolving within that namespace's scope (spec §4.1 rule 2).
func resolveNamespaced(env *Environment, name string) (Value, bool) {
	ns, rest, ok := splitNamespace(name)
	if !ok {
		return Nil, false
	}
	scope, ok := env.Namespaces[ns]
	if !ok {
		return Nil, false
	}
	return scope.Lookup(rest)
}

func splitNamespace(name string) (ns, rest string, ok bool) {
	for i := 0; i+1 < len(name); i++ {
		if name[i] == ':' && name[i+1] == ':' {
			return name[:i], name[i+2:], true
		}
	}
	return "", "", false
}

// evalCall dispatches a pair-chain-headed form: evaluate the head,
// dispatch on its kind (spec §4.1 rule 3).
func (ev *Evaluator) evalCall(env *Environment, expr Value) (Value, error) {
	head := expr.Pair().Car
	rawArgs := expr.Pair().Cdr

	var callee Value
	headName := ""
	foundCallee := false
	if head.Kind() == KindSymbol {
		headName = head.Str()
		if env.FormType == FormExternalOnly {
			res, err := ev.runExternalSymbol(env, headName, NewArgIter(rawArgs))
			return res, wrapStack(env, err, headName)
		}
		if v, ok := env.DynamicScope[headName]; ok {
			callee, foundCallee = v, true
		} else if v, ok := resolveNamespaced(env, headName); ok {
			callee, foundCallee = v, true
		} else if v, ok := env.CurrentScope().Lookup(headName); ok {
			callee, foundCallee = v, true
		}
		if !foundCallee {
			if env.FormType == FormOnly {
				return Nil, wrapStack(env, errUnbound(headName), headName)
			}
			args := NewArgIter(rawArgs)
			res, err := ev.runExternalSymbol(env, headName, args)
			return res, wrapStack(env, err, headName)
		}
	} else {
		var err error
		callee, err = ev.Eval(env, head)
		if err != nil {
			return Nil, wrapStack(env, err, headName)
		}
		foundCallee = true
	}
	_ = foundCallee

	args := NewArgIter(rawArgs)

	switch callee.Kind() {
	case KindBuiltin:
		b := callee.Builtin()
		res, err := b.Fn(ev, env, args)
		return res, wrapStack(env, err, b.Name)
	case KindMacro:
		expanded, err := ev.expandMacro(env, callee.Macro(), args)
		if err != nil {
			return Nil, wrapStack(env, err, headName)
		}
		res, err := ev.Eval(env, expanded)
		return res, wrapStack(env, err, headName)
	case KindLambda:
		res, err := ev.applyLambda(env, callee.Lambda(), args)
		return res, wrapStack(env, err, headName)
	default:
		return Nil, errNotCallable(callee)
	}
}

func wrapStack(env *Environment, err error, head string) error {
	if err == nil || !env.StackOnError {
		return err
	}
	if ee, ok := err.(*EvalError); ok {
		return ee.Unwind(head)
	}
	return err
}
