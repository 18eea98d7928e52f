package interp

import "fmt"

// Version is the interpreter's self-reported version string (spec §4.7
// `version`).
const Version = "0.1.0"

func installControlForms(root *Scope) {
	register(root, "recur", true, formRecur)
	register(root, "expand-macro", true, formExpandMacro)
	register(root, "err", true, formErr)
	register(root, "unwind-protect", true, formUnwindProtect)
	register(root, "get-error", true, formGetError)
	register(root, "command", true, formCommand)
	register(root, "form", true, formForm)
	register(root, "run-bg", true, formRunBg)
	register(root, "loose-symbols", true, formLooseSymbols)
	register(root, "no-expand", true, formNoExpand)
	register(root, "exit", true, formExit)
	register(root, "gensym", true, formGensym)
	register(root, "version", true, formVersion)
	register(root, "error-stack-on", true, formErrorStackOn)
	register(root, "error-stack-off", true, formErrorStackOff)
}

// formRecur evaluates its arguments and returns a recurSignal that
// applyLambda catches to re-bind and re-enter the body (spec §4.7
// `recur`). It is a runtime error outside a lambda.
func formRecur(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	if env.LambdaDepth == 0 {
		return Nil, errType("recur used outside of a lambda")
	}
	vals, err := args.EvalAll(ev, env)
	if err != nil {
		return Nil, err
	}
	return Nil, &recurSignal{args: vals}
}

// formExpandMacro performs macro expansion without the second evaluation
// (spec §4.3, for debugging).
func formExpandMacro(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	callExpr, ok := args.Next()
	if !ok {
		return Nil, errArity("expand-macro requires a macro call form")
	}
	if callExpr.Kind() != KindPair {
		return callExpr, nil
	}
	headExpr := callExpr.Pair().Car
	if headExpr.Kind() != KindSymbol {
		return Nil, errType("expand-macro requires a call headed by a symbol")
	}
	callee, ok := env.CurrentScope().Lookup(headExpr.Str())
	if !ok || callee.Kind() != KindMacro {
		return Nil, errType(headExpr.Str() + " does not name a macro")
	}
	return ev.expandMacro(env, callee.Macro(), NewArgIter(callExpr.Pair().Cdr))
}

// formErr raises a UserError carrying the (evaluated) message (spec §4.7
// `err`).
func formErr(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	vals, err := args.EvalAll(ev, env)
	if err != nil {
		return Nil, err
	}
	msg := ""
	if len(vals) > 0 {
		msg = vals[0].ToString()
	}
	return Nil, errUser(msg)
}

// formUnwindProtect evaluates its first form, then always evaluates the
// remaining cleanup forms — their errors are reported but never mask the
// protected form's result or error (spec §4.1 "Ordering & tie-breaks").
func formUnwindProtect(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	protected, ok := args.Next()
	if !ok {
		return Nil, errArity("unwind-protect requires a protected form")
	}
	cleanupForms := args.Rest()

	result, protErr := ev.Eval(env, protected)

	for _, form := range cleanupForms {
		if _, cleanupErr := ev.Eval(env, form); cleanupErr != nil {
			fmt.Println("unwind-protect cleanup error:", cleanupErr)
		}
	}

	return result, protErr
}

// formGetError evaluates each form; on the first error returns the
// two-element vector [:error message] instead of propagating (spec §4.7
// `get-error`).
func formGetError(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	result := Nil
	for {
		form, ok := args.Next()
		if !ok {
			return result, nil
		}
		var err error
		result, err = ev.Eval(env, form)
		if err != nil {
			if ee, ok := err.(*EvalError); ok {
				return ee.AsErrorVector(), nil
			}
			return VectorValue(NewVector([]Value{Symbol(":error"), String(err.Error())})), nil
		}
	}
}

// formCommand restricts its body to external commands only: under
// FormExternalOnly every symbol-headed call is run as an external command,
// even when the symbol has a Lisp binding. The previous FormType is
// restored on every exit path (spec §4.7).
func formCommand(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	return withFormType(ev, env, args, FormExternalOnly)
}

// formForm restricts its body to Lisp forms only (spec §4.7).
func formForm(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	return withFormType(ev, env, args, FormOnly)
}

func withFormType(ev *Evaluator, env *Environment, args *ArgIter, ft FormType) (Value, error) {
	prior := env.FormType
	env.FormType = ft
	defer func() { env.FormType = prior }()
	return formProgn(ev, env, args)
}

// formRunBg forces spawned commands into the background for the dynamic
// extent of body, restoring the previous value on exit (spec §4.7
// `run-bg`).
func formRunBg(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	prior := env.RunBackground
	env.RunBackground = true
	defer func() { env.RunBackground = prior }()
	return formProgn(ev, env, args)
}

// formLooseSymbols makes unbound symbols self-evaluate as strings for the
// body's dynamic extent (spec §4.7 `loose-symbols`).
func formLooseSymbols(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	prior := env.LooseSymbols
	env.LooseSymbols = true
	defer func() { env.LooseSymbols = prior }()
	return formProgn(ev, env, args)
}

// formNoExpand suppresses ~/$VAR expansion in external-command
// stringification for body's dynamic extent (SPEC_FULL.md supplemented
// feature, grounded on the original's str_ignore_expand).
func formNoExpand(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	prior := env.NoExpand
	env.NoExpand = true
	defer func() { env.NoExpand = prior }()
	return formProgn(ev, env, args)
}

// formExit sets the pending exit code and unwinds via ErrExitRequested
// (spec §6 "Exit codes").
func formExit(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	code := 0
	if expr, ok := args.Next(); ok {
		v, err := ev.Eval(env, expr)
		if err != nil {
			return Nil, err
		}
		code = int(v.Int())
	}
	c := code
	env.ExitCode = &c
	return Nil, &EvalError{Kind: ErrExitRequested, Message: "exit requested", ExitCode: code}
}

func formGensym(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	env.GensymCount++
	return Symbol(fmt.Sprintf("#:g%d", env.GensymCount)), nil
}

func formVersion(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	return String(Version), nil
}

func formErrorStackOn(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	env.StackOnError = true
	return Nil, nil
}

func formErrorStackOff(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	env.StackOnError = false
	return Nil, nil
}
