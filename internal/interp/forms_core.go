package interp

// forms_core.go implements the evaluation-shaped special forms of spec
// §4.7: eval, apply, fncall, if, progn, fn, macro, quote, bquote, and, or,
// not.

func installCoreForms(root *Scope) {
	register(root, "eval", true, formEval)
	register(root, "apply", true, formApply)
	register(root, "fncall", true, formFncall)
	register(root, "if", true, formIf)
	register(root, "progn", true, formProgn)
	register(root, "fn", true, formFn)
	register(root, "macro", true, formMacro)
	register(root, "quote", true, formQuote)
	register(root, "bquote", true, formBquote)
	register(root, "and", true, formAnd)
	register(root, "or", true, formOr)
	register(root, "not", true, formNot)
}

func register(root *Scope, name string, special bool, fn BuiltinFunc) {
	root.Set(name, BuiltinValue(&Builtin{Name: name, Special: special, Fn: fn}))
}

// formEval evaluates its (evaluated) argument as code: `(eval expr)` first
// evaluates expr to get a value, then evaluates that value again.
func formEval(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	vals, err := args.EvalAll(ev, env)
	if err != nil {
		return Nil, err
	}
	if len(vals) != 1 {
		return Nil, errArity("eval takes exactly one argument")
	}
	return ev.Eval(env, vals[0])
}

// formApply applies a callable to a spread argument list: `(apply fn a b
// args-list)` — middle arguments are passed positionally, the final
// argument must evaluate to a list and is spread.
func formApply(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	vals, err := args.EvalAll(ev, env)
	if err != nil {
		return Nil, err
	}
	if len(vals) < 2 {
		return Nil, errArity("apply takes a callable and at least one argument")
	}
	callee := vals[0]
	last := vals[len(vals)-1]
	spread, ok := ListToSlice(last)
	if !ok {
		return Nil, errType("apply's last argument must be a list")
	}
	callArgs := append(append([]Value(nil), vals[1:len(vals)-1]...), spread...)
	return callValue(ev, env, callee, callArgs)
}

// formFncall calls a callable value with positionally evaluated
// arguments: `(fncall fn a b c)`.
func formFncall(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	vals, err := args.EvalAll(ev, env)
	if err != nil {
		return Nil, err
	}
	if len(vals) < 1 {
		return Nil, errArity("fncall takes a callable")
	}
	return callValue(ev, env, vals[0], vals[1:])
}

// Call applies an already-evaluated callable to already-evaluated
// arguments. Exported so registry packages (internal/builtins) can invoke
// a user-supplied callable argument — e.g. `map`'s function argument —
// without hand-assembling a fncall expression.
func Call(ev *Evaluator, env *Environment, callee Value, argVals []Value) (Value, error) {
	return callValue(ev, env, callee, argVals)
}

// callValue applies an already-evaluated callable to already-evaluated
// arguments, used by apply/fncall (macros cannot be applied this way since
// they require unevaluated argument forms, spec §4.3).
func callValue(ev *Evaluator, env *Environment, callee Value, argVals []Value) (Value, error) {
	switch callee.Kind() {
	case KindBuiltin:
		iter := &ArgIter{exprs: wrapQuoted(argVals)}
		return callee.Builtin().Fn(ev, env, iter)
	case KindLambda:
		iter := &ArgIter{exprs: wrapQuoted(argVals)}
		return ev.applyLambda(env, callee.Lambda(), iter)
	default:
		return Nil, errNotCallable(callee)
	}
}

// wrapQuoted re-quotes already-evaluated values so the callee's own
// EvalAll (which expects unevaluated expressions) re-produces them
// unchanged — every Value kind other than Symbol/Pair is already
// self-evaluating, and quote shields the two that aren't.
func wrapQuoted(vals []Value) []Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		if v.Kind() == KindSymbol || v.Kind() == KindPair {
			out[i] = Cons(Symbol("quote"), Cons(v, Nil))
		} else {
			out[i] = v
		}
	}
	return out
}

// formIf implements `(if cond then else?)`; only Nil is false (spec
// §4.1 "Truthiness").
func formIf(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	condExpr, ok := args.Next()
	if !ok {
		return Nil, errArity("if requires a condition")
	}
	cond, err := ev.Eval(env, condExpr)
	if err != nil {
		return Nil, err
	}
	thenExpr, ok := args.Next()
	if !ok {
		return Nil, errArity("if requires a then branch")
	}
	elseExpr, hasElse := args.Next()
	if cond.IsTrue() {
		return ev.Eval(env, thenExpr)
	}
	if hasElse {
		return ev.Eval(env, elseExpr)
	}
	return Nil, nil
}

// formProgn evaluates each form in sequence, returning the last value;
// an error in any form aborts (spec §4.1 "Ordering & tie-breaks").
func formProgn(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	result := Nil
	for {
		form, ok := args.Next()
		if !ok {
			return result, nil
		}
		var err error
		result, err = ev.Eval(env, form)
		if err != nil {
			return Nil, err
		}
	}
}

// formFn creates a Lambda capturing the current innermost scope (spec
// §3 "Lifecycles").
func formFn(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	params, ok := args.Next()
	if !ok {
		return Nil, errArity("fn requires a parameter list")
	}
	body := SliceToList(append([]Value{Symbol("progn")}, args.Rest()...))
	return LambdaValue(&Lambda{Params: params, Body: body, Scope: env.CurrentScope()}), nil
}

// formMacro creates a Macro: same shape as fn but captures no scope
// (spec §4.3).
func formMacro(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	params, ok := args.Next()
	if !ok {
		return Nil, errArity("macro requires a parameter list")
	}
	body := SliceToList(append([]Value{Symbol("progn")}, args.Rest()...))
	return MacroValue(&Macro{Params: params, Body: body}), nil
}

// formQuote returns its single argument unevaluated (spec §4.3).
func formQuote(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	v, ok := args.Next()
	if !ok || args.Len() != 0 {
		return Nil, errArity("quote requires exactly one argument")
	}
	return v, nil
}

// formBquote is quasiquote (spec §4.3).
func formBquote(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	v, ok := args.Next()
	if !ok {
		return Nil, errArity("bquote requires exactly one argument")
	}
	return ev.quasiquote(env, v)
}

// formAnd short-circuits on the first Nil; otherwise returns the last
// value (True for zero arguments, spec §4.1 and §8).
func formAnd(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	result := True
	for {
		form, ok := args.Next()
		if !ok {
			return result, nil
		}
		var err error
		result, err = ev.Eval(env, form)
		if err != nil {
			return Nil, err
		}
		if !result.IsTrue() {
			return Nil, nil
		}
	}
}

// formOr returns the first non-Nil value, else Nil (spec §4.1, §8).
func formOr(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	for {
		form, ok := args.Next()
		if !ok {
			return Nil, nil
		}
		v, err := ev.Eval(env, form)
		if err != nil {
			return Nil, err
		}
		if v.IsTrue() {
			return v, nil
		}
	}
}

func formNot(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	v, ok := args.Next()
	if !ok {
		return Nil, errArity("not requires exactly one argument")
	}
	res, err := ev.Eval(env, v)
	if err != nil {
		return Nil, err
	}
	return FromBool(!res.IsTrue()), nil
}
