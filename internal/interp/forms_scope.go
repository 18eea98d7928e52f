package interp

import "os"

// forms_scope.go implements spec §4.4 scope/namespace operations plus the
// closely related def?/global-scope?/to-symbol forms from §4.7.

func installScopeForms(root *Scope) {
	register(root, "def", true, formDef)
	register(root, "set", true, formSet)
	register(root, "undef", true, formUndef)
	register(root, "dyn", true, formDyn)
	register(root, "export", true, formExport)
	register(root, "unexport", true, formUnexport)
	register(root, "ns-create", true, formNsCreate)
	register(root, "ns-enter", true, formNsEnter)
	register(root, "ns-exists?", true, formNsExists)
	register(root, "ns-list", true, formNsList)
	register(root, "def?", true, formDefP)
	register(root, "global-scope?", true, formGlobalScopeP)
	register(root, "to-symbol", true, formToSymbol)
}

// formDef inserts s->v in the innermost lexical scope, or — if s contains
// "::" — into the named ancestor namespace (spec §4.4 `def`).
func formDef(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	symExpr, ok := args.Next()
	if !ok {
		return Nil, errArity("def requires a symbol")
	}
	if symExpr.Kind() != KindSymbol {
		return Nil, errType("def requires a symbol")
	}
	name := symExpr.Str()
	valExpr, ok := args.Next()
	if !ok {
		return Nil, errArity("def requires a value")
	}
	v, err := ev.Eval(env, valExpr)
	if err != nil {
		return Nil, err
	}

	ns, rest, hasNs := splitNamespace(name)
	if !hasNs {
		env.CurrentScope().Set(name, v)
		return v, nil
	}

	target, ok := env.Namespaces[ns]
	if !ok || !isAncestorNamespace(env, target) {
		return Nil, errNamespace("namespace is not an ancestor of the current scope: " + ns)
	}
	target.Set(rest, v)
	return v, nil
}

// isAncestorNamespace reports whether ns is reachable by walking parent
// pointers from the current scope (spec §4.4 `def` error condition).
func isAncestorNamespace(env *Environment, ns *Scope) bool {
	for cur := env.CurrentScope(); cur != nil; cur = cur.Parent() {
		if cur == ns {
			return true
		}
	}
	return ns == env.Root
}

// formSet writes to an existing binding: dynamic scope first, else the
// nearest lexical scope containing the symbol (spec §4.4 `set`).
func formSet(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	symExpr, ok := args.Next()
	if !ok {
		return Nil, errArity("set requires a symbol")
	}
	if symExpr.Kind() != KindSymbol {
		return Nil, errType("set requires a symbol")
	}
	name := symExpr.Str()
	valExpr, ok := args.Next()
	if !ok {
		return Nil, errArity("set requires a value")
	}
	v, err := ev.Eval(env, valExpr)
	if err != nil {
		return Nil, err
	}
	if _, ok := env.DynamicScope[name]; ok {
		env.DynamicScope[name] = v
		return v, nil
	}
	if env.CurrentScope().SetExisting(name, v) {
		return v, nil
	}
	return Nil, errUnbound(name)
}

// formUndef removes a symbol from the innermost lexical scope.
func formUndef(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	symExpr, ok := args.Next()
	if !ok || symExpr.Kind() != KindSymbol {
		return Nil, errType("undef requires a symbol")
	}
	env.CurrentScope().Delete(symExpr.Str())
	return Nil, nil
}

// formDyn pushes a dynamic binding for the dynamic extent of body,
// restoring the prior value (or absence) on every exit path (spec §4.4
// `dyn`).
func formDyn(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	symExpr, ok := args.Next()
	if !ok || symExpr.Kind() != KindSymbol {
		return Nil, errType("dyn requires a symbol")
	}
	name := symExpr.Str()
	valExpr, ok := args.Next()
	if !ok {
		return Nil, errArity("dyn requires a value")
	}
	v, err := ev.Eval(env, valExpr)
	if err != nil {
		return Nil, err
	}

	prior, hadPrior := env.DynamicScope[name]
	env.DynamicScope[name] = v
	defer func() {
		if hadPrior {
			env.DynamicScope[name] = prior
		} else {
			delete(env.DynamicScope, name)
		}
	}()

	return formProgn(ev, env, args)
}

// formExport sets a binding in the innermost scope and mirrors it into the
// process environment (spec §4.7 `export`, grounded on environment.rs's
// treatment of exported bindings as process state).
func formExport(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	symExpr, ok := args.Next()
	if !ok || symExpr.Kind() != KindSymbol {
		return Nil, errType("export requires a symbol")
	}
	name := symExpr.Str()
	valExpr, ok := args.Next()
	if !ok {
		return Nil, errArity("export requires a value")
	}
	v, err := ev.Eval(env, valExpr)
	if err != nil {
		return Nil, err
	}
	env.CurrentScope().Set(name, v)
	if err := os.Setenv(name, v.ToString()); err != nil {
		return Nil, &EvalError{Kind: ErrIO, Message: err.Error()}
	}
	return v, nil
}

func formUnexport(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	symExpr, ok := args.Next()
	if !ok || symExpr.Kind() != KindSymbol {
		return Nil, errType("unexport requires a symbol")
	}
	_ = os.Unsetenv(symExpr.Str())
	return Nil, nil
}

// formNsCreate creates a new namespace scope parented at root and pushes
// it (spec §4.4). Requires the current innermost scope to itself be a
// namespace scope, to prevent namespace leakage out of a function body.
func formNsCreate(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	name, err := evalNameArg(ev, env, args)
	if err != nil {
		return Nil, err
	}
	if !env.CurrentScope().IsNamespace() {
		return Nil, errNamespace("ns-create requires a namespace scope, not a lexical frame")
	}
	if _, exists := env.Namespaces[name]; exists {
		return Nil, errNamespace("namespace already exists: " + name)
	}
	ns := NewNamespaceScope(name, env.Root)
	env.Namespaces[name] = ns
	env.PushScope(ns)
	return Symbol(name), nil
}

// formNsEnter pushes an existing namespace scope (spec §4.4).
func formNsEnter(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	name, err := evalNameArg(ev, env, args)
	if err != nil {
		return Nil, err
	}
	if !env.CurrentScope().IsNamespace() {
		return Nil, errNamespace("ns-enter requires a namespace scope, not a lexical frame")
	}
	ns, ok := env.Namespaces[name]
	if !ok {
		return Nil, errNamespace("no such namespace: " + name)
	}
	env.PushScope(ns)
	return Symbol(name), nil
}

func formNsExists(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	name, err := evalNameArg(ev, env, args)
	if err != nil {
		return Nil, err
	}
	_, ok := env.Namespaces[name]
	return FromBool(ok), nil
}

func formNsList(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	names := make([]Value, 0, len(env.Namespaces))
	for name := range env.Namespaces {
		names = append(names, String(name))
	}
	return VectorValue(NewVector(names)), nil
}

func evalNameArg(ev *Evaluator, env *Environment, args *ArgIter) (string, error) {
	expr, ok := args.Next()
	if !ok {
		return "", errArity("expected a namespace-name argument")
	}
	v, err := ev.Eval(env, expr)
	if err != nil {
		return "", err
	}
	return v.ToString(), nil
}

func formDefP(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	symExpr, ok := args.Next()
	if !ok || symExpr.Kind() != KindSymbol {
		return Nil, errType("def? requires a symbol")
	}
	name := symExpr.Str()
	if _, ok := env.DynamicScope[name]; ok {
		return True, nil
	}
	if _, ok := resolveNamespaced(env, name); ok {
		return True, nil
	}
	_, ok = env.CurrentScope().Lookup(name)
	return FromBool(ok), nil
}

func formGlobalScopeP(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	return FromBool(env.CurrentScope() == env.Root), nil
}

func formToSymbol(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	vals, err := args.EvalAll(ev, env)
	if err != nil {
		return Nil, err
	}
	if len(vals) != 1 {
		return Nil, errArity("to-symbol takes exactly one argument")
	}
	return Symbol(vals[0].ToString()), nil
}
