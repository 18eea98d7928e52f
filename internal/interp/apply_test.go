package interp

import "testing"

func TestLambdaParamBinding(t *testing.T) {
	ev, env := newTestEnv()

	// (fn (a &optional b &rest c) (list a b c))
	params := SliceToList([]Value{
		Symbol("a"), Symbol("&optional"), Symbol("b"), Symbol("&rest"), Symbol("c"),
	})
	body := SliceToList([]Value{Symbol("list"), Symbol("a"), Symbol("b"), Symbol("c")})
	lambda := SliceToList([]Value{Symbol("fn"), params, body})

	// Install a minimal `list` builtin for this test only.
	env.Root.Set("list", BuiltinValue(&Builtin{Name: "list", Fn: func(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
		vals, err := args.EvalAll(ev, env)
		if err != nil {
			return Nil, err
		}
		return SliceToList(vals), nil
	}}))

	call := SliceToList([]Value{lambda, Int(1), Int(2), Int(3), Int(4)})
	res, err := ev.Eval(env, call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, ok := ListToSlice(res)
	if !ok || len(items) != 3 {
		t.Fatalf("expected 3 elements, got %s", res)
	}
	if items[0].Int() != 1 || items[1].Int() != 2 {
		t.Fatalf("expected a=1 b=2, got %s %s", items[0], items[1])
	}
	rest, ok := ListToSlice(items[2])
	if !ok || len(rest) != 2 || rest[0].Int() != 3 || rest[1].Int() != 4 {
		t.Fatalf("expected &rest c = (3 4), got %s", items[2])
	}
}

func TestRecurTrampolines(t *testing.T) {
	ev, env := newTestEnv()

	// (fn (n acc) (if (= n 0) acc (recur (- n 1) (+ acc n))))
	body := SliceToList([]Value{Symbol("if"),
		SliceToList([]Value{Symbol("="), Symbol("n"), Int(0)}),
		Symbol("acc"),
		SliceToList([]Value{Symbol("recur"),
			SliceToList([]Value{Symbol("-"), Symbol("n"), Int(1)}),
			SliceToList([]Value{Symbol("+"), Symbol("acc"), Symbol("n")}),
		}),
	})
	lambda := SliceToList([]Value{Symbol("fn"), SliceToList([]Value{Symbol("n"), Symbol("acc")}), body})

	env.Root.Set("+", BuiltinValue(&Builtin{Name: "+", Fn: arithOp(func(a, b int64) int64 { return a + b })}))
	env.Root.Set("-", BuiltinValue(&Builtin{Name: "-", Fn: arithOp(func(a, b int64) int64 { return a - b })}))

	call := SliceToList([]Value{lambda, Int(5), Int(0)})
	res, err := ev.Eval(env, call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind() != KindInt || res.Int() != 15 {
		t.Fatalf("expected 15 (5+4+3+2+1), got %s", res)
	}
}

func arithOp(op func(a, b int64) int64) BuiltinFunc {
	return func(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
		vals, err := args.EvalAll(ev, env)
		if err != nil {
			return Nil, err
		}
		if len(vals) != 2 {
			return Nil, errArity("expected two arguments")
		}
		return Int(op(vals[0].Int(), vals[1].Int())), nil
	}
}

func TestMacroExpansionUsesCallerScope(t *testing.T) {
	ev, env := newTestEnv()

	// (def m (macro (x) (bquote (quote (unquote y)))))
	// The macro body reads y, which is bound only in the calling lambda's
	// scope: expansion succeeds only if the macro's temporary scope is
	// parented at the caller's scope rather than at root, where m is defined.
	macroBody := SliceToList([]Value{Symbol("bquote"),
		SliceToList([]Value{Symbol("quote"),
			SliceToList([]Value{Symbol("unquote"), Symbol("y")})}),
	})
	macro := SliceToList([]Value{Symbol("macro"), SliceToList([]Value{Symbol("x")}), macroBody})
	if _, err := ev.Eval(env, SliceToList([]Value{Symbol("def"), Symbol("m"), macro})); err != nil {
		t.Fatalf("def macro failed: %v", err)
	}

	// ((fn (y) (m 0)) 42) => 42
	lambda := SliceToList([]Value{Symbol("fn"), SliceToList([]Value{Symbol("y")}),
		SliceToList([]Value{Symbol("m"), Int(0)})})
	call := SliceToList([]Value{lambda, Int(42)})
	res, err := ev.Eval(env, call)
	if err != nil {
		t.Fatalf("macro call failed: %v", err)
	}
	if res.Kind() != KindInt || res.Int() != 42 {
		t.Fatalf("expected 42, got %s", res)
	}
}
