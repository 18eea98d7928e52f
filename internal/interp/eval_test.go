package interp

import (
	"testing"

	"github.com/slsh-lang/slsh/internal/process"
)

func newTestEnv() (*Evaluator, *Environment) {
	env := NewBaseEnvironment(process.NewManager(nil), false)
	return NewEvaluator(nil, nil), env
}

func TestIfTruthiness(t *testing.T) {
	ev, env := newTestEnv()

	// (if true 1 2) => 1
	expr := SliceToList([]Value{Symbol("if"), True, Int(1), Int(2)})
	res, err := ev.Eval(env, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind() != KindInt || res.Int() != 1 {
		t.Fatalf("expected 1, got %s", res)
	}

	// (if nil 1 2) => 2
	expr = SliceToList([]Value{Symbol("if"), Nil, Int(1), Int(2)})
	res, err = ev.Eval(env, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind() != KindInt || res.Int() != 2 {
		t.Fatalf("expected 2, got %s", res)
	}
}

func TestAndOrIdentities(t *testing.T) {
	ev, env := newTestEnv()

	// (and) => true
	if res, err := ev.Eval(env, SliceToList([]Value{Symbol("and")})); err != nil || !res.IsTrue() {
		t.Fatalf("(and) should be true, got %v err=%v", res, err)
	}
	// (or) => nil
	if res, err := ev.Eval(env, SliceToList([]Value{Symbol("or")})); err != nil || res.IsTrue() {
		t.Fatalf("(or) should be nil, got %v err=%v", res, err)
	}
	// (and 1 nil 2) => nil, short-circuits
	expr := SliceToList([]Value{Symbol("and"), Int(1), Nil, Int(2)})
	if res, err := ev.Eval(env, expr); err != nil || res.IsTrue() {
		t.Fatalf("(and 1 nil 2) should be nil, got %v err=%v", res, err)
	}
}

func TestQuoteIdentity(t *testing.T) {
	ev, env := newTestEnv()
	// eval('x) = x structurally, spec §8.
	inner := SliceToList([]Value{Symbol("a"), Symbol("b")})
	expr := SliceToList([]Value{Symbol("quote"), inner})
	res, err := ev.Eval(env, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.String() != inner.String() {
		t.Fatalf("expected %s, got %s", inner, res)
	}
}

func TestBquoteNoSpliceIdentity(t *testing.T) {
	ev, env := newTestEnv()
	// eval(`x) = x for x free of ,/,@ (spec §8).
	inner := SliceToList([]Value{Symbol("a"), Int(1), Symbol("b")})
	expr := SliceToList([]Value{Symbol("bquote"), inner})
	res, err := ev.Eval(env, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.String() != inner.String() {
		t.Fatalf("expected %s, got %s", inner, res)
	}
}

func TestBquoteUnquoteSplice(t *testing.T) {
	ev, env := newTestEnv()
	// `(1 ,@(quote (2 3)) 4) => (1 2 3 4)
	splice := SliceToList([]Value{Symbol("unquote-splice"),
		SliceToList([]Value{Symbol("quote"), SliceToList([]Value{Int(2), Int(3)})})})
	template := SliceToList([]Value{Int(1), splice, Int(4)})
	expr := SliceToList([]Value{Symbol("bquote"), template})

	res, err := ev.Eval(env, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, ok := ListToSlice(res)
	if !ok || len(items) != 4 {
		t.Fatalf("expected a 4-element list, got %s", res)
	}
	want := []int64{1, 2, 3, 4}
	for i, w := range want {
		if items[i].Kind() != KindInt || items[i].Int() != w {
			t.Fatalf("element %d: expected %d, got %s", i, w, items[i])
		}
	}
}

func TestDefAndLexicalScopeIsolation(t *testing.T) {
	ev, env := newTestEnv()

	// (def x 1) in root, then a fn that shadows x locally must not leak out.
	if _, err := ev.Eval(env, SliceToList([]Value{Symbol("def"), Symbol("x"), Int(1)})); err != nil {
		t.Fatalf("def failed: %v", err)
	}

	// ((fn (x) (def x 2) x) 99) => 2, but outer x stays 1
	lambdaBody := SliceToList([]Value{Symbol("progn"),
		SliceToList([]Value{Symbol("def"), Symbol("x"), Int(2)}),
		Symbol("x"),
	})
	lambda := SliceToList([]Value{Symbol("fn"), SliceToList([]Value{Symbol("x")}), lambdaBody})
	call := SliceToList([]Value{lambda, Int(99)})

	res, err := ev.Eval(env, call)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if res.Kind() != KindInt || res.Int() != 2 {
		t.Fatalf("expected inner x = 2, got %s", res)
	}

	outer, err := ev.Eval(env, Symbol("x"))
	if err != nil {
		t.Fatalf("lookup x failed: %v", err)
	}
	if outer.Kind() != KindInt || outer.Int() != 1 {
		t.Fatalf("expected outer x to remain 1, got %s", outer)
	}
}

func TestDynScopeRestoresOnExit(t *testing.T) {
	ev, env := newTestEnv()

	if _, err := ev.Eval(env, SliceToList([]Value{Symbol("def"), Symbol("y"), Int(1)})); err != nil {
		t.Fatalf("def failed: %v", err)
	}

	dynExpr := SliceToList([]Value{Symbol("dyn"), Symbol("y"), Int(2), Symbol("y")})
	res, err := ev.Eval(env, dynExpr)
	if err != nil {
		t.Fatalf("dyn failed: %v", err)
	}
	if res.Kind() != KindInt || res.Int() != 2 {
		t.Fatalf("expected dynamic y = 2, got %s", res)
	}

	if len(env.DynamicScope) != 0 {
		t.Fatalf("dynamic scope should be empty after dyn's extent, got %v", env.DynamicScope)
	}
}

func TestUnboundSymbolIsUnboundError(t *testing.T) {
	ev, env := newTestEnv()
	_, err := ev.Eval(env, Symbol("totally-undefined-symbol"))
	if err == nil {
		t.Fatalf("expected an error")
	}
	ee, ok := err.(*EvalError)
	if !ok {
		t.Fatalf("expected *EvalError, got %T", err)
	}
	if ee.Kind != ErrUnboundSymbol {
		t.Fatalf("expected ErrUnboundSymbol, got %s", ee.Kind)
	}
}
