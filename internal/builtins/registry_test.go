package builtins

import (
	"testing"

	"github.com/slsh-lang/slsh/internal/interp"
	"github.com/slsh-lang/slsh/internal/process"
	"github.com/slsh-lang/slsh/internal/reader"
)

func newTestEnv(t *testing.T) (*interp.Evaluator, *interp.Environment) {
	t.Helper()
	env := interp.NewBaseEnvironment(process.NewManager(nil), false)
	Register(env.Root)
	return interp.NewEvaluator(NewStdlib(), reader.New()), env
}

func evalOne(t *testing.T, ev *interp.Evaluator, env *interp.Environment, src string) interp.Value {
	t.Helper()
	forms, err := reader.New().Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	var res interp.Value
	for _, f := range forms {
		var err error
		res, err = ev.Eval(env, f)
		if err != nil {
			t.Fatalf("eval %q: %v", src, err)
		}
	}
	return res
}

func TestArithmeticCoercion(t *testing.T) {
	ev, env := newTestEnv(t)

	if v := evalOne(t, ev, env, "(+ 1 2 3)"); v.Kind() != interp.KindInt || v.Int() != 6 {
		t.Fatalf("expected int 6, got %s", v)
	}
	// mixing an int and a float promotes the result to float.
	if v := evalOne(t, ev, env, "(+ 1 2.5)"); v.Kind() != interp.KindFloat || v.Float() != 3.5 {
		t.Fatalf("expected float 3.5, got %s", v)
	}
	if v := evalOne(t, ev, env, "(- 10 3 2)"); v.Int() != 5 {
		t.Fatalf("expected 5, got %s", v)
	}
	if v := evalOne(t, ev, env, "(- 7)"); v.Int() != -7 {
		t.Fatalf("expected -7, got %s", v)
	}
	if v := evalOne(t, ev, env, "(* 2 3 4)"); v.Int() != 24 {
		t.Fatalf("expected 24, got %s", v)
	}
}

func TestDivisionByZeroIsError(t *testing.T) {
	ev, env := newTestEnv(t)
	forms, err := reader.New().Parse("(/ 1 0)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ev.Eval(env, forms[0]); err == nil {
		t.Fatalf("expected division by zero to error")
	}
}

func TestListOps(t *testing.T) {
	ev, env := newTestEnv(t)

	if v := evalOne(t, ev, env, "(car (cons 1 2))"); v.Int() != 1 {
		t.Fatalf("expected 1, got %s", v)
	}
	if v := evalOne(t, ev, env, "(cdr (cons 1 2))"); v.Int() != 2 {
		t.Fatalf("expected 2, got %s", v)
	}
	v := evalOne(t, ev, env, "(map (fn (x) (* x x)) (list 1 2 3))")
	items, ok := interp.ListToSlice(v)
	if !ok || len(items) != 3 {
		t.Fatalf("expected a 3-element list, got %s", v)
	}
	for i, want := range []int64{1, 4, 9} {
		if items[i].Int() != want {
			t.Fatalf("element %d: expected %d, got %s", i, want, items[i])
		}
	}
}

func TestPredicates(t *testing.T) {
	ev, env := newTestEnv(t)
	if v := evalOne(t, ev, env, "(null? nil)"); !v.IsTrue() {
		t.Fatalf("expected true, got %s", v)
	}
	if v := evalOne(t, ev, env, "(null? 1)"); v.IsTrue() {
		t.Fatalf("expected nil, got %s", v)
	}
	if v := evalOne(t, ev, env, "(list? (list 1 2))"); !v.IsTrue() {
		t.Fatalf("expected true, got %s", v)
	}
}

// TestPreludeDefmacroBuildsWhenUnless exercises the embedded stdlib source
// end to end: load it through the reader, evaluate it, then confirm the
// when/unless macros it defines expand and run correctly.
func TestPreludeDefmacroBuildsWhenUnless(t *testing.T) {
	ev, env := newTestEnv(t)

	src, ok := NewStdlib().Lookup("prelude.lisp")
	if !ok {
		t.Fatalf("expected prelude.lisp to be embedded")
	}
	forms, err := reader.New().Parse(src)
	if err != nil {
		t.Fatalf("parse prelude: %v", err)
	}
	for _, f := range forms {
		if _, err := ev.Eval(env, f); err != nil {
			t.Fatalf("eval prelude form %s: %v", f, err)
		}
	}

	if v := evalOne(t, ev, env, "(when true 1 2 3)"); v.Int() != 3 {
		t.Fatalf("expected 3, got %s", v)
	}
	if v := evalOne(t, ev, env, "(when nil 1 2 3)"); !v.IsNil() {
		t.Fatalf("expected nil, got %s", v)
	}
	if v := evalOne(t, ev, env, "(unless nil 42)"); v.Int() != 42 {
		t.Fatalf("expected 42, got %s", v)
	}
}
