package interp

import "testing"

// TestPipeThreadsDataInAndReturnsLastStage covers spec §8 "pipeline
// transparency": a pipe of plain (non-process, non-file) stages just
// threads each stage's result forward and returns the last stage's value.
func TestPipeThreadsDataInAndReturnsLastStage(t *testing.T) {
	ev, env := newTestEnv()

	pipeExpr := SliceToList([]Value{Symbol("pipe"),
		SliceToList([]Value{Symbol("quote"), Symbol("a")}),
		SliceToList([]Value{Symbol("quote"), Symbol("b")}),
		SliceToList([]Value{Symbol("quote"), Symbol("c")}),
	})

	res, err := ev.Eval(env, pipeExpr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind() != KindSymbol || res.Str() != "c" {
		t.Fatalf("expected last stage's value c, got %s", res)
	}
	if env.InPipe {
		t.Fatalf("expected InPipe to be restored to false after the pipe's extent")
	}
	if !env.DataIn.IsNil() {
		t.Fatalf("expected DataIn to be restored to nil after the pipe's extent, got %s", env.DataIn)
	}
}

func TestNestedPipeIsRejected(t *testing.T) {
	ev, env := newTestEnv()

	inner := SliceToList([]Value{Symbol("pipe"), Int(1)})
	outer := SliceToList([]Value{Symbol("pipe"), inner})

	_, err := ev.Eval(env, outer)
	if err == nil {
		t.Fatalf("expected an error for a nested pipe")
	}
}

func TestEmptyPipeIsNil(t *testing.T) {
	ev, env := newTestEnv()
	res, err := ev.Eval(env, SliceToList([]Value{Symbol("pipe")}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsNil() {
		t.Fatalf("expected nil for an empty pipe, got %s", res)
	}
}
