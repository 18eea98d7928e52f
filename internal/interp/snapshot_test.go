package interp

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestErrorMessageSnapshots locks down the evaluator's error-message
// rendering (spec §7's ErrorKind/message pairs) against regressions, the
// way CWBudde-go-dws/internal/interp/fixture_test.go snapshots fixture
// output.
func TestErrorMessageSnapshots(t *testing.T) {
	ev, env := newTestEnv()

	cases := map[string]Value{
		"unbound_symbol": Symbol("definitely-not-bound"),
		"if_missing_condition": SliceToList([]Value{Symbol("if")}),
		"quote_arity": SliceToList([]Value{Symbol("quote"), Int(1), Int(2)}),
	}
	for name, expr := range cases {
		_, err := ev.Eval(env, expr)
		if err == nil {
			t.Fatalf("%s: expected an error", name)
		}
		snaps.MatchSnapshot(t, name, err.Error())
	}
}

// TestValueStringSnapshots locks down Value.String() rendering for each
// structural kind exercised by the evaluator (spec §3 value table).
func TestValueStringSnapshots(t *testing.T) {
	values := map[string]Value{
		"nil":    Nil,
		"true":   True,
		"int":    Int(42),
		"float":  Float(3.5),
		"symbol": Symbol("foo"),
		"string": String("bar"),
		"list":   SliceToList([]Value{Int(1), Int(2), Int(3)}),
	}
	for name, v := range values {
		snaps.MatchSnapshot(t, name, v.String())
	}
}
