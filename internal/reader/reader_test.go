package reader

import (
	"testing"

	"github.com/slsh-lang/slsh/internal/interp"
)

func parseOne(t *testing.T, src string) interp.Value {
	t.Helper()
	forms, err := New().Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if len(forms) != 1 {
		t.Fatalf("expected exactly one form from %q, got %d", src, len(forms))
	}
	return forms[0]
}

func TestParseAtoms(t *testing.T) {
	if v := parseOne(t, "42"); v.Kind() != interp.KindInt || v.Int() != 42 {
		t.Fatalf("expected int 42, got %s", v)
	}
	if v := parseOne(t, "3.5"); v.Kind() != interp.KindFloat || v.Float() != 3.5 {
		t.Fatalf("expected float 3.5, got %s", v)
	}
	if v := parseOne(t, "nil"); !v.IsNil() {
		t.Fatalf("expected nil, got %s", v)
	}
	if v := parseOne(t, "true"); v.Kind() != interp.KindTrue {
		t.Fatalf("expected true, got %s", v)
	}
	if v := parseOne(t, "foo-bar?"); v.Kind() != interp.KindSymbol || v.Str() != "foo-bar?" {
		t.Fatalf("expected symbol foo-bar?, got %s", v)
	}
}

func TestParseStringEscapes(t *testing.T) {
	v := parseOne(t, `"a\nb\tc\\d\"e"`)
	if v.Kind() != interp.KindString {
		t.Fatalf("expected string, got %s", v)
	}
	want := "a\nb\tc\\d\"e"
	if v.Str() != want {
		t.Fatalf("expected %q, got %q", want, v.Str())
	}
}

func TestParseList(t *testing.T) {
	v := parseOne(t, "(1 2 3)")
	items, ok := interp.ListToSlice(v)
	if !ok || len(items) != 3 {
		t.Fatalf("expected a 3-element list, got %s", v)
	}
	for i, want := range []int64{1, 2, 3} {
		if items[i].Int() != want {
			t.Fatalf("element %d: expected %d, got %s", i, want, items[i])
		}
	}
}

func TestParseDottedPair(t *testing.T) {
	v := parseOne(t, "(1 . 2)")
	if v.Kind() != interp.KindPair {
		t.Fatalf("expected a pair, got %s", v)
	}
	if v.Pair().Car.Int() != 1 || v.Pair().Cdr.Int() != 2 {
		t.Fatalf("expected (1 . 2), got %s", v)
	}
}

func TestParseVectorLiteral(t *testing.T) {
	v := parseOne(t, "#(1 2 3)")
	if v.Kind() != interp.KindVector {
		t.Fatalf("expected a vector, got %s", v)
	}
	if len(v.Vector().Items) != 3 {
		t.Fatalf("expected 3 items, got %s", v)
	}
}

// TestParseQuoteShorthand covers the reader-extension table of spec §6:
// 'x, `x, ,x, ,@x all expand to (head x).
func TestParseQuoteShorthand(t *testing.T) {
	cases := map[string]string{
		"'x":  "quote",
		"`x":  "bquote",
		",x":  "unquote",
		",@x": "unquote-splice",
	}
	for src, head := range cases {
		v := parseOne(t, src)
		items, ok := interp.ListToSlice(v)
		if !ok || len(items) != 2 {
			t.Fatalf("%s: expected a 2-element list, got %s", src, v)
		}
		if items[0].Kind() != interp.KindSymbol || items[0].Str() != head {
			t.Fatalf("%s: expected head %s, got %s", src, head, items[0])
		}
		if items[1].Kind() != interp.KindSymbol || items[1].Str() != "x" {
			t.Fatalf("%s: expected wrapped symbol x, got %s", src, items[1])
		}
	}
}

func TestParseComment(t *testing.T) {
	forms, err := New().Parse("; a comment\n42 ; trailing\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(forms) != 1 || forms[0].Int() != 42 {
		t.Fatalf("expected a single form 42, got %v", forms)
	}
}

func TestParseUnterminatedListIsError(t *testing.T) {
	_, err := New().Parse("(1 2")
	if err == nil {
		t.Fatalf("expected an error for an unterminated list")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}
