// value.go implements the tagged value universe the evaluator operates
// over: atoms, lists built as either vectors or pair chains, callables,
// process handles, and buffered file handles.
//
// Grounded on the shape of breadchris-yaegi's node/frame value storage
// (interp/interp.go) generalized from a reflect.Value-backed Go interpreter
// to a small hand-rolled tagged union, and on the original Rust Expression/
// Atom enum (_examples/original_source/src/types.rs) for the variant set.
package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindTrue
	KindInt
	KindFloat
	KindSymbol
	KindString
	KindLambda
	KindMacro
	KindVector
	KindPair
	KindHashMap
	KindBuiltin
	KindProcess
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindTrue:
		return "true"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindLambda:
		return "lambda"
	case KindMacro:
		return "macro"
	case KindVector:
		return "vector"
	case KindPair:
		return "pair"
	case KindHashMap:
		return "hashmap"
	case KindBuiltin:
		return "builtin"
	case KindProcess:
		return "process"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Value is the tagged sum described in spec §3. Atom-like variants (Nil,
// True, Int, Float, Symbol, String, Builtin, Process, File) are cheap to
// clone by value; the shared variants (Lambda captures a scope, Vector,
// Pair, HashMap) carry a pointer to mutable, reference-counted-by-GC state.
type Value struct {
	kind Kind

	i   int64
	f   float64
	s   string // Symbol or String payload

	lambda  *Lambda
	macro   *Macro
	vector  *Vector
	pair    *Pair
	hashMap *HashMap
	builtin *Builtin
	process *Process
	file    *File
}

// Nil is the falsy unit value and the empty-list sentinel.
var Nil = Value{kind: KindNil}

// True is the canonical truthy atom.
var True = Value{kind: KindTrue}

func Int(i int64) Value       { return Value{kind: KindInt, i: i} }
func Float(f float64) Value   { return Value{kind: KindFloat, f: f} }
func Symbol(s string) Value   { return Value{kind: KindSymbol, s: s} }
func String(s string) Value   { return Value{kind: KindString, s: s} }
func FromBool(b bool) Value {
	if b {
		return True
	}
	return Nil
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsTrue() bool   { return v.kind != KindNil } // spec §4.1: only Nil is false
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Str() string    { return v.s }

func (v Value) Lambda() *Lambda   { return v.lambda }
func (v Value) Macro() *Macro     { return v.macro }
func (v Value) Vector() *Vector   { return v.vector }
func (v Value) Pair() *Pair       { return v.pair }
func (v Value) HashMap() *HashMap { return v.hashMap }
func (v Value) Builtin() *Builtin { return v.builtin }
func (v Value) Process() *Process { return v.process }
func (v Value) File() *File       { return v.file }

// IsCallable reports whether v can appear in operator position.
func (v Value) IsCallable() bool {
	switch v.kind {
	case KindLambda, KindMacro, KindBuiltin:
		return true
	default:
		return false
	}
}

// IsList reports whether v is Nil, a Vector, or a Pair — anything the
// evaluator treats as list-shaped for argument-list purposes.
func (v Value) IsList() bool {
	return v.kind == KindNil || v.kind == KindVector || v.kind == KindPair
}

func LambdaValue(l *Lambda) Value   { return Value{kind: KindLambda, lambda: l} }
func MacroValue(m *Macro) Value     { return Value{kind: KindMacro, macro: m} }
func VectorValue(vec *Vector) Value { return Value{kind: KindVector, vector: vec} }
func PairValue(p *Pair) Value       { return Value{kind: KindPair, pair: p} }
func HashMapValue(h *HashMap) Value { return Value{kind: KindHashMap, hashMap: h} }
func BuiltinValue(b *Builtin) Value { return Value{kind: KindBuiltin, builtin: b} }
func ProcessValue(p *Process) Value { return Value{kind: KindProcess, process: p} }
func FileValue(f *File) Value       { return Value{kind: KindFile, file: f} }

// ToString coerces v the way external-command stringification does (spec
// §4.5): atoms coerce by their textual form, strings use their content
// unquoted, symbols use their name.
func (v Value) ToString() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindTrue:
		return "true"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindSymbol, KindString:
		return v.s
	default:
		return v.String()
	}
}

// String renders v in read-back (print) form.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindTrue:
		return "true"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindSymbol:
		return v.s
	case KindString:
		return strconv.Quote(v.s)
	case KindLambda:
		return "(fn ...)"
	case KindMacro:
		return "(macro ...)"
	case KindVector:
		return v.vector.String()
	case KindPair:
		return v.pair.String()
	case KindHashMap:
		return "(hash-map ...)"
	case KindBuiltin:
		return fmt.Sprintf("(builtin %s)", v.builtin.Name)
	case KindProcess:
		return v.process.String()
	case KindFile:
		return v.file.String()
	default:
		return "<unknown>"
	}
}

// Equal implements the structural equality `=` needs for atoms; shared
// types compare by identity, matching the original's Rc pointer-sharing
// semantics for mutable structures.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		// Int/Float cross-compare numerically, as `=` is expected to do.
		if (a.kind == KindInt || a.kind == KindFloat) && (b.kind == KindInt || b.kind == KindFloat) {
			return numeric(a) == numeric(b)
		}
		return false
	}
	switch a.kind {
	case KindNil, KindTrue:
		return true
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindSymbol, KindString:
		return a.s == b.s
	case KindVector:
		return a.vector == b.vector
	case KindPair:
		return a.pair == b.pair
	case KindHashMap:
		return a.hashMap == b.hashMap
	case KindLambda:
		return a.lambda == b.lambda
	case KindMacro:
		return a.macro == b.macro
	case KindBuiltin:
		return a.builtin == b.builtin
	case KindProcess:
		return a.process == b.process
	case KindFile:
		return a.file == b.file
	default:
		return false
	}
}

func numeric(v Value) float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// joinStrings is a small helper shared by Vector/Pair String methods.
func joinStrings(parts []string) string {
	return strings.Join(parts, " ")
}
