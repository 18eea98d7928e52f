package interp

// Pair is a mutable, shared (car, cdr) cell. Chains of pairs terminate in
// Nil and form a linked list; lists may also be built as Vectors (spec §3).
type Pair struct {
	Car Value
	Cdr Value
}

func Cons(car, cdr Value) Value {
	return PairValue(&Pair{Car: car, Cdr: cdr})
}

func (p *Pair) String() string {
	var parts []string
	cur := Value{kind: KindPair, pair: p}
	for cur.Kind() == KindPair {
		parts = append(parts, cur.Pair().Car.String())
		cur = cur.Pair().Cdr
	}
	if cur.IsNil() {
		return "(" + joinStrings(parts) + ")"
	}
	// improper list
	return "(" + joinStrings(parts) + " . " + cur.String() + ")"
}

// ListToSlice flattens a proper pair-chain or vector into a Go slice. It
// returns ok=false if v is not list-shaped or the pair chain is improper.
func ListToSlice(v Value) (out []Value, ok bool) {
	switch v.Kind() {
	case KindNil:
		return nil, true
	case KindVector:
		return append([]Value(nil), v.Vector().Items...), true
	case KindPair:
		cur := v
		for cur.Kind() == KindPair {
			out = append(out, cur.Pair().Car)
			cur = cur.Pair().Cdr
		}
		return out, cur.IsNil()
	default:
		return nil, false
	}
}

// SliceToList builds a pair-chain list from a Go slice, terminated by Nil.
func SliceToList(items []Value) Value {
	result := Nil
	for i := len(items) - 1; i >= 0; i-- {
		result = Cons(items[i], result)
	}
	return result
}

// Vector is a mutable, shared, ordered sequence.
type Vector struct {
	Items []Value
}

func NewVector(items []Value) *Vector { return &Vector{Items: items} }

func (vec *Vector) String() string {
	parts := make([]string, len(vec.Items))
	for i, it := range vec.Items {
		parts[i] = it.String()
	}
	return "#(" + joinStrings(parts) + ")"
}

// HashMap is a mutable, shared mapping from string keys to values.
type HashMap struct {
	Data map[string]Value
}

func NewHashMap() *HashMap { return &HashMap{Data: map[string]Value{}} }
