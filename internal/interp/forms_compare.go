package interp

// forms_compare.go implements the five comparison operators spec §4.7
// names explicitly as core special forms (left-to-right chained
// comparison, the common Lisp convention: all adjacent pairs must satisfy
// the relation).

func installCompareForms(root *Scope) {
	register(root, "=", true, formCmp(func(a, b float64) bool { return a == b }, func(a, b Value) bool { return Equal(a, b) }))
	register(root, "<", true, formCmp(func(a, b float64) bool { return a < b }, nil))
	register(root, "<=", true, formCmp(func(a, b float64) bool { return a <= b }, nil))
	register(root, ">", true, formCmp(func(a, b float64) bool { return a > b }, nil))
	register(root, ">=", true, formCmp(func(a, b float64) bool { return a >= b }, nil))
}

func formCmp(numRel func(a, b float64) bool, eqRel func(a, b Value) bool) BuiltinFunc {
	return func(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
		vals, err := args.EvalAll(ev, env)
		if err != nil {
			return Nil, err
		}
		if len(vals) < 2 {
			return True, nil
		}
		for i := 0; i+1 < len(vals); i++ {
			a, b := vals[i], vals[i+1]
			var ok bool
			if eqRel != nil {
				ok = eqRel(a, b)
			} else {
				fa, err := toFloat(a)
				if err != nil {
					return Nil, err
				}
				fb, err := toFloat(b)
				if err != nil {
					return Nil, err
				}
				ok = numRel(fa, fb)
			}
			if !ok {
				return Nil, nil
			}
		}
		return True, nil
	}
}

func toFloat(v Value) (float64, error) {
	switch v.Kind() {
	case KindInt:
		return float64(v.Int()), nil
	case KindFloat:
		return v.Float(), nil
	default:
		return 0, errType("expected a number, got " + v.Kind().String())
	}
}
