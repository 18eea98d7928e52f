package interp

// quasiquote implements `bquote` (spec §4.3): rewrites x, substituting
// `,form` with the evaluated value of form and splicing `,@form`'s
// (list-valued) result into the enclosing list. Splices nest through
// nested list structure, including `quote` forms (so `(quote ,x)`
// substitutes x), but a nested `bquote` form is left as it is, matching the
// recursive-descent shape robpike-lisp's evcon/evlis use for list
// traversal (_examples/other_examples/1d1a19fd_robpike-lisp__lisp1_5-eval.go.go),
// generalized from plain evaluation to template rewriting.
func (ev *Evaluator) quasiquote(env *Environment, x Value) (Value, error) {
	switch x.Kind() {
	case KindPair:
		if head := x.Pair().Car; head.Kind() == KindSymbol && head.Str() == "bquote" {
			return x, nil
		}
		return ev.quasiquoteList(env, x)
	case KindVector:
		items := x.Vector().Items
		out := make([]Value, 0, len(items))
		for _, it := range items {
			if isUnquoteSplice(it) {
				spliced, err := ev.evalSpliceArg(env, it)
				if err != nil {
					return Nil, err
				}
				out = append(out, spliced...)
				continue
			}
			v, err := ev.quasiquote(env, it)
			if err != nil {
				return Nil, err
			}
			out = append(out, v)
		}
		return VectorValue(NewVector(out)), nil
	default:
		return x, nil
	}
}

// quasiquoteList walks a pair-chain, handling `,form` at the head of a
// sub-list specially (a bare unquote, not inside a deeper list) and
// `,@form` by splicing into the output chain.
func (ev *Evaluator) quasiquoteList(env *Environment, x Value) (Value, error) {
	if isUnquote(x) {
		form := x.Pair().Cdr.Pair().Car
		return ev.Eval(env, form)
	}

	items, ok := ListToSlice(x)
	if !ok {
		// improper list: rewrite car/cdr independently
		car, err := ev.quasiquote(env, x.Pair().Car)
		if err != nil {
			return Nil, err
		}
		cdr, err := ev.quasiquote(env, x.Pair().Cdr)
		if err != nil {
			return Nil, err
		}
		return Cons(car, cdr), nil
	}

	var out []Value
	for _, it := range items {
		if isUnquoteSplice(it) {
			spliced, err := ev.evalSpliceArg(env, it)
			if err != nil {
				return Nil, err
			}
			out = append(out, spliced...)
			continue
		}
		v, err := ev.quasiquote(env, it)
		if err != nil {
			return Nil, err
		}
		out = append(out, v)
	}
	return SliceToList(out), nil
}

func (ev *Evaluator) evalSpliceArg(env *Environment, spliceForm Value) ([]Value, error) {
	form := spliceForm.Pair().Cdr.Pair().Car
	v, err := ev.Eval(env, form)
	if err != nil {
		return nil, err
	}
	items, ok := ListToSlice(v)
	if !ok {
		return nil, errType("`,@` requires a list result")
	}
	return items, nil
}

func isUnquote(x Value) bool {
	return x.Kind() == KindPair && x.Pair().Car.Kind() == KindSymbol && x.Pair().Car.Str() == "unquote"
}

func isUnquoteSplice(x Value) bool {
	return x.Kind() == KindPair && x.Pair().Car.Kind() == KindSymbol && x.Pair().Car.Str() == "unquote-splice"
}
