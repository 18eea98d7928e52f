package interp

// Parameter binding (spec §4.2): a parameter list is a sequence of symbols
// possibly containing the sentinels &rest and &optional. Shared between
// Lambda and Macro application (DESIGN NOTES: "factor out a single
// apply-with-scope helper").
const (
	sentinelOptional = "&optional"
	sentinelRest     = "&rest"
)

// bindParams binds argVals into scope according to params (spec §4.2).
// argVals are evaluated values for lambda application and unevaluated
// forms for macro application; either way the &rest collection is built
// as a Vector (spec says "collects remaining arguments as a vector").
func bindParams(scope *Scope, params Value, argVals []Value) error {
	names, ok := ListToSlice(params)
	if !ok {
		return errType("parameter list must be a list")
	}

	i := 0 // index into names
	a := 0 // index into argVals

	// required positional, before &optional/&rest
	for i < len(names) {
		name := names[i].Str()
		if name == sentinelOptional || name == sentinelRest {
			break
		}
		if a >= len(argVals) {
			return errArity("missing required argument: " + name)
		}
		scope.Set(name, argVals[a])
		i++
		a++
	}

	if i < len(names) && names[i].Str() == sentinelOptional {
		i++
		for i < len(names) {
			name := names[i].Str()
			if name == sentinelRest {
				break
			}
			if a < len(argVals) {
				scope.Set(name, argVals[a])
				a++
			} else {
				scope.Set(name, Nil)
			}
			i++
		}
	}

	if i < len(names) && names[i].Str() == sentinelRest {
		i++
		if i >= len(names) {
			return errArity("&rest must be followed by exactly one symbol")
		}
		restName := names[i].Str()
		rest := append([]Value(nil), argVals[a:]...)
		scope.Set(restName, VectorValue(NewVector(rest)))
		a = len(argVals)
		i++
	} else if a < len(argVals) {
		return errArity("too many arguments")
	}

	return nil
}
