package interp

import (
	"os"
	"path/filepath"
)

// load.go implements the `load` special form (spec §4.6): resolve path
// against *load-path*, fall back to the embedded stdlib, parse, and
// evaluate — polling the interrupt flag the way spec §5 "Cancellation"
// calls out `load` by name as a long-running builtin.

func installLoadForm(root *Scope) {
	register(root, "load", true, formLoad)
}

func formLoad(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	vals, err := args.EvalAll(ev, env)
	if err != nil {
		return Nil, err
	}
	if len(vals) != 1 {
		return Nil, errArity("load takes exactly one path argument")
	}
	path := vals[0].ToString()

	src, err := resolveLoadSource(ev, env, path)
	if err != nil {
		return Nil, err
	}

	if ev.Reader == nil {
		return Nil, &EvalError{Kind: ErrIO, Message: "load: no reader configured"}
	}
	exprs, err := ev.Reader.Parse(src)
	if err != nil {
		return Nil, &EvalError{Kind: ErrParse, Message: err.Error()}
	}

	if err := env.CheckInterrupt(); err != nil {
		return Nil, err
	}

	// "If the sequence is a list of lists, wraps it in an implicit progn;
	// otherwise evaluates as a single expression" (spec §4.6 step 3).
	if len(exprs) == 1 {
		return ev.Eval(env, exprs[0])
	}
	body := append([]Value{Symbol("progn")}, exprs...)
	return ev.Eval(env, SliceToList(body))
}

// resolveLoadSource implements spec §4.6 steps 1-2: search *load-path*
// (a vector of directories bound in the root scope) for path, falling
// back to the embedded standard-library text keyed by basename.
func resolveLoadSource(ev *Evaluator, env *Environment, path string) (string, error) {
	if filepath.IsAbs(path) {
		if data, err := os.ReadFile(path); err == nil {
			return string(data), nil
		}
	} else if loadPath, ok := env.Root.Get("*load-path*"); ok && loadPath.Kind() == KindVector {
		for _, dir := range loadPath.Vector().Items {
			candidate := filepath.Join(dir.ToString(), path)
			if data, err := os.ReadFile(candidate); err == nil {
				return string(data), nil
			}
		}
	} else if data, err := os.ReadFile(path); err == nil {
		return string(data), nil
	}

	basename := filepath.Base(path)
	if ev.Stdlib != nil {
		if src, ok := ev.Stdlib.Lookup(basename); ok {
			return src, nil
		}
	}
	return "", &EvalError{Kind: ErrIO, Message: "load: cannot find " + path}
}
