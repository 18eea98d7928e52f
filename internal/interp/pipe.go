package interp

import (
	"github.com/slsh-lang/slsh/internal/process"
)

// pipe.go implements the `pipe` special form (spec §4.5 pipeline assembly).
// Each stage receives the previous stage's result as DataIn; every stage but
// the last runs with stdout_status forced to Pipe, and the last stage runs
// with the caller's original stdout_status. Nested pipelines are rejected.
// At most one stage may be a read-file stage, and it must be first.

func formPipe(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	if env.InPipe {
		return Nil, errType("pipe forms cannot be nested")
	}
	stages := args.Rest()
	if len(stages) == 0 {
		return Nil, nil
	}

	prevInPipe := env.InPipe
	prevStdout := env.StdoutStatus
	prevDataIn := env.DataIn
	env.InPipe = true
	defer func() {
		env.InPipe = prevInPipe
		env.StdoutStatus = prevStdout
		env.DataIn = prevDataIn
	}()

	var handles []*process.Handle
	var names []string
	dataIn := Nil

	for i, stage := range stages {
		isLast := i == len(stages)-1
		if isReadFileStage(stage) && i != 0 {
			return Nil, errType("a read-file stage must be the first stage of a pipe")
		}

		if isLast {
			env.StdoutStatus = prevStdout
		} else {
			env.StdoutStatus = IOStatus{Kind: process.Pipe}
		}
		env.DataIn = dataIn

		result, err := ev.Eval(env, stage)
		if err != nil {
			return Nil, err
		}

		next, h, name, err := routeStageOutput(dataIn, result, isLast)
		if err != nil {
			return Nil, err
		}
		dataIn = next
		if h != nil {
			handles = append(handles, h)
			names = append(names, name)
		}
	}

	if len(handles) > 0 {
		env.Procs.RegisterJob(names, handles)
	}
	env.Procs.Reap()

	return dataIn, nil
}

// routeStageOutput folds a single pipeline stage's result into the next
// stage's data_in, per spec §4.5: a Process stage's stdout (when piped) is
// drained into data_in; a File stage either receives the current data_in
// (when open for write) or supplies its own content (when open for read);
// any other value becomes data_in directly.
func routeStageOutput(dataIn, result Value, isLast bool) (next Value, h *process.Handle, name string, err error) {
	switch result.Kind() {
	case KindProcess:
		p := result.Process()
		if !isLast && p.Handle().Stdout() != nil {
			s, rerr := process.ReadString(p.Handle().Stdout())
			if rerr != nil {
				return Nil, nil, "", &EvalError{Kind: ErrIO, Message: rerr.Error()}
			}
			return String(s), p.Handle(), "pipe-stage", nil
		}
		return result, p.Handle(), "pipe-stage", nil
	case KindFile:
		f := result.File()
		if w := f.Writer(); w != nil {
			if _, werr := w.Write([]byte(dataIn.ToString())); werr != nil {
				return Nil, nil, "", &EvalError{Kind: ErrIO, Message: werr.Error()}
			}
			return result, nil, "", nil
		}
		if r := f.Reader(); r != nil {
			s, rerr := process.ReadString(r)
			if rerr != nil {
				return Nil, nil, "", &EvalError{Kind: ErrIO, Message: rerr.Error()}
			}
			return String(s), nil, "", nil
		}
		return result, nil, "", nil
	default:
		return result, nil, "", nil
	}
}

// isReadFileStage recognizes the `file-open-read` builtin call shape so
// pipe can enforce "at most one read-file stage, and it must be first"
// without depending on internal/builtins (spec §4.5).
func isReadFileStage(expr Value) bool {
	if expr.Kind() != KindPair {
		return false
	}
	head := expr.Pair().Car
	return head.Kind() == KindSymbol && head.Str() == "file-open-read"
}
