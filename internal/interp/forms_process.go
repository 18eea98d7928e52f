package interp

import (
	"os"

	"github.com/slsh-lang/slsh/internal/process"
)

// forms_process.go implements spec §4.5's job-control surface (jobs, bg,
// fg, wait, pid) and the `pipe` form.

func installProcessForms(root *Scope) {
	register(root, "jobs", true, formJobs)
	register(root, "bg", true, formBg)
	register(root, "fg", true, formFg)
	register(root, "wait", true, formWait)
	register(root, "pid", true, formPid)
	register(root, "pipe", true, formPipe)
}

func formJobs(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	env.Procs.Reap()
	jobs := env.Procs.Jobs()
	out := make([]Value, len(jobs))
	for i, j := range jobs {
		pids := make([]Value, len(j.Pids))
		for k, p := range j.Pids {
			pids[k] = Int(int64(p))
		}
		status := Symbol("running")
		if j.Status == process.JobStopped {
			status = Symbol("stopped")
		}
		out[i] = VectorValue(NewVector([]Value{VectorValue(NewVector(pids)), status}))
	}
	return VectorValue(NewVector(out)), nil
}

// jobArgPid resolves the optional argument of `bg`/`fg` to a pid,
// defaulting to the most recently stopped pid (spec §4.5 `bg`/`fg`). A
// given argument is used as a pid directly; it is not looked up as an
// index into the job table.
func jobArgPid(ev *Evaluator, env *Environment, args *ArgIter) (int, error) {
	if expr, ok := args.Next(); ok {
		v, err := ev.Eval(env, expr)
		if err != nil {
			return 0, err
		}
		return int(v.Int()), nil
	}
	pid := env.Procs.MostRecentStopped()
	if pid == 0 {
		return 0, errType("no stopped job to resume")
	}
	return pid, nil
}

func formBg(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	env.Procs.Reap()
	pid, err := jobArgPid(ev, env, args)
	if err != nil {
		return Nil, err
	}
	if err := env.Procs.Bg(pid); err != nil {
		return Nil, &EvalError{Kind: ErrProcess, Message: err.Error()}
	}
	return Int(int64(pid)), nil
}

func formFg(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	env.Procs.Reap()
	pid, err := jobArgPid(ev, env, args)
	if err != nil {
		return Nil, err
	}
	code, err := env.Procs.Fg(pid)
	if err != nil {
		return Nil, &EvalError{Kind: ErrProcess, Message: err.Error()}
	}
	env.SetLastStatus(code)
	return Int(int64(code)), nil
}

func formWait(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	expr, ok := args.Next()
	if !ok {
		return Nil, errArity("wait requires a pid or process value")
	}
	v, err := ev.Eval(env, expr)
	if err != nil {
		return Nil, err
	}
	var pid int
	switch v.Kind() {
	case KindProcess:
		pid = v.Process().Pid()
	case KindInt:
		pid = int(v.Int())
	default:
		return Nil, errType("wait requires a pid or process value")
	}
	code, err := env.Procs.Wait(pid)
	if err != nil {
		return Nil, &EvalError{Kind: ErrProcess, Message: err.Error()}
	}
	env.SetLastStatus(code)
	return Int(int64(code)), nil
}

func formPid(ev *Evaluator, env *Environment, args *ArgIter) (Value, error) {
	return Int(int64(os.Getpid())), nil
}
