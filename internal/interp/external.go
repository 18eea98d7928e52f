package interp

import (
	"os"
	"os/user"
	"strings"

	"github.com/slsh-lang/slsh/internal/process"
)

// external.go implements external-command dispatch (spec §4.5): argument
// stringification (atom coercion, tilde and $VAR expansion), spawning, and
// single-command I/O routing. Pipeline assembly lives in pipe.go, which
// calls spawnArgv too.

// runExternalSymbol is reached from evalCall when a bare symbol fails
// every Lisp lookup and FormType permits external dispatch (spec §4.1
// dispatch rule 3's final bullet).
func (ev *Evaluator) runExternalSymbol(env *Environment, name string, args *ArgIter) (Value, error) {
	argVals, err := args.EvalAll(ev, env)
	if err != nil {
		return Nil, err
	}
	argv := make([]string, 0, len(argVals)+1)
	argv = append(argv, stringifyArg(env, Symbol(name)))
	for _, v := range argVals {
		argv = append(argv, stringifyArg(env, v))
	}
	return ev.spawnAndRoute(env, argv)
}

// stringifyArg coerces a single argument value the way spec §4.5
// describes: atoms via ToString, strings verbatim, symbols by name,
// tilde-prefixed tokens get home-directory expansion, and a literal $VAR
// token is replaced by the environment variable's value — unless NoExpand
// is set (SPEC_FULL.md supplemented `no-expand` form).
func stringifyArg(env *Environment, v Value) string {
	s := v.ToString()
	if env.NoExpand {
		return s
	}
	if strings.HasPrefix(s, "~") {
		s = expandHome(s)
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 {
		if val, ok := lookupProcessEnv(s[1:]); ok {
			return val
		}
		return ""
	}
	return s
}

func expandHome(s string) string {
	home := ""
	if u, err := user.Current(); err == nil {
		home = u.HomeDir
	} else if h, ok := lookupProcessEnv("HOME"); ok {
		home = h
	}
	if s == "~" {
		return home
	}
	if strings.HasPrefix(s, "~/") {
		return home + s[1:]
	}
	return s
}

func lookupProcessEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// spawnArgv starts argv under env's current stdout/stderr status, feeding
// env.DataIn in as stdin when a pipeline stage set it. Shared by
// spawnAndRoute (single commands) and pipe.go (pipeline stages).
func spawnArgv(env *Environment, argv []string) (*process.Handle, error) {
	spec := process.Spec{
		Argv:       argv,
		Stdout:     env.StdoutStatus,
		Stderr:     env.StderrStatus,
		Background: env.RunBackground,
	}
	if env.InPipe && !env.DataIn.IsNil() {
		spec.Stdin = strings.NewReader(env.DataIn.ToString())
	}
	return env.Procs.Spawn(spec)
}

// spawnAndRoute spawns argv using env's current stdout_status/
// stderr_status and registers it as a single-command job. It returns a
// Process value without waiting when the command runs in the background
// or its stdout is Piped; otherwise it waits for the command to finish,
// records its exit status, and yields Nil, matching an ordinary shell
// command's "no value" result.
func (ev *Evaluator) spawnAndRoute(env *Environment, argv []string) (Value, error) {
	h, err := spawnArgv(env, argv)
	if err != nil {
		return Nil, &EvalError{Kind: ErrProcess, Message: err.Error()}
	}
	job := env.Procs.RegisterJob([]string{argv[0]}, []*process.Handle{h})
	if env.RunBackground {
		env.Procs.Reap()
		return ProcessValue(NewProcess(h)), nil
	}

	if env.StdoutStatus.Kind == process.Pipe {
		return ProcessValue(NewProcess(h)), nil
	}

	code, err := env.Procs.Wait(h.Pid())
	env.SetLastStatus(code)
	_ = job
	if err != nil {
		return Nil, &EvalError{Kind: ErrProcess, Message: err.Error()}
	}
	return Nil, nil
}
