// Package shell implements the outermost REPL/script-runner loop: mode
// detection (interactive/script/stdin-pipe, spec §6), startup-file loading,
// and the line-editor/evaluator glue. Grounded on
// _examples/original_source/src/shell.rs's start_interactive and
// load_scripts, reworked around chzyer/readline (interactive), plain
// os.Stdin scanning (piped stdin), or file reads (script mode) instead of
// liner, and go.uber.org/zap + github.com/fatih/color for diagnostics in
// place of eprintln!.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/slsh-lang/slsh/internal/builtins"
	"github.com/slsh-lang/slsh/internal/interp"
	"github.com/slsh-lang/slsh/internal/process"
	"github.com/slsh-lang/slsh/internal/reader"
)

// Options mirrors the cobra flags cmd/slsh collects (spec §6 external
// interfaces: `-c`/`--command`, `--login`, positional FILE ARGS...).
type Options struct {
	Command    string
	Login      bool
	ScriptArgs []string
}

// Run dispatches to one of the three modes spec §6 names: run `-c` text,
// run a script file, or start the REPL (interactive or stdin-pipe,
// distinguished via mattn/go-isatty).
func Run(opts Options) error {
	log, _ := zap.NewProduction()
	defer log.Sync()

	procs := process.NewManager(log)
	isTTY := isatty.IsTerminal(os.Stdin.Fd())
	env := interp.NewBaseEnvironment(procs, isTTY)
	builtins.Register(env.Root)
	stdlib := builtins.NewStdlib()
	ev := interp.NewEvaluator(stdlib, reader.New())

	if opts.Login || isTTY {
		loadStartupScripts(ev, env, log)
	}

	switch {
	case opts.Command != "":
		return runSource(ev, env, opts.Command, "<command>")
	case len(opts.ScriptArgs) > 0:
		return runScriptFile(ev, env, opts.ScriptArgs[0], opts.ScriptArgs[1:])
	case isTTY:
		return runInteractive(ev, env, procs)
	default:
		return runPipedStdin(ev, env)
	}
}

// loadStartupScripts mirrors shell.rs's load_scripts: each of
// slsh_std.lisp, slsh_shell.lisp, and slshrc is optional — a missing or
// failing file is a warning, never fatal.
func loadStartupScripts(ev *interp.Evaluator, env *interp.Environment, log *zap.Logger) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".config", "slsh")
	for _, name := range []string{"slsh_std.lisp", "slsh_shell.lisp", "slshrc"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := evalSource(ev, env, string(data)); err != nil {
			log.Warn("failed to load startup script", zap.String("path", path), zap.Error(err))
			fmt.Fprintln(os.Stderr, color.YellowString("WARNING: failed to load %s: %v", path, err))
		}
	}
}

func evalSource(ev *interp.Evaluator, env *interp.Environment, src string) error {
	exprs, err := reader.New().Parse(src)
	if err != nil {
		return err
	}
	for _, expr := range exprs {
		if _, err := ev.Eval(env, expr); err != nil {
			return err
		}
	}
	return nil
}

func runSource(ev *interp.Evaluator, env *interp.Environment, src, label string) error {
	if err := evalSource(ev, env, src); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%s: %v", label, err))
		if exitErr, ok := err.(*interp.EvalError); ok && exitErr.Kind == interp.ErrExitRequested {
			os.Exit(exitErr.ExitCode)
		}
		return err
	}
	return nil
}

func runScriptFile(ev *interp.Evaluator, env *interp.Environment, path string, scriptArgs []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	argVals := make([]interp.Value, len(scriptArgs))
	for i, a := range scriptArgs {
		argVals[i] = interp.String(a)
	}
	env.Root.Set("*args*", interp.VectorValue(interp.NewVector(argVals)))
	return runSource(ev, env, string(data), path)
}

// runPipedStdin handles the "stdin is not a TTY" mode of spec §6: read
// stdin to completion and evaluate it as one script, no prompt, no
// line editor.
func runPipedStdin(ev *interp.Evaluator, env *interp.Environment) error {
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return err
	}
	return runSource(ev, env, string(data), "<stdin>")
}

// runInteractive is the REPL loop: prompt, read a line via readline,
// evaluate, print, repeat — reap_procs before each prompt, interrupt flag
// cleared before each prompt (spec §5 "Ordering guarantees"/"Cancellation"),
// grounded on shell.rs's start_interactive loop shape.
func runInteractive(ev *interp.Evaluator, env *interp.Environment, procs *process.Manager) error {
	rl, err := readline.New(prompt(ev, env))
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		procs.Reap()
		env.ClearInterrupt()
		rl.SetPrompt(prompt(ev, env))

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil // EOF: exit cleanly
		}
		if line == "" {
			continue
		}

		exprs, perr := reader.New().Parse(line)
		if perr != nil {
			fmt.Fprintln(os.Stderr, color.RedString("parse error: %v", perr))
			continue
		}
		for _, expr := range exprs {
			v, eerr := ev.Eval(env, expr)
			if eerr != nil {
				if ee, ok := eerr.(*interp.EvalError); ok && ee.Kind == interp.ErrExitRequested {
					os.Exit(ee.ExitCode)
				}
				fmt.Fprintln(os.Stderr, color.RedString("error: %v", eerr))
				continue
			}
			if !v.IsNil() {
				fmt.Println(v.String())
			}
		}
	}
}

// prompt renders the current prompt string: a user-defined `__prompt`
// lambda/value in the root scope takes priority, otherwise a default
// hostname:cwd(slsh)> banner (spec's original get_prompt, shell.rs).
func prompt(ev *interp.Evaluator, env *interp.Environment) string {
	if v, ok := env.Root.Get("__prompt"); ok {
		prior := env.SaveExitStatus
		env.SaveExitStatus = false
		defer func() { env.SaveExitStatus = prior }()

		var result interp.Value
		var err error
		if v.Kind() == interp.KindLambda {
			result, err = interp.Call(ev, env, v, nil)
		} else {
			result, err = ev.Eval(env, v)
		}
		if err != nil {
			return "ERROR> "
		}
		return result.ToString()
	}

	host, _ := os.Hostname()
	if host == "" {
		host = "slsh"
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}
	return fmt.Sprintf("%s:%s(slsh)> ", host, cwd)
}
