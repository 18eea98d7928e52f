package interp

import (
	"github.com/slsh-lang/slsh/internal/process"
)

// bootstrap.go assembles a fresh root scope with every special form
// installed and every pre-bound global seeded, the way the original's
// build_default_environment populates a new Environment before any user
// code runs (_examples/original_source/src/environment.rs, SPEC_FULL.md
// SUPPLEMENTED FEATURES).

// NewBaseEnvironment builds a ready-to-eval Environment: a root scope
// carrying every special form in spec §4.7, a process.Manager, and the
// pre-bound globals *stdin*/*stdout*/*stderr*/*ns*/*last-status*.
func NewBaseEnvironment(procs *process.Manager, isTTY bool) *Environment {
	env := NewEnvironment(procs)
	installCoreForms(env.Root)
	installScopeForms(env.Root)
	installControlForms(env.Root)
	installCompareForms(env.Root)
	installProcessForms(env.Root)
	installLoadForm(env.Root)

	env.Root.Set("*stdin*", FileValue(StdinFile()))
	env.Root.Set("*stdout*", FileValue(StdoutFile()))
	env.Root.Set("*stderr*", FileValue(StderrFile()))
	env.Root.Set("*ns*", Symbol("root"))
	env.Root.Set("*last-status*", Int(0))
	env.Root.Set("*args*", VectorValue(NewVector(nil)))
	env.Root.Set("*load-path*", VectorValue(NewVector(nil)))

	env.IsTTY = isTTY

	return env
}
