package interp

import (
	"os"
	"sync/atomic"

	"github.com/slsh-lang/slsh/internal/process"
)

// FormType gates whether bare symbols may resolve to external commands
// (spec §3 "Environment invariants", §4.7 `command`/`form`).
type FormType int

const (
	FormAny FormType = iota
	FormOnly
	FormExternalOnly
)

// IOStatus mirrors process.IOStatus at the Lisp-value layer so forms like
// `command`/redirection builtins never need to import the process
// package's syscall-flavored internals directly.
type IOStatus = process.IOStatus

// Environment is the per-interpreter mutable state of spec §2 item 3: scope
// stack, job/process tables (delegated to *process.Manager), I/O
// redirection status, form-evaluation mode, interrupt flag. One
// Environment is created at startup; `fn`-call scopes, dynamic bindings,
// and namespace pushes/pops all mutate fields of the *same* Environment,
// matching the original's single `Environment` struct
// (_examples/original_source/src/environment.rs).
type Environment struct {
	Root       *Scope
	ScopeStack []*Scope // never empty; bottom is Root (spec invariant)

	DynamicScope map[string]Value
	Namespaces   map[string]*Scope // every entry has parent == Root

	Procs *process.Manager

	FormType     FormType
	InPipe       bool
	RunBackground bool
	LooseSymbols bool
	NoExpand     bool // original's str_ignore_expand, see SPEC_FULL.md

	StdoutStatus IOStatus
	StderrStatus IOStatus

	SaveExitStatus bool
	StackOnError   bool

	GensymCount uint32

	// SigInt is the shared atomic SIGINT flag (spec §5 "Cancellation"); the
	// signal handler itself lives outside the evaluator's scope (spec §1
	// out-of-scope list) but the flag is part of the evaluator-visible
	// Environment.
	SigInt atomic.Bool

	ExitCode    *int // non-nil once `exit` has set a pending code
	EvalLevel   int
	LambdaDepth int // >0 while evaluating inside a lambda's body; gates `recur`
	DataIn      Value // current pipeline stage's input (spec §4.5 data_in)
	IsTTY       bool
}

// NewEnvironment builds the default environment: a fresh root scope
// registered as namespace "root", process manager, and the defaults listed
// in the original's build_default_environment.
func NewEnvironment(procs *process.Manager) *Environment {
	root := NewRootScope()
	env := &Environment{
		Root:           root,
		ScopeStack:     []*Scope{root},
		DynamicScope:   map[string]Value{},
		Namespaces:     map[string]*Scope{"root": root},
		Procs:          procs,
		FormType:       FormAny,
		SaveExitStatus: true,
		StdoutStatus:   IOStatus{Kind: process.Inherit},
		StderrStatus:   IOStatus{Kind: process.Inherit},
	}
	return env
}

// CurrentScope is the innermost scope: the top of ScopeStack.
func (env *Environment) CurrentScope() *Scope {
	return env.ScopeStack[len(env.ScopeStack)-1]
}

// PushScope pushes s as the new innermost scope.
func (env *Environment) PushScope(s *Scope) { env.ScopeStack = append(env.ScopeStack, s) }

// PopScope pops the innermost scope. It is a programming error to call
// this when only the root remains; lambda application and macro expansion
// pop exactly the scope they pushed, while ns-create/ns-enter push a
// namespace scope and leave it on the stack.
func (env *Environment) PopScope() {
	n := len(env.ScopeStack)
	env.ScopeStack = env.ScopeStack[:n-1]
}

// CheckInterrupt implements the single check_interrupt() choke point
// DESIGN NOTES recommends for the global interrupt flag.
func (env *Environment) CheckInterrupt() error {
	if env.SigInt.Load() {
		return &EvalError{Kind: ErrInterrupted, Message: "interrupted"}
	}
	return nil
}

// ClearInterrupt resets the SIGINT flag; called before each prompt (spec
// §5 "Cancellation").
func (env *Environment) ClearInterrupt() { env.SigInt.Store(false) }

// SetLastStatus writes the most recently completed external command's exit
// code into *last-status* and LAST_STATUS (spec §4.5), when
// SaveExitStatus is set.
func (env *Environment) SetLastStatus(code int) {
	if !env.SaveExitStatus {
		return
	}
	env.Root.Set("*last-status*", Int(int64(code)))
	_ = os.Setenv("LAST_STATUS", String(int64ToStr(code)).ToString())
}

func int64ToStr(i int) string {
	return Int(int64(i)).ToString()
}
