// Package process implements the process & pipeline manager (spec §4.5,
// §4.6 job table, §5 concurrency/resource model): spawning children,
// tracking jobs, reaping exit status, and moving jobs between foreground
// and background. Pipeline stage sequencing itself lives in the interp
// package's `pipe` form, which spawns each stage through this package.
//
// Grounded on edirooss-zmux-server's internal/infrastructure/processmgr
// (process group isolation via SysProcAttr, zap lifecycle logging,
// process-group signalling) and mvdan-sh's interp/runner.go (foreground
// job terminal control). Uses golang.org/x/sys for process-group
// signalling and golang.org/x/term for the `fg` terminal attribute dance,
// golang.org/x/sync/errgroup in the DrainAll helper, and go.uber.org/zap +
// google/uuid for per-job correlation in logs (see SPEC_FULL.md DOMAIN
// STACK).
package process

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// IOKind is the five-way redirection mode named in spec §4.5.
type IOKind int

const (
	Inherit IOKind = iota
	Null
	Pipe
	FileOverwrite
	FileAppend
)

// IOStatus pairs an IOKind with the path FileOverwrite/FileAppend need.
type IOStatus struct {
	Kind IOKind
	Path string
}

// Status is a Process value's Running/Over tag (spec §3 table).
type Status int

const (
	Running Status = iota
	Over
)

// Handle is the systems-level twin of the spec's Process value; the
// interp package wraps it as a Value via Process (process_value.go).
type Handle struct {
	mu       sync.Mutex
	cmd      *exec.Cmd
	pid      int
	status   Status
	exitCode int
	stdout   io.ReadCloser // non-nil when stdout routed to Pipe
	pgid     int
}

func (h *Handle) Pid() int { return h.pid }

func (h *Handle) Snapshot() (Status, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status, h.exitCode
}

// Stdout returns the pipe read end when stdout was routed to Pipe, so a
// caller (e.g. the pipe form draining a stage into the next) can read it.
func (h *Handle) Stdout() io.ReadCloser { return h.stdout }

func (h *Handle) setExited(code int) {
	h.mu.Lock()
	h.status = Over
	h.exitCode = code
	h.mu.Unlock()
}

// Spec is the argv/env/redirection description of a command to spawn.
type Spec struct {
	Argv         []string
	Env          []string // nil means inherit os.Environ()
	Stdout       IOStatus
	Stderr       IOStatus
	Stdin        io.Reader // nil means inherit
	Background   bool
	PipelinePgid int // 0 means "become the process-group leader"
}

// Manager owns the job table and spawns/reaps children. It corresponds to
// the `jobs`, `procs`, `stopped_procs` fields of the spec §3 Environment.
type Manager struct {
	log *zap.Logger

	mu      sync.Mutex
	jobs    []*Job
	procs   map[int]*Handle
	stopped []int
}

func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log, procs: map[int]*Handle{}}
}

// JobStatus mirrors spec §4.5 {Running, Stopped}.
type JobStatus int

const (
	JobRunning JobStatus = iota
	JobStopped
)

// Job is an ordered pipeline of pids tracked for bg/fg/jobs (spec §4.5).
type Job struct {
	ID       string // correlation id (google/uuid), used only in log lines
	Pids     []int
	Names    []string
	Status   JobStatus
	Handles  []*Handle
	Pgid     int
}

// Spawn starts one child process per Spec and returns its Handle. The
// child joins the process group identified by spec.PipelinePgid, or
// becomes a new group leader when that is zero and the command is not
// backgrounded onto an existing group.
func (m *Manager) Spawn(spec Spec) (*Handle, error) {
	if len(spec.Argv) == 0 {
		return nil, fmt.Errorf("process: empty argv")
	}
	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...)
	if spec.Env != nil {
		cmd.Env = spec.Env
	}
	if spec.Stdin != nil {
		cmd.Stdin = spec.Stdin
	} else {
		cmd.Stdin = os.Stdin
	}

	var stdoutPipe io.ReadCloser
	switch spec.Stdout.Kind {
	case Inherit:
		cmd.Stdout = os.Stdout
	case Null:
		cmd.Stdout = nil
	case Pipe:
		rc, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("process: stdout pipe: %w", err)
		}
		stdoutPipe = rc
	case FileOverwrite:
		f, err := os.Create(spec.Stdout.Path)
		if err != nil {
			return nil, fmt.Errorf("process: open %s: %w", spec.Stdout.Path, err)
		}
		cmd.Stdout = f
	case FileAppend:
		f, err := os.OpenFile(spec.Stdout.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("process: open %s: %w", spec.Stdout.Path, err)
		}
		cmd.Stdout = f
	}

	switch spec.Stderr.Kind {
	case Inherit:
		cmd.Stderr = os.Stderr
	case Null:
		cmd.Stderr = nil
	case Pipe:
		// Pipe on stderr is attached via StderrPipe; only one of stdout/stderr
		// pipes is read back through the returned Handle at a time in
		// practice, mirroring the original's single-fd pipe model.
		rc, err := cmd.StderrPipe()
		if err != nil {
			return nil, fmt.Errorf("process: stderr pipe: %w", err)
		}
		_ = rc
	case FileOverwrite:
		f, err := os.Create(spec.Stderr.Path)
		if err != nil {
			return nil, fmt.Errorf("process: open %s: %w", spec.Stderr.Path, err)
		}
		cmd.Stderr = f
	case FileAppend:
		f, err := os.OpenFile(spec.Stderr.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("process: open %s: %w", spec.Stderr.Path, err)
		}
		cmd.Stderr = f
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    spec.PipelinePgid,
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("process: start %v: %w", spec.Argv, err)
	}

	pid := cmd.Process.Pid
	pgid := spec.PipelinePgid
	if pgid == 0 {
		pgid = pid
	}
	h := &Handle{cmd: cmd, pid: pid, status: Running, stdout: stdoutPipe, pgid: pgid}

	m.mu.Lock()
	m.procs[pid] = h
	m.mu.Unlock()

	m.log.Info("spawned process",
		zap.Int("pid", pid), zap.Strings("argv", spec.Argv), zap.Bool("background", spec.Background))

	return h, nil
}

// RegisterJob records a freshly spawned command (or pipeline) as a job.
func (m *Manager) RegisterJob(names []string, handles []*Handle) *Job {
	pids := make([]int, len(handles))
	for i, h := range handles {
		pids[i] = h.pid
	}
	job := &Job{ID: uuid.NewString(), Pids: pids, Names: names, Status: JobRunning, Handles: handles}
	if len(handles) > 0 {
		job.Pgid = handles[0].pgid
	}
	m.mu.Lock()
	m.jobs = append(m.jobs, job)
	m.mu.Unlock()
	return job
}

// Jobs returns a snapshot of the job table (spec §8 "job table consistency").
func (m *Manager) Jobs() []*Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Job, len(m.jobs))
	copy(out, m.jobs)
	return out
}

// removeJob deletes a job once every pid in it has been reaped.
func (m *Manager) removeJob(job *Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, j := range m.jobs {
		if j == job {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			return
		}
	}
}

// signalGroup sends sig to the process group pgid; used by Kill.
func signalGroup(pgid int, sig syscall.Signal) error {
	return unix.Kill(-pgid, sig)
}

// Kill sends sig to a job's whole process group; Bg and Fg use it to
// continue a stopped job (SIGCONT). It never escalates to another signal.
func (m *Manager) Kill(job *Job, sig syscall.Signal) error {
	if job.Pgid == 0 {
		return fmt.Errorf("process: job has no process group")
	}
	m.log.Info("signalling job", zap.String("job_id", job.ID), zap.Int("pgid", job.Pgid), zap.Stringer("signal", sig))
	return signalGroup(job.Pgid, sig)
}
