package process

import (
	"fmt"
	"os"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Reap non-blockingly polls every tracked child (spec §4.5 reap_procs). The
// REPL calls it before each prompt, the jobs/bg/fg forms call it before
// acting, and the pipe form calls it once its stages are done; the wait
// form does not call it first (spec §5 "Ordering guarantees"). No borrow of procs/jobs is
// held across a blocking call: the wait4 syscall itself is non-blocking
// here (WNOHANG), so there is no suspension point to worry about.
func (m *Manager) Reap() {
	m.mu.Lock()
	pids := make([]int, 0, len(m.procs))
	for pid := range m.procs {
		pids = append(pids, pid)
	}
	m.mu.Unlock()

	for _, pid := range pids {
		var ws unix.WaitStatus
		got, err := unix.Wait4(pid, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
		if err != nil || got == 0 {
			continue
		}
		m.mu.Lock()
		h := m.procs[pid]
		m.mu.Unlock()
		if h == nil {
			continue
		}
		switch {
		case ws.Stopped():
			m.markStopped(pid)
			m.log.Info("process stopped", zap.Int("pid", pid))
		case ws.Exited() || ws.Signaled():
			code := ws.ExitStatus()
			h.setExited(code)
			m.finishPid(pid)
			m.log.Info("reaped process", zap.Int("pid", pid), zap.Int("exit_code", code))
		}
	}
}

func (m *Manager) markStopped(pid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stopped {
		if s == pid {
			return
		}
	}
	m.stopped = append(m.stopped, pid)
	for _, j := range m.jobs {
		for _, p := range j.Pids {
			if p == pid {
				j.Status = JobStopped
			}
		}
	}
}

// finishPid removes pid from procs and stopped_procs, and drops the job
// once every one of its pids has been reaped (spec §3 invariant on jobs/
// procs/stopped_procs consistency).
func (m *Manager) finishPid(pid int) {
	m.mu.Lock()
	delete(m.procs, pid)
	for i, s := range m.stopped {
		if s == pid {
			m.stopped = append(m.stopped[:i], m.stopped[i+1:]...)
			break
		}
	}
	var job *Job
	for _, j := range m.jobs {
		allDone := true
		for _, p := range j.Pids {
			if _, live := m.procs[p]; live {
				allDone = false
			}
		}
		if allDone {
			for _, p := range j.Pids {
				if p == pid {
					job = j
				}
			}
		}
	}
	m.mu.Unlock()
	if job != nil {
		m.removeJob(job)
	}
}

// Wait blocks on a specific pid and returns its exit code (spec §4.5
// `wait`). The manager lock is never held across this blocking call.
func (m *Manager) Wait(pid int) (int, error) {
	m.mu.Lock()
	h := m.procs[pid]
	m.mu.Unlock()
	if h == nil {
		return 0, fmt.Errorf("process: no such pid %d", pid)
	}
	for {
		status, code := h.Snapshot()
		if status == Over {
			m.finishPid(pid)
			return code, nil
		}
		var ws unix.WaitStatus
		if _, err := unix.Wait4(pid, &ws, 0, nil); err != nil {
			return 0, err
		}
		if ws.Exited() || ws.Signaled() {
			h.setExited(ws.ExitStatus())
		} else if ws.Stopped() {
			m.markStopped(pid)
		}
	}
}

// MostRecentStopped returns the most recently stopped pid, or 0 if none, for
// `bg`/`fg` with no job-index argument.
func (m *Manager) MostRecentStopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stopped) == 0 {
		return 0
	}
	return m.stopped[len(m.stopped)-1]
}

func (m *Manager) jobForPid(pid int) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		for _, p := range j.Pids {
			if p == pid {
				return j
			}
		}
	}
	return nil
}

// Bg continues a stopped job in the background (SIGCONT), marking it
// Running again (spec §4.5 `bg`).
func (m *Manager) Bg(pid int) error {
	job := m.jobForPid(pid)
	if job == nil {
		return fmt.Errorf("process: no job for pid %d", pid)
	}
	if err := m.Kill(job, syscall.SIGCONT); err != nil {
		return err
	}
	m.mu.Lock()
	job.Status = JobRunning
	for i, s := range m.stopped {
		if s == pid {
			m.stopped = append(m.stopped[:i], m.stopped[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
	return nil
}

// Fg brings a job to the foreground: saves the shell's terminal attributes
// and foreground process group, hands the terminal to the job's group,
// waits for it, then restores both (spec §4.5 `fg`, §5 "Cancellation").
// Grounded on mvdan-sh's use of golang.org/x/term for the same dance.
func (m *Manager) Fg(pid int) (int, error) {
	job := m.jobForPid(pid)
	if job == nil {
		return 0, fmt.Errorf("process: no job for pid %d", pid)
	}

	fd := int(os.Stdin.Fd())
	var savedState *term.State
	if term.IsTerminal(fd) {
		var err error
		savedState, err = term.GetState(fd)
		if err != nil {
			savedState = nil
		}
	}

	if job.Status == JobStopped {
		if err := m.Kill(job, syscall.SIGCONT); err != nil {
			return 0, err
		}
		job.Status = JobRunning
	}
	_ = unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, job.Pgid)

	code, err := m.Wait(pid)

	_ = unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, unix.Getpgrp())
	if savedState != nil {
		_ = term.Restore(fd, savedState)
	}
	return code, err
}
