package process

import (
	"io"
	"testing"
	"time"
)

// TestSpawnAndReap covers spec §8's "job table consistency" property: once a
// spawned process is reaped, it drops out of both the procs table and every
// job that referenced it.
func TestSpawnAndReap(t *testing.T) {
	m := NewManager(nil)

	h, err := m.Spawn(Spec{Argv: []string{"/bin/true"}})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	job := m.RegisterJob([]string{"true"}, []*Handle{h})

	if len(m.Jobs()) != 1 {
		t.Fatalf("expected 1 job before reap, got %d", len(m.Jobs()))
	}

	code, err := m.Wait(h.Pid())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	if len(m.Jobs()) != 0 {
		t.Fatalf("expected job to be removed after every pid reaped, got %v", m.Jobs())
	}
	_ = job
}

func TestSpawnCapturesStdoutPipe(t *testing.T) {
	m := NewManager(nil)

	h, err := m.Spawn(Spec{
		Argv:   []string{"/bin/echo", "hello"},
		Stdout: IOStatus{Kind: Pipe},
	})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	out, err := io.ReadAll(h.Stdout())
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if string(out) != "hello\n" {
		t.Fatalf("expected %q, got %q", "hello\n", out)
	}
	if _, err := m.Wait(h.Pid()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestReapIsNonBlocking(t *testing.T) {
	m := NewManager(nil)

	h, err := m.Spawn(Spec{Argv: []string{"/bin/sleep", "1"}})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	m.RegisterJob([]string{"sleep"}, []*Handle{h})

	start := time.Now()
	m.Reap()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("Reap blocked for %v on a running child", elapsed)
	}

	status, _ := h.Snapshot()
	if status != Running {
		t.Fatalf("expected still running immediately after spawn, got %v", status)
	}

	if _, err := m.Wait(h.Pid()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestMostRecentStoppedEmptyByDefault(t *testing.T) {
	m := NewManager(nil)
	if pid := m.MostRecentStopped(); pid != 0 {
		t.Fatalf("expected 0 with no stopped jobs, got %d", pid)
	}
}
