package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/slsh-lang/slsh/internal/process"
)

// Process is the value-model twin of a process.Handle (spec §3: Process is
// either Running(pid) or Over(pid, exit_status)).
type Process struct {
	handle *process.Handle
	pid    int
}

func NewProcess(h *process.Handle) *Process { return &Process{handle: h, pid: h.Pid()} }

func (p *Process) Pid() int { return p.pid }

// Status reports the live Running/Over state by consulting the handle,
// rather than caching it, so a Process value always reflects the most
// recent reap (spec §3 "Lifecycles": moved Running -> Over on reap).
func (p *Process) Status() (running bool, exitCode int) {
	st, code := p.handle.Snapshot()
	return st == process.Running, code
}

func (p *Process) Handle() *process.Handle { return p.handle }

func (p *Process) String() string {
	if running, _ := p.Status(); running {
		return fmt.Sprintf("(process :running %d)", p.pid)
	}
	_, code := p.Status()
	return fmt.Sprintf("(process :over %d %d)", p.pid, code)
}

// FileKind tags which of the six File states (spec §3 table) a File
// holds.
type FileKind int

const (
	FileStdin FileKind = iota
	FileStdout
	FileStderr
	FileReader
	FileWriter
	FileClosed
)

// File wraps one of {stdin, stdout, stderr, open-for-read, open-for-write,
// closed}. Buffered readers/writers are shared (spec §3 "Sharing &
// mutability"); closing is idempotent.
type File struct {
	kind   FileKind
	path   string
	reader io.ReadCloser
	writer io.WriteCloser
	closed bool
}

func StdinFile() *File  { return &File{kind: FileStdin} }
func StdoutFile() *File { return &File{kind: FileStdout} }
func StderrFile() *File { return &File{kind: FileStderr} }

func OpenReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{kind: FileReader, path: path, reader: f}, nil
}

func OpenWriteFile(path string, appendMode bool) (*File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{kind: FileWriter, path: path, writer: f}, nil
}

func (f *File) Kind() FileKind { return f.kind }

func (f *File) Reader() io.Reader {
	switch f.kind {
	case FileStdin:
		return os.Stdin
	case FileReader:
		return f.reader
	default:
		return nil
	}
}

func (f *File) Writer() io.Writer {
	switch f.kind {
	case FileStdout:
		return os.Stdout
	case FileStderr:
		return os.Stderr
	case FileWriter:
		return f.writer
	default:
		return nil
	}
}

// Close closes the underlying reader and/or writer and marks the File
// closed; a second call is a no-op. Nothing in the evaluator calls it
// automatically, and no finalizer is set on a File.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.kind = FileClosed
	var err error
	if f.reader != nil {
		err = f.reader.Close()
	}
	if f.writer != nil {
		if werr := f.writer.Close(); err == nil {
			err = werr
		}
	}
	return err
}

func (f *File) String() string {
	switch f.kind {
	case FileStdin:
		return "*stdin*"
	case FileStdout:
		return "*stdout*"
	case FileStderr:
		return "*stderr*"
	case FileReader:
		return fmt.Sprintf("(file :read %q)", f.path)
	case FileWriter:
		return fmt.Sprintf("(file :write %q)", f.path)
	default:
		return "(file :closed)"
	}
}
