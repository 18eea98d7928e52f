package process

import (
	"bytes"
	"io"

	"golang.org/x/sync/errgroup"
)

// DrainAll reads every reader concurrently to completion and returns their
// collected bytes in argument order, so several streams of one child can
// be captured without the classic "child blocks writing stderr while
// parent is still reading stdout" deadlock. Nothing in this module calls
// it: the pipe form reads each stage with ReadString. Grounded on
// edirooss-zmux-server's process.supervise,
// which runs stdout/stderr drains as separate goroutines joined by a
// channel; this uses golang.org/x/sync/errgroup for the same shape with
// explicit error propagation.
func DrainAll(readers ...io.Reader) ([][]byte, error) {
	out := make([][]byte, len(readers))
	var g errgroup.Group
	for i, r := range readers {
		i, r := i, r
		if r == nil {
			continue
		}
		g.Go(func() error {
			buf, err := io.ReadAll(r)
			out[i] = buf
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// ReadString is a convenience for the common case of reading a single
// stream to completion; the pipe form uses it to read a stage's stdout or
// a read-file stage (a blocking read, spec §5 "Suspension points").
func ReadString(r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return buf.String(), err
	}
	return buf.String(), nil
}
