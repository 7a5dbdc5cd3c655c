package beacon

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 10 * time.Millisecond

// File appends each payload as a line to a local file. An exclusive lock on a sibling
// ".lock" file serializes writers across processes.
type File struct {
	*queue
	path string
	lock *flock.Flock
}

// NewFile returns a Sender appending payloads to path.
func NewFile(path string, opts ...Option) *File {
	o := buildOptions(opts)
	f := &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}
	f.queue = newQueue("file://"+path, o, f.append)
	return f
}

func (f *File) append(ctx context.Context, payload []byte) error {
	locked, err := f.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", f.path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", f.path)
	}
	defer f.lock.Unlock()

	out, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	line := append(append([]byte(nil), payload...), '\n')
	if _, err := out.Write(line); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
