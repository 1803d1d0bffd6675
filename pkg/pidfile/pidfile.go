// Package pidfile tracks a process's PID file. The file holds the
// decimal pid followed by a newline, stays exclusively flock'd for the
// process lifetime as a guard against a second instance, and is
// removed again at shutdown by the process that created it.
package pidfile

import (
	"fmt"
	"os"

	"github.com/grafana/dskit/multierror"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Pidfile tracks at most one active PID file. It is not safe for
// concurrent use; it is meant to be owned by the process's top-level
// lifecycle code, which calls Close from its shutdown path.
type Pidfile struct {
	path  string
	file  *os.File
	owner int
}

// New creates and returns a new Pidfile tracking nothing.
func New() *Pidfile {
	return &Pidfile{}
}

// Write records the current process id in the file at path and takes a
// blocking exclusive advisory lock on it, replacing any previously
// tracked file. An empty path is a no-op: the process simply runs
// without a PID file. On failure nothing stays tracked, no handle is
// left open, and the originating OS error remains reachable through
// the returned error.
func (p *Pidfile) Write(path string) error {
	if path == "" {
		return nil
	}

	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
	p.path = path

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		p.path = ""
		return errors.Wrap(err, "open pid file")
	}
	p.file = f

	pid := os.Getpid()
	if _, err := fmt.Fprintf(f, "%d\n", pid); err != nil {
		return p.fail(errors.Wrap(err, "write pid file"))
	}
	if err := f.Sync(); err != nil {
		return p.fail(errors.Wrap(err, "sync pid file"))
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return p.fail(errors.Wrap(err, "lock pid file"))
	}

	// The owning pid latches on the first successful write only, so a
	// later Write from the same process keeps the original owner.
	if p.owner == 0 {
		p.owner = pid
	}

	return nil
}

// fail tears down the partially written file and clears all tracked
// state so the error path leaves nothing behind.
func (p *Pidfile) fail(err error) error {
	_ = os.Remove(p.path)
	p.path = ""
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
	p.owner = 0
	return err
}

// Close removes the tracked PID file and releases its lock. It does
// nothing unless the calling process is the one that created the file:
// a forked child inheriting the open handle must not delete the
// parent's PID file. Safe to call more than once.
func (p *Pidfile) Close() error {
	if p.path == "" || os.Getpid() != p.owner {
		return nil
	}

	errs := multierror.New()
	errs.Add(os.Remove(p.path))
	if p.file != nil {
		errs.Add(p.file.Close())
		p.file = nil
	}
	p.path = ""
	p.owner = 0

	return errs.Err()
}

// Path returns the currently tracked PID file path, or "" when none is
// tracked.
func (p *Pidfile) Path() string {
	return p.path
}
