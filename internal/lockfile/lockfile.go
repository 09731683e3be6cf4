// Package lockfile keeps a single long-running habitual process per config
// directory. A lock left behind by a dead process is reclaimed.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// writeGrace is how long an unreadable lock file is assumed to belong to a
// process that is still writing it.
const writeGrace = 5 * time.Second

// Lock is a held lockfile.
type Lock struct {
	path     string
	acquired bool
}

// LockError reports a lockfile held by a live process.
type LockError struct {
	Path string
	PID  int
}

func (e *LockError) Error() string {
	if e.PID == 0 {
		return fmt.Sprintf("another %s process is creating %s; try again shortly", constants.AppName, e.Path)
	}
	return fmt.Sprintf("another %s process (PID %d) holds %s; remove the file if that process is not habitual",
		constants.AppName, e.PID, e.Path)
}

// Acquire creates name inside dir exclusively, recording the current PID.
func Acquire(dir, name string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)

	// One retry after reclaiming a stale lock.
	for attempt := 0; attempt < 2; attempt++ {
		err := create(path)
		if err == nil {
			logger.Debug("Lock acquired", "path", path, "pid", getpidFunc())
			return &Lock{path: path, acquired: true}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file %s: %w", path, err)
		}

		pid, alive := holder(path)
		if alive {
			return nil, &LockError{Path: path, PID: pid}
		}
		logger.Warn("Removing stale lock file", "path", path, "pid", pid)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock file %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("failed to acquire lock %s", path)
}

// create writes the PID to a temporary file and links it into place, so the
// lock never appears without its content.
func create(path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.WriteString(strconv.Itoa(getpidFunc()) + "\n"); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Link(tmp, path)
}

// holder reads the PID from the lock file and reports whether that process
// is still a running habitual. A file without a PID counts as held until it
// is older than writeGrace.
func holder(path string) (int, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, time.Since(info.ModTime()) < writeGrace
	}
	if pid == getpidFunc() {
		return pid, true
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	return pid, strings.HasPrefix(process.Executable(), constants.AppName)
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || !l.acquired {
		return nil
	}
	l.acquired = false
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file %s: %w", l.path, err)
	}
	logger.Debug("Lock released", "path", l.path)
	return nil
}
