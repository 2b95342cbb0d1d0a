// Package lock guards the store with a PID lockfile so only one studyline
// process writes at a time.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/studyline/internal/constants"
	"github.com/julianstephens/studyline/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrLocked is returned when another live studyline process holds the lock.
var ErrLocked = errors.New("another studyline process is writing to this store")

// Lock is a held writer lock.
type Lock struct {
	path string
}

// Path returns the lockfile location for a store living in dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire takes the writer lock in dir. A lockfile left behind by a process
// that is no longer running is removed and the lock taken over.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := Path(dir)

	var lastErr error
	for attempt := 0; attempt < constants.LockAcquireTries; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s", getpidFunc(), time.Now().UTC().Format(time.RFC3339))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		pid, held := holder(path)
		if held {
			lastErr = fmt.Errorf("%w (pid %d, lockfile %s)", ErrLocked, pid, path)
			time.Sleep(constants.LockRetryDelay)
			continue
		}

		logger.Warn("Removing stale lockfile", "path", path, "pid", pid)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w (lockfile %s)", ErrLocked, path)
	}
	return nil, lastErr
}

// holder reads the lockfile and reports whether its PID belongs to a running
// studyline process.
func holder(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	parts := strings.SplitN(strings.TrimSpace(string(content)), "|", 2)
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	return pid, strings.HasPrefix(process.Executable(), constants.AppName)
}

// Release removes the lockfile. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
