package lock

import (
	"errors"
	"os"
	"testing"

	"github.com/mitchellh/go-ps"
)

type fakeProcess struct {
	pid int
	exe string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.exe }

func withProcesses(t *testing.T, running map[int]string) {
	t.Helper()
	oldFind := findProcessFunc
	t.Cleanup(func() { findProcessFunc = oldFind })
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := running[pid]
		if !ok {
			return nil, nil
		}
		return fakeProcess{pid: pid, exe: exe}, nil
	}
}

func withPID(t *testing.T, pid int) {
	t.Helper()
	old := getpidFunc
	t.Cleanup(func() { getpidFunc = old })
	getpidFunc = func() int { return pid }
}

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	withPID(t, 4242)
	withProcesses(t, map[int]string{4242: "studyline"})

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	content, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatalf("lockfile missing: %v", err)
	}
	if len(content) == 0 || string(content[:4]) != "4242" {
		t.Errorf("lockfile content = %q", content)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(Path(dir)); !os.IsNotExist(err) {
		t.Error("lockfile should be removed on release")
	}
}

func TestAcquireHeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()
	withPID(t, 100)
	withProcesses(t, map[int]string{100: "studyline"})

	first, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer first.Release()

	_, err = Acquire(dir)
	if !errors.Is(err, ErrLocked) {
		t.Errorf("second Acquire = %v, want ErrLocked", err)
	}
}

func TestAcquireTakesOverStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		running map[int]string
	}{
		{"dead process", "999|2025-01-01T00:00:00Z", map[int]string{}},
		{"pid reused by another program", "999|2025-01-01T00:00:00Z", map[int]string{999: "bash"}},
		{"malformed", "garbage", map[int]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			withPID(t, 1234)
			withProcesses(t, tt.running)

			if err := os.WriteFile(Path(dir), []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write lockfile: %v", err)
			}
			l, err := Acquire(dir)
			if err != nil {
				t.Fatalf("Acquire failed: %v", err)
			}
			defer l.Release()
		})
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("Release on nil lock = %v", err)
	}
}
