package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const lockWaitTimeout = 5 * time.Second

// findBinary locates a prebuilt studyline binary. STUDYLINE_BIN_DIR wins,
// otherwise ../../bin relative to this directory.
func findBinary(t *testing.T) string {
	t.Helper()
	binDir := os.Getenv("STUDYLINE_BIN_DIR")
	if binDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Failed to get cwd: %v", err)
		}
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	cliPath := filepath.Join(binDir, "studyline")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("studyline binary not found at %s; build it first", cliPath)
	}
	return cliPath
}

// isolatedEnv points HOME and the store at tempDir and drops any inherited
// studyline settings.
func isolatedEnv(tempDir string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "STUDYLINE_") {
			continue
		}
		env = append(env, e)
	}
	return append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
		fmt.Sprintf("STUDYLINE_CONFIG=%s", filepath.Join(tempDir, "studyline", "studyline.db")),
		"STUDYLINE_TIMEZONE=UTC",
	)
}

func TestEndToEndWorkflow(t *testing.T) {
	cliPath := findBinary(t)
	tempDir := t.TempDir()
	env := isolatedEnv(tempDir)

	runCmd(t, cliPath, env, "init")
	runCmd(t, cliPath, env, "plan", "init", "bio", "--start", "2025-01-06", "--day", "cells,dna", "--day", "enzymes")

	out := runCmd(t, cliPath, env, "plan", "toggle", "bio", "1", "cells")
	if !strings.Contains(out, "done") {
		t.Errorf("toggle output = %q", out)
	}

	out = runCmd(t, cliPath, env, "plan", "show", "bio")
	if !strings.Contains(out, "33%") {
		t.Errorf("plan show should report 33%%:\n%s", out)
	}

	for _, day := range []string{"2025-01-06", "2025-01-07", "2025-01-08"} {
		runCmd(t, cliPath, env, "--today", day, "streak", "record")
	}
	out = runCmd(t, cliPath, env, "--today", "2025-01-08", "streak", "show")
	if !strings.Contains(out, "Current: 3 day(s)") || !strings.Contains(out, "Getting Started") {
		t.Errorf("streak show after three days:\n%s", out)
	}

	out = runCmd(t, cliPath, env, "--today", "2025-01-08", "challenge", "today")
	if !strings.Contains(out, "Daily challenge 2025-01-08") {
		t.Errorf("challenge today output:\n%s", out)
	}
	again := runCmd(t, cliPath, env, "--today", "2025-01-08", "challenge", "today")
	if again != out {
		t.Error("the daily question must be stable within a day")
	}

	runCmd(t, cliPath, env, "backup", "create")
	out = runCmd(t, cliPath, env, "backup", "list")
	if !strings.Contains(out, "studyline-") {
		t.Errorf("backup list output:\n%s", out)
	}
}

func TestWriterLockIsExclusive(t *testing.T) {
	cliPath := findBinary(t)
	tempDir := t.TempDir()
	env := isolatedEnv(tempDir)
	runCmd(t, cliPath, env, "init")

	lockPath := filepath.Join(tempDir, "studyline", "studyline.lock")
	cmd := exec.Command(cliPath, "tui")
	cmd.Env = env
	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatalf("Failed to open stdin: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start tui: %v", err)
	}
	defer func() {
		_, _ = stdin.Write([]byte("q"))
		_ = stdin.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()
	waitForFile(t, lockPath, lockWaitTimeout)

	blocked := exec.Command(cliPath, "streak", "record")
	blocked.Env = env
	output, err := blocked.CombinedOutput()
	if err == nil {
		t.Fatalf("a second writer should be refused while the lock is held:\n%s", output)
	}
	if !strings.Contains(string(output), "another studyline process") {
		t.Errorf("unexpected error output:\n%s", output)
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func waitForFile(t *testing.T, path string, timeout time.Duration) {
	t.Helper()
	start := time.Now()
	for {
		if _, err := os.Stat(path); err == nil {
			return
		}
		if time.Since(start) > timeout {
			t.Fatalf("Timed out waiting for file: %s", path)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
