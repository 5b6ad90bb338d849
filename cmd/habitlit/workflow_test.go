package main

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
)

const (
	testLockfileTimeout = 30 * time.Second
	testShutdownTimeout = 15 * time.Second
)

// buildBinary compiles the CLI into dir. HABITLIT_BIN points at a prebuilt binary instead.
func buildBinary(t *testing.T, dir string) string {
	t.Helper()
	if bin := os.Getenv("HABITLIT_BIN"); bin != "" {
		return bin
	}
	bin := filepath.Join(dir, constants.AppName)
	build := exec.Command("go", "build", "-o", bin, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI: %v\nOutput: %s", err, out)
	}
	return bin
}

func TestEndToEndWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}

	tempDir := t.TempDir()
	cliPath := buildBinary(t, t.TempDir())
	dataDir := filepath.Join(tempDir, constants.AppName)

	// Isolate config, session and logs from the real home directory
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "HABITLIT_") {
			env = append(env, e)
		}
	}
	env = append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("HABITLIT_CONFIG=%s", filepath.Join(dataDir, "habitlit.db")),
		"HABITLIT_SESSION_BACKEND=file",
	)

	t.Log("Initializing CLI...")
	runCmd(t, cliPath, env, "init")
	runCmd(t, cliPath, env, "auth", "signup", "ada@example.com")
	runCmd(t, cliPath, env, "habit", "add", "Morning run", "--category", "1")

	out := runCmd(t, cliPath, env, "habit", "done", "Morning run")
	if !strings.Contains(out, "completed") {
		t.Errorf("unexpected done output: %s", out)
	}

	out = runCmd(t, cliPath, env, "habit", "today")
	if !strings.Contains(out, "[completed]") || !strings.Contains(out, "1/1 completed") {
		t.Errorf("unexpected today output: %s", out)
	}

	// A second submission for the same day is rejected without --force
	skip := exec.Command(cliPath, "habit", "skip", "Morning run")
	skip.Env = env
	if out, err := skip.CombinedOutput(); err == nil || !strings.Contains(string(out), "Error:") {
		t.Errorf("expected skip to fail after done, got %v: %s", err, out)
	}
	runCmd(t, cliPath, env, "habit", "skip", "Morning run", "--force")

	runCmd(t, cliPath, env, "backup", "create")
	if out := runCmd(t, cliPath, env, "doctor"); !strings.Contains(out, "All diagnostics passed!") {
		t.Errorf("unexpected doctor output: %s", out)
	}

	t.Log("Starting server...")
	addr := freeAddr(t)
	server := exec.Command(cliPath, "serve", "--addr", addr)
	server.Env = env
	var serverOut bytes.Buffer
	server.Stdout = &serverOut
	server.Stderr = &serverOut
	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer func() {
		if server.ProcessState == nil {
			_ = server.Process.Kill()
			_ = server.Wait()
		}
		if t.Failed() {
			t.Logf("Server output: %s", serverOut.String())
		}
	}()

	lockfilePath := filepath.Join(dataDir, constants.ServerLockfileName)
	waitForFile(t, lockfilePath, testLockfileTimeout)
	waitForHealth(t, "http://"+addr+"/health", testLockfileTimeout)

	second := exec.Command(cliPath, "serve", "--addr", freeAddr(t))
	second.Env = env
	if out, err := second.CombinedOutput(); err == nil || !strings.Contains(string(out), "already running") {
		t.Errorf("expected the second server to be refused, got %v: %s", err, out)
	}

	if err := server.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("Failed to interrupt server: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- server.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("server exited with error: %v", err)
		}
	case <-time.After(testShutdownTimeout):
		t.Fatal("Timed out waiting for server shutdown")
	}

	if _, err := os.Stat(lockfilePath); !os.IsNotExist(err) {
		t.Errorf("expected lockfile to be removed on shutdown, stat error: %v", err)
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

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	defer l.Close()
	return l.Addr().String()
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

func waitForHealth(t *testing.T, url string, timeout time.Duration) {
	t.Helper()
	start := time.Now()
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		if time.Since(start) > timeout {
			t.Fatalf("Timed out waiting for %s", url)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
