package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
)

// Mock Process
type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func withProcesses(t *testing.T, self int, procs map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpidFunc
	t.Cleanup(func() {
		findProcessFunc, getpidFunc = oldFind, oldPid
	})
	getpidFunc = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := procs[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", "127.0.0.1:8080|4242\n", false},
		{"malformed", "127.0.0.1:8080", true},
		{"empty addr", "|4242", true},
		{"bad pid", "127.0.0.1:8080|abc", true},
		{"zero pid", "127.0.0.1:8080|0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".lock")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			owner, err := Read(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (owner.Addr != "127.0.0.1:8080" || owner.PID != 4242) {
				t.Errorf("unexpected owner %+v", owner)
			}
		})
	}
}

func TestAcquireAndRelease(t *testing.T) {
	withProcesses(t, 100, map[int]string{100: "habitlit"})
	path := filepath.Join(t.TempDir(), "serve.lock")

	if err := Acquire(path, "127.0.0.1:9000"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	owner, ok := Running(path)
	if !ok || owner.PID != 100 || owner.Addr != "127.0.0.1:9000" {
		t.Errorf("expected lock held by pid 100, got %+v (running=%v)", owner, ok)
	}

	if err := Release(path); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lockfile should be removed on release")
	}
	if err := Release(path); err != nil {
		t.Errorf("releasing a missing lockfile should be a no-op, got %v", err)
	}
}

func TestAcquireHeldByAnotherServer(t *testing.T) {
	withProcesses(t, 100, map[int]string{200: "habitlit"})
	path := filepath.Join(t.TempDir(), "serve.lock")
	os.WriteFile(path, []byte("127.0.0.1:8080|200"), 0600)

	err := Acquire(path, "127.0.0.1:9000")
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	if err := Release(path); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("another server's lockfile must not be removed")
	}
}

func TestAcquireReplacesStaleLock(t *testing.T) {
	tests := map[string]map[int]string{
		"process gone":        {},
		"pid reused by other": {200: "bash"},
	}

	for name, procs := range tests {
		t.Run(name, func(t *testing.T) {
			withProcesses(t, 100, procs)
			path := filepath.Join(t.TempDir(), "serve.lock")
			os.WriteFile(path, []byte("127.0.0.1:8080|200"), 0600)

			if err := Acquire(path, "127.0.0.1:9000"); err != nil {
				t.Fatalf("Acquire failed: %v", err)
			}
			owner, err := Read(path)
			if err != nil || owner.PID != 100 {
				t.Errorf("expected lock rewritten for pid 100, got %+v (%v)", owner, err)
			}
		})
	}
}
