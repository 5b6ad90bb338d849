// Package lockfile records the address and PID of a running habitlit server so
// a second `serve` against the same data refuses to start.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitlit/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrAlreadyRunning is returned by Acquire when a live server owns the lock
var ErrAlreadyRunning = errors.New("a habitlit server is already running")

// Owner is the server recorded in a lockfile
type Owner struct {
	Addr string
	PID  int
}

// Read parses the lockfile at path. The file holds "addr|pid".
func Read(path string) (Owner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Owner{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Owner{}, errors.New("lockfile is malformed")
	}
	addr := strings.TrimSpace(parts[0])
	if addr == "" {
		return Owner{}, errors.New("address in lockfile is empty")
	}
	pid, err := strconv.Atoi(parts[1])
	if err != nil || pid <= 0 {
		return Owner{}, errors.New("invalid process ID in lockfile")
	}
	return Owner{Addr: addr, PID: pid}, nil
}

// Running reports whether the lockfile at path belongs to a live habitlit process
func Running(path string) (Owner, bool) {
	owner, err := Read(path)
	if err != nil {
		return Owner{}, false
	}
	process, err := findProcessFunc(owner.PID)
	if err != nil || process == nil {
		return owner, false
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return owner, false
	}
	return owner, true
}

// Acquire writes a lockfile for this process. A lockfile left by a process
// that is gone, or that is not habitlit, is replaced.
func Acquire(path, addr string) error {
	if owner, ok := Running(path); ok && owner.PID != getpidFunc() {
		return fmt.Errorf("%w (pid %d on %s)", ErrAlreadyRunning, owner.PID, owner.Addr)
	}
	data := fmt.Sprintf("%s|%d\n", addr, getpidFunc())
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return nil
}

// Release removes the lockfile if it still belongs to this process
func Release(path string) error {
	owner, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if owner.PID != getpidFunc() {
		return nil
	}
	return os.Remove(path)
}
