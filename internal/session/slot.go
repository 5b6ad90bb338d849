package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitlit/internal/constants"
)

var (
	// ErrSlotEmpty is returned by Slot.Get when nothing is stored
	ErrSlotEmpty = errors.New("session slot is empty")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Slot is the durable key-value cell holding the serialized profile
type Slot interface {
	Get() ([]byte, error)
	Set(data []byte) error
	// Delete clears the slot. Clearing an empty slot is not an error.
	Delete() error
}

// NewSlot returns the slot for a backend name. dir is the data directory
// used by the file backend.
func NewSlot(backend, dir string) (Slot, error) {
	switch backend {
	case "", constants.SessionBackendFile:
		return NewFileSlot(filepath.Join(dir, constants.SessionFileName)), nil
	case constants.SessionBackendKey:
		return NewKeyringSlot(), nil
	case constants.SessionBackendMem:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q (expected %s, %s or %s)", backend,
			constants.SessionBackendFile, constants.SessionBackendKey, constants.SessionBackendMem)
	}
}

// FileSlot stores the profile in a JSON file readable only by the owner
type FileSlot struct {
	path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (s *FileSlot) Path() string {
	return s.path
}

func (s *FileSlot) Get() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return data, nil
}

func (s *FileSlot) Set(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *FileSlot) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// KeyringSlot stores the profile in the OS keyring
type KeyringSlot struct {
	service string
	user    string
}

func NewKeyringSlot() *KeyringSlot {
	return &KeyringSlot{service: constants.AppName, user: constants.DefaultKeyringUser}
}

func (s *KeyringSlot) Get() ([]byte, error) {
	data, err := keyring.Get(s.service, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return []byte(data), nil
}

func (s *KeyringSlot) Set(data []byte) error {
	if err := keyring.Set(s.service, s.user, string(data)); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

func (s *KeyringSlot) Delete() error {
	err := keyring.Delete(s.service, s.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	return nil
}

// KeyringAvailable is a best-effort check that the OS keyring can be read
func KeyringAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// MemorySlot keeps the profile for the life of the process
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Get() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Set(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *MemorySlot) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
