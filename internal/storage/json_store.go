package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/habitlit/internal/models"
)

// JSONStore is a MemoryStore persisted to a single JSON file after every write.
type JSONStore struct {
	*MemoryStore
	path   string
	saveMu sync.Mutex
	ready  bool
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		MemoryStore: NewMemoryStore(),
		path:        configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	if err := s.MemoryStore.Init(); err != nil {
		return err
	}
	s.ready = true
	return s.save()
}

func (s *JSONStore) Load() error {
	if s.ready {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitlit init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.MemoryStore.restore(snap)
	s.ready = true
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.write()
}

func (s *JSONStore) write() error {
	data, err := json.MarshalIndent(s.MemoryStore.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write to a temp file and rename so a crash never leaves a truncated file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

// mutate applies fn to the in-memory store and writes the file. When the
// write fails the in-memory state is rolled back, so a rejected change is
// never visible or saved later.
func (s *JSONStore) mutate(fn func() error) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	before := s.MemoryStore.snapshot()
	if err := fn(); err != nil {
		return err
	}
	if err := s.write(); err != nil {
		s.MemoryStore.restore(before)
		return err
	}
	return nil
}

func (s *JSONStore) checkReady() error {
	if !s.ready {
		return ErrNotLoaded
	}
	return nil
}

func (s *JSONStore) AddHabit(ctx context.Context, habit models.Habit) error {
	return s.mutate(func() error { return s.MemoryStore.AddHabit(ctx, habit) })
}

func (s *JSONStore) UpdateHabit(ctx context.Context, habit models.Habit) error {
	return s.mutate(func() error { return s.MemoryStore.UpdateHabit(ctx, habit) })
}

func (s *JSONStore) DeleteHabit(ctx context.Context, id string) error {
	return s.mutate(func() error { return s.MemoryStore.DeleteHabit(ctx, id) })
}

func (s *JSONStore) AddHabitLog(ctx context.Context, log models.HabitLog) error {
	return s.mutate(func() error { return s.MemoryStore.AddHabitLog(ctx, log) })
}

func (s *JSONStore) UpdateHabitLog(ctx context.Context, log models.HabitLog) error {
	return s.mutate(func() error { return s.MemoryStore.UpdateHabitLog(ctx, log) })
}

func (s *JSONStore) UpsertHabitLog(ctx context.Context, log models.HabitLog) (models.HabitLog, error) {
	var stored models.HabitLog
	err := s.mutate(func() error {
		var err error
		stored, err = s.MemoryStore.UpsertHabitLog(ctx, log)
		return err
	})
	if err != nil {
		return models.HabitLog{}, err
	}
	return stored, nil
}

func (s *JSONStore) AddAchievement(ctx context.Context, achievement models.Achievement) error {
	return s.mutate(func() error { return s.MemoryStore.AddAchievement(ctx, achievement) })
}
