package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// snapshot is the serializable state of a MemoryStore
type snapshot struct {
	Version      int                  `json:"version"`
	Habits       []models.Habit       `json:"habits"`
	HabitLogs    []models.HabitLog    `json:"habit_logs"`
	Achievements []models.Achievement `json:"achievements"`
}

// MemoryStore keeps every collection in process memory.
// It is safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	loaded       bool
	habits       []models.Habit
	logs         []models.HabitLog
	achievements []models.Achievement
	logsByKey    map[string]string // habit_id|date -> log id
}

// NewMemoryStore returns an empty store that is ready for use
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

func (s *MemoryStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *MemoryStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.reset()
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return constants.MemoryStorePath
}

func (s *MemoryStore) reset() {
	s.habits = nil
	s.logs = nil
	s.achievements = nil
	s.logsByKey = make(map[string]string)
	s.loaded = true
}

func (s *MemoryStore) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		Version:      1,
		Habits:       append([]models.Habit(nil), s.habits...),
		HabitLogs:    append([]models.HabitLog(nil), s.logs...),
		Achievements: append([]models.Achievement(nil), s.achievements...),
	}
}

// restore replaces the store contents. Logs that repeat a (habit_id, date)
// pair are kept, but only the first one is indexed.
func (s *MemoryStore) restore(data snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.habits = append(s.habits, data.Habits...)
	s.logs = append(s.logs, data.HabitLogs...)
	s.achievements = append(s.achievements, data.Achievements...)
	for _, l := range s.logs {
		key := logKey(l.HabitID, l.Date)
		if _, ok := s.logsByKey[key]; !ok {
			s.logsByKey[key] = l.ID
		}
	}
}

// Habits

func (s *MemoryStore) AddHabit(_ context.Context, habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if s.habitIndex(habit.ID) >= 0 {
		return fmt.Errorf("habit with id %s already exists", habit.ID)
	}
	s.habits = append(s.habits, habit)
	return nil
}

func (s *MemoryStore) GetHabit(_ context.Context, id string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.habitIndex(id)
	if i < 0 {
		return models.Habit{}, ErrNotFound
	}
	return s.habits[i], nil
}

func (s *MemoryStore) GetAllHabits(_ context.Context) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return append([]models.Habit{}, s.habits...), nil
}

func (s *MemoryStore) UpdateHabit(_ context.Context, habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.habitIndex(habit.ID)
	if i < 0 {
		return ErrNotFound
	}
	s.habits[i] = habit
	return nil
}

func (s *MemoryStore) DeleteHabit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.habitIndex(id); i >= 0 {
		s.habits = append(s.habits[:i:i], s.habits[i+1:]...)
	}
	return nil
}

func (s *MemoryStore) habitIndex(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// Habit logs

func (s *MemoryStore) AddHabitLog(_ context.Context, log models.HabitLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if _, ok := s.logsByKey[logKey(log.HabitID, log.Date)]; ok {
		return ErrConflict
	}
	s.insertLog(log)
	return nil
}

func (s *MemoryStore) insertLog(log models.HabitLog) {
	s.logs = append(s.logs, log)
	s.logsByKey[logKey(log.HabitID, log.Date)] = log.ID
}

func (s *MemoryStore) GetHabitLog(_ context.Context, id string) (models.HabitLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.logIndex(id)
	if i < 0 {
		return models.HabitLog{}, ErrNotFound
	}
	return s.logs[i], nil
}

func (s *MemoryStore) GetAllHabitLogs(_ context.Context) ([]models.HabitLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return append([]models.HabitLog{}, s.logs...), nil
}

func (s *MemoryStore) GetHabitLogsForDay(_ context.Context, day string) ([]models.HabitLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []models.HabitLog{}
	for _, l := range s.logs {
		if l.Date == day {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

func (s *MemoryStore) GetHabitLogsForHabit(_ context.Context, habitID, startDay, endDay string) ([]models.HabitLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []models.HabitLog{}
	for _, l := range s.logs {
		if l.HabitID == habitID && l.Date >= startDay && l.Date <= endDay {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

func (s *MemoryStore) UpdateHabitLog(_ context.Context, log models.HabitLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.logIndex(log.ID)
	if i < 0 {
		return ErrNotFound
	}
	prev := s.logs[i]
	oldKey, newKey := logKey(prev.HabitID, prev.Date), logKey(log.HabitID, log.Date)
	if oldKey != newKey {
		if _, taken := s.logsByKey[newKey]; taken {
			return ErrConflict
		}
		if s.logsByKey[oldKey] == prev.ID {
			delete(s.logsByKey, oldKey)
		}
		s.logsByKey[newKey] = log.ID
	}
	s.logs[i] = log
	return nil
}

func (s *MemoryStore) UpsertHabitLog(_ context.Context, log models.HabitLog) (models.HabitLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return models.HabitLog{}, ErrNotLoaded
	}
	if id, ok := s.logsByKey[logKey(log.HabitID, log.Date)]; ok {
		i := s.logIndex(id)
		existing := s.logs[i]
		existing.Status = log.Status
		existing.Notes = log.Notes
		existing.UpdatedAt = log.UpdatedAt
		s.logs[i] = existing
		return existing, nil
	}
	s.insertLog(log)
	return log, nil
}

func (s *MemoryStore) logIndex(id string) int {
	for i, l := range s.logs {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Achievements

func (s *MemoryStore) AddAchievement(_ context.Context, achievement models.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	s.achievements = append(s.achievements, achievement)
	return nil
}

func (s *MemoryStore) GetAllAchievements(_ context.Context) ([]models.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return append([]models.Achievement{}, s.achievements...), nil
}
