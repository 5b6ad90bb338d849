package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

var (
	// ErrNotFound is returned when a record with the requested id does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would create a second log for the same habit and day
	ErrConflict = errors.New("a log already exists for this habit and day")
	// ErrNotLoaded is returned when the store is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is the storage backend behind the persistence gateway.
//
// Implementations return records in insertion order and must reject a second
// HabitLog for the same (habit_id, date) pair with ErrConflict. UpsertHabitLog
// is a single atomic mutation keyed by that pair.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
	// DeleteHabit removes the habit. Deleting a missing id is a no-op.
	DeleteHabit(ctx context.Context, id string) error

	// Habit logs
	AddHabitLog(ctx context.Context, log models.HabitLog) error
	GetHabitLog(ctx context.Context, id string) (models.HabitLog, error)
	GetAllHabitLogs(ctx context.Context) ([]models.HabitLog, error)
	GetHabitLogsForDay(ctx context.Context, day string) ([]models.HabitLog, error)
	GetHabitLogsForHabit(ctx context.Context, habitID, startDay, endDay string) ([]models.HabitLog, error)
	UpdateHabitLog(ctx context.Context, log models.HabitLog) error
	// UpsertHabitLog inserts log, or when a log for the same habit and day exists,
	// overwrites its status, notes and updated_at while keeping id and created_at.
	// It returns the stored record.
	UpsertHabitLog(ctx context.Context, log models.HabitLog) (models.HabitLog, error)

	// Achievements
	AddAchievement(ctx context.Context, achievement models.Achievement) error
	GetAllAchievements(ctx context.Context) ([]models.Achievement, error)

	// Utils
	GetConfigPath() string
}

// logKey identifies the single log allowed per habit and day
func logKey(habitID, day string) string {
	return habitID + "|" + day
}

// Migrator is implemented by the SQL providers
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}

// New selects a provider from the configured path: a PostgreSQL connection
// string, ":memory:", a .json file, or otherwise a SQLite database file.
func New(path string) (Provider, error) {
	switch {
	case IsPostgresConnString(path):
		if err := ValidateConnString(path); err != nil {
			return nil, err
		}
		return NewPostgresStore(path), nil
	case path == constants.MemoryStorePath:
		return NewMemoryStore(), nil
	case strings.EqualFold(filepath.Ext(path), ".json"):
		return NewJSONStore(path), nil
	default:
		return NewSQLiteStore(path), nil
	}
}
