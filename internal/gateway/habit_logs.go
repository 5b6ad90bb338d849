package gateway

import (
	"context"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
)

// HabitLogsAPI is create/getAll/update for habit logs. Logs are never deleted.
type HabitLogsAPI struct {
	g *Gateway
}

// build stamps a new log. The date is stored as YYYY-MM-DD so that the
// (habit_id, date) key identifies one day.
func (a *HabitLogsAPI) build(in models.NewHabitLog) (models.HabitLog, error) {
	day, err := models.ParseDay(in.Date)
	if err != nil {
		return models.HabitLog{}, err
	}
	now := a.g.now()
	return models.HabitLog{
		ID:        a.g.newID(),
		HabitID:   in.HabitID,
		UserID:    in.UserID,
		Date:      day,
		Status:    in.Status,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Create appends a log. A second log for the same habit and day fails with storage.ErrConflict.
func (a *HabitLogsAPI) Create(ctx context.Context, in models.NewHabitLog) (models.HabitLog, error) {
	log, err := a.build(in)
	if err != nil {
		return models.HabitLog{}, err
	}
	if err := a.g.lock(ctx); err != nil {
		return models.HabitLog{}, err
	}
	defer a.g.mu.Unlock()

	if err := a.g.store.AddHabitLog(ctx, log); err != nil {
		return models.HabitLog{}, err
	}
	logger.Debug("Habit log created", "id", log.ID, "habit_id", log.HabitID, "date", log.Date)
	return log, nil
}

func (a *HabitLogsAPI) GetAll(ctx context.Context) ([]models.HabitLog, error) {
	if err := a.g.lock(ctx); err != nil {
		return nil, err
	}
	defer a.g.mu.Unlock()
	return a.g.store.GetAllHabitLogs(ctx)
}

func (a *HabitLogsAPI) GetForDay(ctx context.Context, day string) ([]models.HabitLog, error) {
	if err := a.g.lock(ctx); err != nil {
		return nil, err
	}
	defer a.g.mu.Unlock()
	return a.g.store.GetHabitLogsForDay(ctx, day)
}

func (a *HabitLogsAPI) GetForHabit(ctx context.Context, habitID, startDay, endDay string) ([]models.HabitLog, error) {
	if err := a.g.lock(ctx); err != nil {
		return nil, err
	}
	defer a.g.mu.Unlock()
	return a.g.store.GetHabitLogsForHabit(ctx, habitID, startDay, endDay)
}

// Update merges patch into the stored log and refreshes updated_at
func (a *HabitLogsAPI) Update(ctx context.Context, id string, patch models.HabitLogPatch) (models.HabitLog, error) {
	if patch.Date != nil {
		day, err := models.ParseDay(*patch.Date)
		if err != nil {
			return models.HabitLog{}, err
		}
		patch.Date = &day
	}
	if err := a.g.lock(ctx); err != nil {
		return models.HabitLog{}, err
	}
	defer a.g.mu.Unlock()

	current, err := a.g.store.GetHabitLog(ctx, id)
	if err != nil {
		return models.HabitLog{}, notFound("Log", id, err)
	}

	merged := patch.Apply(current)
	merged.UpdatedAt = a.g.now()
	if err := a.g.store.UpdateHabitLog(ctx, merged); err != nil {
		return models.HabitLog{}, notFound("Log", id, err)
	}

	logger.Debug("Habit log updated", "id", id)
	return merged, nil
}

// Upsert writes the log for (habit_id, date) in one step: it inserts when
// absent and otherwise overwrites status and notes, keeping id and created_at.
func (a *HabitLogsAPI) Upsert(ctx context.Context, in models.NewHabitLog) (models.HabitLog, error) {
	log, err := a.build(in)
	if err != nil {
		return models.HabitLog{}, err
	}
	if err := a.g.lock(ctx); err != nil {
		return models.HabitLog{}, err
	}
	defer a.g.mu.Unlock()

	stored, err := a.g.store.UpsertHabitLog(ctx, log)
	if err != nil {
		return models.HabitLog{}, err
	}
	logger.Debug("Habit log upserted", "id", stored.ID, "habit_id", stored.HabitID, "date", stored.Date, "status", stored.Status)
	return stored, nil
}
