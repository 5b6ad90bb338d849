package gateway

import (
	"context"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
)

// HabitsAPI is create/getAll/update/delete for habits
type HabitsAPI struct {
	g *Gateway
}

func (a *HabitsAPI) Create(ctx context.Context, in models.NewHabit) (models.Habit, error) {
	if err := a.g.lock(ctx); err != nil {
		return models.Habit{}, err
	}
	defer a.g.mu.Unlock()

	now := a.g.now()
	habit := models.Habit{
		ID:           a.g.newID(),
		UserID:       in.UserID,
		CategoryID:   in.CategoryID,
		Name:         in.Name,
		Description:  in.Description,
		Frequency:    in.Frequency,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		ReminderTime: in.ReminderTime,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.g.store.AddHabit(ctx, habit); err != nil {
		return models.Habit{}, err
	}

	logger.Debug("Habit created", "id", habit.ID, "name", habit.Name)
	return habit, nil
}

func (a *HabitsAPI) GetAll(ctx context.Context) ([]models.Habit, error) {
	if err := a.g.lock(ctx); err != nil {
		return nil, err
	}
	defer a.g.mu.Unlock()
	return a.g.store.GetAllHabits(ctx)
}

func (a *HabitsAPI) Get(ctx context.Context, id string) (models.Habit, error) {
	if err := a.g.lock(ctx); err != nil {
		return models.Habit{}, err
	}
	defer a.g.mu.Unlock()

	habit, err := a.g.store.GetHabit(ctx, id)
	if err != nil {
		return models.Habit{}, notFound("Habit", id, err)
	}
	return habit, nil
}

// Update merges patch into the stored habit and refreshes updated_at
func (a *HabitsAPI) Update(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	if err := a.g.lock(ctx); err != nil {
		return models.Habit{}, err
	}
	defer a.g.mu.Unlock()

	current, err := a.g.store.GetHabit(ctx, id)
	if err != nil {
		return models.Habit{}, notFound("Habit", id, err)
	}

	merged := patch.Apply(current)
	merged.UpdatedAt = a.g.now()
	if err := a.g.store.UpdateHabit(ctx, merged); err != nil {
		return models.Habit{}, notFound("Habit", id, err)
	}

	logger.Debug("Habit updated", "id", id)
	return merged, nil
}

// Delete removes a habit. Deleting a missing id succeeds.
func (a *HabitsAPI) Delete(ctx context.Context, id string) error {
	if err := a.g.lock(ctx); err != nil {
		return err
	}
	defer a.g.mu.Unlock()

	if err := a.g.store.DeleteHabit(ctx, id); err != nil {
		return err
	}
	logger.Debug("Habit deleted", "id", id)
	return nil
}
