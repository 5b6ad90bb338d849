package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tracker"
	"github.com/julianstephens/habitlit/internal/tui/components/history"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List all habits."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
	Today  HabitTodayCmd  `cmd:"" help:"Show the habits due on a day."`
	Done   HabitDoneCmd   `cmd:"" help:"Mark a habit completed for a day."`
	Skip   HabitSkipCmd   `cmd:"" help:"Mark a habit skipped for a day."`
	Log    HabitLogCmd    `cmd:"" help:"Show completion history."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `short:"d" help:"Description."`
	Category    string `short:"c" help:"Category id (see 'habitlit category list')."`
	Frequency   string `short:"f" help:"Frequency (daily|weekly|monthly)." default:"daily" enum:"daily,weekly,monthly"`
	Start       string `short:"s" help:"Start date (YYYY-MM-DD). Defaults to today."`
	End         string `short:"e" help:"End date (YYYY-MM-DD)."`
	Reminder    string `short:"r" help:"Reminder time (HH:MM)."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, warnings, err := ctx.Tracker().CreateHabit(context.Background(), models.NewHabit{
		Name:         strings.TrimSpace(c.Name),
		Description:  models.StringPtr(c.Description),
		CategoryID:   models.StringPtr(c.Category),
		Frequency:    models.Frequency(c.Frequency),
		StartDate:    c.Start,
		EndDate:      models.StringPtr(c.End),
		ReminderTime: models.StringPtr(c.Reminder),
	})
	if err != nil {
		return err
	}

	ctx.printf("Added habit: %s (ID: %s)\n", habit.Name, habit.ID)
	for _, w := range warnings {
		ctx.printf("Warning: %s\n", w.Description)
	}
	return nil
}

type HabitListCmd struct {
	Category string `short:"c" help:"Only show habits in this category id."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	gw := ctx.Tracker().Gateway()
	habits, err := gw.Habits.GetAll(context.Background())
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.println("No habits found")
		return nil
	}

	ctx.println("Habits:")
	for _, h := range habits {
		if c.Category != "" && models.Deref(h.CategoryID) != c.Category {
			continue
		}
		category := "-"
		if cat, ok := gw.CategoryByID(models.Deref(h.CategoryID)); ok {
			category = cat.Name
		}
		ctx.printf("  %s  %-24s %-8s %-12s %s\n", shortID(h.ID), h.Name, h.Frequency, category, formatRange(h))
		if h.Description != nil {
			ctx.printf("            %s\n", *h.Description)
		}
	}
	return nil
}

func formatRange(h models.Habit) string {
	s := "from " + h.StartDate
	if h.EndDate != nil {
		s += " to " + *h.EndDate
	}
	if h.ReminderTime != nil {
		s += ", reminder " + *h.ReminderTime
	}
	return s
}

type HabitEditCmd struct {
	ID          string  `arg:"" help:"Habit id, id prefix or name."`
	Name        *string `help:"New name."`
	Description *string `short:"d" help:"New description (empty clears it)."`
	Category    *string `short:"c" help:"New category id (empty clears it)."`
	Frequency   *string `short:"f" help:"New frequency (daily|weekly|monthly)."`
	Start       *string `short:"s" help:"New start date (YYYY-MM-DD)."`
	End         *string `short:"e" help:"New end date (empty clears it)."`
	Reminder    *string `short:"r" help:"New reminder time (empty clears it)."`
}

func (c *HabitEditCmd) patch() (models.HabitPatch, error) {
	patch := models.HabitPatch{
		Name:         c.Name,
		Description:  c.Description,
		CategoryID:   c.Category,
		StartDate:    c.Start,
		EndDate:      c.End,
		ReminderTime: c.Reminder,
	}
	if c.Frequency != nil {
		f, err := models.ParseFrequency(*c.Frequency)
		if err != nil {
			return models.HabitPatch{}, err
		}
		patch.Frequency = &f
	}
	return patch, nil
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	patch, err := c.patch()
	if err != nil {
		return err
	}

	bg := context.Background()
	habit, err := ctx.resolveHabit(bg, c.ID)
	if err != nil {
		return err
	}

	result := ctx.Tracker().ValidatePatch(habit, patch)
	if result.HasErrors() {
		return &tracker.ValidationError{Conflicts: result.Errors()}
	}

	updated, err := ctx.Tracker().Gateway().Habits.Update(bg, habit.ID, patch)
	if err != nil {
		return err
	}
	ctx.printf("Updated habit: %s\n", updated.Name)
	for _, w := range result.Warnings() {
		ctx.printf("Warning: %s\n", w.Description)
	}
	return nil
}

type HabitDeleteCmd struct {
	ID  string `arg:"" help:"Habit id, id prefix or name."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	bg := context.Background()
	habit, err := ctx.resolveHabit(bg, c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Delete %q and its history?", habit.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Tracker().Gateway().Habits.Delete(bg, habit.ID); err != nil {
		return err
	}
	ctx.printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitTodayCmd struct {
	Day string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
	All bool   `short:"a" help:"Include habits outside their date range."`
}

func (c *HabitTodayCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	day, err := ctx.resolveDay(c.Day)
	if err != nil {
		return err
	}

	rows, err := ctx.Tracker().Rows(context.Background(), day, c.All)
	if err != nil {
		return err
	}

	ctx.printf("Habits for %s:\n\n", day)
	if len(rows) == 0 {
		ctx.println("  No habits due")
		return nil
	}

	for _, row := range rows {
		streak := ""
		if row.Streak > 0 {
			streak = fmt.Sprintf("streak %d", row.Streak)
		}
		ctx.printf("  %s %s  %-24s %-10s %s\n", statusMark(row.Status), shortID(row.Habit.ID), row.Habit.Name, "["+string(row.Status)+"]", streak)
	}

	s := tracker.Summarize(day, rows)
	ctx.printf("\n%d/%d completed, %d skipped, %d pending\n", s.Completed, s.Total(), s.Skipped, s.Pending)
	return nil
}

func statusMark(s models.CompletionStatus) string {
	switch s {
	case models.StatusCompleted:
		return "✓"
	case models.StatusSkipped:
		return "-"
	default:
		return " "
	}
}

// StatusArgs are shared by done and skip
type StatusArgs struct {
	ID    string `arg:"" help:"Habit id, id prefix or name."`
	Day   string `help:"Day to mark (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
	Force bool   `help:"Overwrite a day that is already completed or skipped."`
}

func (c *StatusArgs) submit(ctx *Context, status models.CompletionStatus) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	day, err := ctx.resolveDay(c.Day)
	if err != nil {
		return err
	}

	bg := context.Background()
	habit, err := ctx.resolveHabit(bg, c.ID)
	if err != nil {
		return err
	}

	log, err := ctx.Tracker().Transition(bg, habit.ID, day, status, c.Force)
	if err != nil {
		return err
	}
	ctx.printf("Marked %s %s for %s\n", habit.Name, log.Status, log.Date)
	return nil
}

type HabitDoneCmd struct {
	StatusArgs `embed:""`
}

func (c *HabitDoneCmd) Run(ctx *Context) error {
	return c.submit(ctx, models.StatusCompleted)
}

type HabitSkipCmd struct {
	StatusArgs `embed:""`
}

func (c *HabitSkipCmd) Run(ctx *Context) error {
	return c.submit(ctx, models.StatusSkipped)
}

type HabitLogCmd struct {
	ID   string `arg:"" optional:"" help:"Habit id, id prefix or name. Shows every habit when omitted."`
	Days int    `short:"n" help:"Number of days to show." default:"14"`
}

func (c *HabitLogCmd) Validate() error {
	if c.Days < 1 || c.Days > 366 {
		return fmt.Errorf("days must be between 1 and 366")
	}
	return nil
}

func (c *HabitLogCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	bg := context.Background()
	var habits []models.Habit
	if c.ID != "" {
		habit, err := ctx.resolveHabit(bg, c.ID)
		if err != nil {
			return err
		}
		habits = []models.Habit{habit}
	} else {
		all, err := ctx.Tracker().Gateway().Habits.GetAll(bg)
		if err != nil {
			return err
		}
		habits = all
	}
	if len(habits) == 0 {
		ctx.println("No habits found")
		return nil
	}

	end := ctx.Tracker().Today()
	t, _ := time.Parse(constants.DateFormat, end)
	start := t.AddDate(0, 0, -(c.Days - 1)).Format(constants.DateFormat)

	ctx.printf("%-*s %s .. %s\n", constants.HistoryNameColumnSize, "", start, end)
	for _, h := range habits {
		days, err := ctx.Tracker().History(bg, h.ID, start, end)
		if err != nil {
			return err
		}
		var b strings.Builder
		done := 0
		for _, d := range days {
			b.WriteString(history.Glyph(d))
			if d.Status == models.StatusCompleted {
				done++
			}
		}
		ctx.printf("%-*s %s %d/%d\n", constants.HistoryNameColumnSize, truncate(h.Name, constants.HistoryNameColumnSize), b.String(), done, len(days))
	}
	ctx.println()
	ctx.println("█ completed  · skipped  ░ pending")
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
