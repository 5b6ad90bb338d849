package cli

import (
	"context"
	"encoding/json"
	"fmt"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit and its logs as JSON."`
	DumpDay   DebugDumpDayCmd   `cmd:"" help:"Dump the logs of a day as JSON."`
}

func (c *Context) printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return ctx.printJSON(map[string]string{
		"path":     ctx.Store.GetConfigPath(),
		"data_dir": ctx.DataDir,
	})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"Habit id, id prefix or name."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	bg := context.Background()
	habit, err := ctx.resolveHabit(bg, cmd.ID)
	if err != nil {
		return err
	}
	logs, err := ctx.Tracker().Gateway().HabitLogs.GetForHabit(bg, habit.ID, "0001-01-01", "9999-12-31")
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}

	return ctx.printJSON(map[string]any{
		"habit": habit,
		"logs":  logs,
	})
}

type DebugDumpDayCmd struct {
	Date string `arg:"" optional:"" help:"Day to dump (YYYY-MM-DD or 'today')." default:"today"`
}

func (cmd *DebugDumpDayCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	day, err := ctx.resolveDay(cmd.Date)
	if err != nil {
		return err
	}
	logs, err := ctx.Tracker().Gateway().HabitLogs.GetForDay(context.Background(), day)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}
	return ctx.printJSON(logs)
}
