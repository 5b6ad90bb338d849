package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.printf("✓ %s: OK\n", name)
	}

	// Check 1: DB reachable
	dbErr := checkDBReachable(ctx)
	report("Database reachable", dbErr)

	// Check 2: Schema version and pending migrations
	if dbErr == nil {
		report("Schema version", checkSchemaVersion(ctx))
	} else {
		ctx.printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 3: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		ctx.printf("⚠ Backups present: WARNING\n")
		ctx.printf("   %v\n", err)
	} else {
		ctx.printf("✓ Backups present: OK\n")
	}

	// Check 4: Validation passes (only if DB is reachable)
	if dbErr == nil {
		report("Data validation", checkValidation(ctx))
	} else {
		ctx.printf("⊘ Data validation: SKIPPED (database not reachable)\n")
	}

	// Check 5: Clock/timezone sanity
	report("Clock/timezone", checkClockTimezone(ctx, time.Now()))

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetAllHabits(context.Background()); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// file and memory stores have no schema
		return nil
	}

	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d - run 'habitlit migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitlit backup create'")
	}
	return nil
}

func checkValidation(ctx *Context) error {
	result, err := ctx.Tracker().Validate(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	for _, w := range result.Warnings() {
		ctx.printf("   Warning: %s\n", w.Description)
	}
	if errs := result.Errors(); len(errs) > 0 {
		return fmt.Errorf("%d problem(s) found, first: %s", len(errs), errs[0].Description)
	}
	return nil
}

func checkClockTimezone(ctx *Context, now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		ctx.printf("   Note: timezone is UTC, days roll over at UTC midnight\n")
	}
	return nil
}
