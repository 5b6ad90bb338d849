package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/gateway"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/session"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

func setupTestTracker(t *testing.T) (*Tracker, models.Profile) {
	t.Helper()
	ctx := context.Background()

	sessions := session.New(session.NewMemorySlot())
	profile, err := sessions.SignUp(ctx, "tester@example.com", "pw")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	tr := New(gateway.New(storage.NewMemoryStore()), sessions)
	tr.SetClock(func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local) })
	return tr, profile
}

func mustCreate(t *testing.T, tr *Tracker, in models.NewHabit) models.Habit {
	t.Helper()
	h, _, err := tr.CreateHabit(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	return h
}

func TestStatusFor(t *testing.T) {
	logs := []models.HabitLog{
		{ID: "l1", HabitID: "H", Date: "2024-01-01", Status: models.StatusCompleted},
	}

	if got := StatusFor("H", "2024-01-01", logs); got != models.StatusCompleted {
		t.Errorf("expected completed on 2024-01-01, got %s", got)
	}
	for _, day := range []string{"2023-12-31", "2024-01-02", "2025-01-01"} {
		if got := StatusFor("H", day, logs); got != models.StatusPending {
			t.Errorf("expected pending on %s, got %s", day, got)
		}
	}
	if got := StatusFor("other", "2024-01-01", logs); got != models.StatusPending {
		t.Errorf("expected pending for another habit, got %s", got)
	}
}

func TestStatusForFirstMatchWins(t *testing.T) {
	logs := []models.HabitLog{
		{ID: "l1", HabitID: "H", Date: "2024-01-01", Status: models.StatusSkipped},
		{ID: "l2", HabitID: "H", Date: "2024-01-01T18:30:00Z", Status: models.StatusCompleted},
	}
	if got := StatusFor("H", "2024-01-01", logs); got != models.StatusSkipped {
		t.Errorf("expected the first log to win, got %s", got)
	}
}

func TestLogDay(t *testing.T) {
	tests := map[string]string{
		"2024-01-01":                "2024-01-01",
		"2024-01-01T23:59:59Z":      "2024-01-01",
		"2024-01-01T10:00:00+02:00": "2024-01-01",
		"2024-01-01 10:00":          "2024-01-01",
		"short":                     "short",
	}
	for in, want := range tests {
		if got := LogDay(in); got != want {
			t.Errorf("LogDay(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSubmitStatusUpserts(t *testing.T) {
	tr, profile := setupTestTracker(t)
	ctx := context.Background()
	h := mustCreate(t, tr, models.NewHabit{Name: "Run", Frequency: models.FrequencyDaily, StartDate: "2024-01-01"})

	first, err := tr.SubmitStatus(ctx, h.ID, "2024-01-10", models.StatusCompleted)
	if err != nil {
		t.Fatalf("SubmitStatus failed: %v", err)
	}
	if first.UserID != profile.ID || first.Notes != nil {
		t.Errorf("expected user from session and nil notes, got %+v", first)
	}

	second, err := tr.SubmitStatus(ctx, h.ID, "2024-01-10", models.StatusSkipped)
	if err != nil {
		t.Fatalf("second SubmitStatus failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected the same log to be overwritten, got %s then %s", first.ID, second.ID)
	}

	logs, _ := tr.Gateway().HabitLogs.GetAll(ctx)
	if len(logs) != 1 {
		t.Fatalf("expected exactly one log, got %d", len(logs))
	}
	if status, _ := tr.StatusOf(ctx, h.ID, "2024-01-10"); status != models.StatusSkipped {
		t.Errorf("expected last write to win, got %s", status)
	}
}

func TestSubmitStatusErrors(t *testing.T) {
	tr, _ := setupTestTracker(t)
	ctx := context.Background()

	if _, err := tr.SubmitStatus(ctx, "missing", "2024-01-10", models.StatusCompleted); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown habit, got %v", err)
	}

	h := mustCreate(t, tr, models.NewHabit{Name: "Run", Frequency: models.FrequencyDaily, StartDate: "2024-01-01"})
	if _, err := tr.SubmitStatus(ctx, h.ID, "2024-01-10", "done"); err == nil {
		t.Error("expected an error for an invalid status")
	}

	anonymous := New(tr.Gateway(), session.New(session.NewMemorySlot()))
	if _, err := anonymous.SubmitStatus(ctx, h.ID, "2024-01-10", models.StatusCompleted); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestTransition(t *testing.T) {
	tr, _ := setupTestTracker(t)
	ctx := context.Background()
	h := mustCreate(t, tr, models.NewHabit{Name: "Journal", Frequency: models.FrequencyDaily, StartDate: "2024-01-01"})

	if _, err := tr.Transition(ctx, h.ID, "2024-01-10", models.StatusCompleted, false); err != nil {
		t.Fatalf("pending -> completed failed: %v", err)
	}
	if _, err := tr.Transition(ctx, h.ID, "2024-01-10", models.StatusSkipped, false); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for completed -> skipped, got %v", err)
	}
	if _, err := tr.Transition(ctx, h.ID, "2024-01-10", models.StatusSkipped, true); err != nil {
		t.Errorf("forced transition failed: %v", err)
	}
}

func TestTransitionTimestampMatchesDay(t *testing.T) {
	tr, _ := setupTestTracker(t)
	ctx := context.Background()
	h := mustCreate(t, tr, models.NewHabit{Name: "Stretch", Frequency: models.FrequencyDaily, StartDate: "2024-01-01"})

	first, err := tr.Transition(ctx, h.ID, "2024-01-01", models.StatusCompleted, false)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if _, err := tr.Transition(ctx, h.ID, "2024-01-01T10:00:00Z", models.StatusSkipped, false); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("a timestamp on a resolved day should be rejected, got %v", err)
	}

	forced, err := tr.Transition(ctx, h.ID, "2024-01-01T10:00:00Z", models.StatusSkipped, true)
	if err != nil {
		t.Fatalf("forced Transition failed: %v", err)
	}
	if forced.ID != first.ID || forced.Date != "2024-01-01" {
		t.Errorf("expected the stored log to be overwritten on its day, got %+v", forced)
	}

	logs, _ := tr.Gateway().HabitLogs.GetAll(ctx)
	if len(logs) != 1 {
		t.Errorf("expected one log for the day, got %d", len(logs))
	}
}

func TestSubmitStatusInvalidDay(t *testing.T) {
	tr, _ := setupTestTracker(t)
	ctx := context.Background()
	h := mustCreate(t, tr, models.NewHabit{Name: "Run", Frequency: models.FrequencyDaily, StartDate: "2024-01-01"})

	for _, day := range []string{"banana", "", "2024-13-01", "2024-01-01 10:00"} {
		if _, err := tr.SubmitStatus(ctx, h.ID, day, models.StatusCompleted); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("SubmitStatus(%q): expected ErrInvalidRange, got %v", day, err)
		}
		if _, err := tr.Transition(ctx, h.ID, day, models.StatusCompleted, true); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Transition(%q): expected ErrInvalidRange, got %v", day, err)
		}
	}
	if logs, _ := tr.Gateway().HabitLogs.GetAll(ctx); len(logs) != 0 {
		t.Errorf("expected no logs, got %d", len(logs))
	}
}

func TestCreateHabit(t *testing.T) {
	tr, profile := setupTestTracker(t)
	ctx := context.Background()

	h, warnings, err := tr.CreateHabit(ctx, models.NewHabit{
		Name:        "Budget",
		Frequency:   models.FrequencyMonthly,
		CategoryID:  models.StringPtr(""),
		Description: models.StringPtr("  "),
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", warnings)
	}
	if h.UserID != profile.ID {
		t.Errorf("expected user_id %s, got %s", profile.ID, h.UserID)
	}
	if h.StartDate != "2024-01-10" {
		t.Errorf("expected start date to default to today, got %s", h.StartDate)
	}
	if h.CategoryID != nil || h.Description != nil {
		t.Errorf("empty optional fields should be null, got %+v", h)
	}

	_, warnings, err = tr.CreateHabit(ctx, models.NewHabit{
		Name:      "Backwards",
		Frequency: models.FrequencyDaily,
		StartDate: "2024-02-01",
		EndDate:   models.StringPtr("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("end before start should not be rejected: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Type != validation.ConflictEndBeforeStart {
		t.Errorf("expected an end-before-start warning, got %+v", warnings)
	}

	_, _, err = tr.CreateHabit(ctx, models.NewHabit{Frequency: "yearly", StartDate: "2024-01-01"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Conflicts) != 2 {
		t.Errorf("expected missing name and bad frequency, got %+v", verr.Conflicts)
	}

	habits, _ := tr.Gateway().Habits.GetAll(ctx)
	if len(habits) != 2 {
		t.Errorf("rejected habit should not be stored, got %d habits", len(habits))
	}
}

func TestRowsAndSummary(t *testing.T) {
	tr, _ := setupTestTracker(t)
	ctx := context.Background()

	run := mustCreate(t, tr, models.NewHabit{Name: "Run", Frequency: models.FrequencyDaily, StartDate: "2024-01-01", CategoryID: models.StringPtr("1")})
	read := mustCreate(t, tr, models.NewHabit{Name: "Read", Frequency: models.FrequencyDaily, StartDate: "2024-01-01"})
	mustCreate(t, tr, models.NewHabit{Name: "Future", Frequency: models.FrequencyDaily, StartDate: "2024-06-01"})
	mustCreate(t, tr, models.NewHabit{Name: "Ended", Frequency: models.FrequencyDaily, StartDate: "2023-01-01", EndDate: models.StringPtr("2023-12-31")})

	day := tr.Today()
	if _, err := tr.SubmitStatus(ctx, run.ID, day, models.StatusCompleted); err != nil {
		t.Fatalf("SubmitStatus failed: %v", err)
	}

	rows, err := tr.Rows(ctx, day, false)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 active habits, got %d", len(rows))
	}
	if rows[0].Habit.ID != run.ID || rows[1].Habit.ID != read.ID {
		t.Errorf("rows out of insertion order: %s, %s", rows[0].Habit.Name, rows[1].Habit.Name)
	}
	if rows[0].Category == nil || rows[0].Category.Name != "Health" {
		t.Errorf("expected Health category, got %+v", rows[0].Category)
	}
	if rows[0].Status != models.StatusCompleted || rows[1].Status != models.StatusPending {
		t.Errorf("unexpected statuses %s, %s", rows[0].Status, rows[1].Status)
	}

	all, _ := tr.Rows(ctx, day, true)
	if len(all) != 4 {
		t.Errorf("expected 4 rows with all, got %d", len(all))
	}

	summary, err := tr.Summary(ctx, day)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Completed != 1 || summary.Pending != 1 || summary.Skipped != 0 || summary.Total() != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestHistory(t *testing.T) {
	tr, _ := setupTestTracker(t)
	ctx := context.Background()
	h := mustCreate(t, tr, models.NewHabit{Name: "Stretch", Frequency: models.FrequencyDaily, StartDate: "2024-01-03"})

	tr.SubmitStatus(ctx, h.ID, "2024-01-03", models.StatusCompleted)
	tr.SubmitStatus(ctx, h.ID, "2024-01-04", models.StatusSkipped)

	days, err := tr.History(ctx, h.ID, "2024-01-02", "2024-01-05")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	want := []HistoryDay{
		{Date: "2024-01-02", Status: models.StatusPending, Active: false},
		{Date: "2024-01-03", Status: models.StatusCompleted, Active: true},
		{Date: "2024-01-04", Status: models.StatusSkipped, Active: true},
		{Date: "2024-01-05", Status: models.StatusPending, Active: true},
	}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day %d: got %+v, want %+v", i, days[i], want[i])
		}
	}

	if _, err := tr.History(ctx, h.ID, "2024-01-05", "2024-01-01"); err == nil {
		t.Error("expected an error for a reversed range")
	}
}

func TestValidate(t *testing.T) {
	tr, _ := setupTestTracker(t)
	ctx := context.Background()

	store := tr.Gateway().Store()
	store.AddHabitLog(ctx, models.HabitLog{ID: "orphan", HabitID: "gone", Date: "2024-01-01", Status: models.StatusCompleted})

	result, err := tr.Validate(ctx)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0].Type != validation.ConflictOrphanedLog {
		t.Errorf("expected one orphaned log conflict, got %+v", result.Conflicts)
	}
}
