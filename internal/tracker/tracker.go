// Package tracker holds the habit/log state model: deriving a habit's status
// for a day, submitting a new status, and the dashboard and statistics built
// on top of them.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/gateway"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/session"
	"github.com/julianstephens/habitlit/internal/validation"
)

var (
	// ErrNoSession is returned when an operation needs a signed-in user
	ErrNoSession = errors.New("not signed in")
	// ErrInvalidTransition is returned by Transition for anything but pending -> completed/skipped
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidRange is returned for unparsable days and reversed History ranges
	ErrInvalidRange = errors.New("invalid date range")
)

// ValidationError carries the blocking conflicts that rejected a habit
type ValidationError struct {
	Conflicts []validation.Conflict
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.Description)
	}
	return strings.Join(msgs, "; ")
}

// Tracker combines the persistence and session gateways
type Tracker struct {
	gw        *gateway.Gateway
	sessions  *session.Gateway
	validator *validation.Validator
	clock     func() time.Time
}

// New returns a tracker. sessions may be nil when no user context is needed.
func New(gw *gateway.Gateway, sessions *session.Gateway) *Tracker {
	return &Tracker{
		gw:        gw,
		sessions:  sessions,
		validator: validation.New(gw.Categories()),
		clock:     time.Now,
	}
}

// SetClock overrides the source of "today"
func (t *Tracker) SetClock(clock func() time.Time) {
	t.clock = clock
}

// Today returns the current local date as YYYY-MM-DD
func (t *Tracker) Today() string {
	return t.clock().Format(constants.DateFormat)
}

// Gateway returns the persistence gateway
func (t *Tracker) Gateway() *gateway.Gateway {
	return t.gw
}

func (t *Tracker) userID(ctx context.Context) (string, error) {
	if t.sessions == nil {
		return "", ErrNoSession
	}
	if p, ok := t.sessions.Current(); ok {
		return p.ID, nil
	}
	sess, err := t.sessions.GetSession(ctx)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", ErrNoSession
	}
	return sess.User.ID, nil
}

// LogDay truncates a stored log date to day precision
func LogDay(date string) string {
	return models.LogDay(date)
}

func parseDay(day string) (string, error) {
	d, err := models.ParseDay(day)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return d, nil
}

// StatusFor derives the status of habitID on day from logs. No matching log
// means pending; when several match, the first in scan order wins.
func StatusFor(habitID, day string, logs []models.HabitLog) models.CompletionStatus {
	if log, ok := FindLog(habitID, day, logs); ok {
		return log.Status
	}
	return models.StatusPending
}

// FindLog returns the first log for habitID on day
func FindLog(habitID, day string, logs []models.HabitLog) (models.HabitLog, bool) {
	day = LogDay(day)
	for _, l := range logs {
		if l.HabitID == habitID && LogDay(l.Date) == day {
			return l, true
		}
	}
	return models.HabitLog{}, false
}

// StatusOf loads the logs and derives the status of a habit on day
func (t *Tracker) StatusOf(ctx context.Context, habitID, day string) (models.CompletionStatus, error) {
	logs, err := t.gw.HabitLogs.GetAll(ctx)
	if err != nil {
		return "", err
	}
	return StatusFor(habitID, day, logs), nil
}

// SubmitStatus records status for the habit on day through a single upsert.
// Repeating it overwrites the earlier status and never adds a second log.
// A timestamp is stored as its day.
func (t *Tracker) SubmitStatus(ctx context.Context, habitID, day string, status models.CompletionStatus) (models.HabitLog, error) {
	day, err := parseDay(day)
	if err != nil {
		return models.HabitLog{}, err
	}
	if !status.Valid() {
		return models.HabitLog{}, fmt.Errorf("invalid status %q", status)
	}
	if _, err := t.gw.Habits.Get(ctx, habitID); err != nil {
		return models.HabitLog{}, err
	}
	userID, err := t.userID(ctx)
	if err != nil {
		return models.HabitLog{}, err
	}

	log, err := t.gw.HabitLogs.Upsert(ctx, models.NewHabitLog{
		HabitID: habitID,
		UserID:  userID,
		Date:    day,
		Status:  status,
	})
	if err != nil {
		return models.HabitLog{}, err
	}

	logger.Info("Status submitted", "habit_id", habitID, "date", day, "status", status)
	return log, nil
}

// Transition submits status only when the current status allows it
// (pending -> completed or skipped). force skips the check.
func (t *Tracker) Transition(ctx context.Context, habitID, day string, to models.CompletionStatus, force bool) (models.HabitLog, error) {
	day, err := parseDay(day)
	if err != nil {
		return models.HabitLog{}, err
	}
	if !force {
		from, err := t.StatusOf(ctx, habitID, day)
		if err != nil {
			return models.HabitLog{}, err
		}
		if !models.CanTransition(from, to) {
			return models.HabitLog{}, fmt.Errorf("%w: habit is already %s for %s", ErrInvalidTransition, from, day)
		}
	}
	return t.SubmitStatus(ctx, habitID, day, to)
}

// CreateHabit validates and creates a habit owned by the signed-in user.
// Blocking conflicts return a *ValidationError; warnings such as an end date
// before the start date are returned alongside the created habit.
func (t *Tracker) CreateHabit(ctx context.Context, in models.NewHabit) (models.Habit, []validation.Conflict, error) {
	userID, err := t.userID(ctx)
	if err != nil {
		return models.Habit{}, nil, err
	}
	in.UserID = userID
	in.CategoryID = emptyToNil(in.CategoryID)
	in.Description = emptyToNil(in.Description)
	in.EndDate = emptyToNil(in.EndDate)
	in.ReminderTime = emptyToNil(in.ReminderTime)
	if in.StartDate == "" {
		in.StartDate = t.Today()
	}

	result := t.validator.ValidateNewHabit(in)
	if result.HasErrors() {
		return models.Habit{}, nil, &ValidationError{Conflicts: result.Errors()}
	}

	habit, err := t.gw.Habits.Create(ctx, in)
	if err != nil {
		return models.Habit{}, nil, err
	}

	warnings := result.Warnings()
	for _, w := range warnings {
		logger.Warn(w.Description, "habit_id", habit.ID)
	}
	return habit, warnings, nil
}

// ValidatePatch checks the habit that would result from applying patch
func (t *Tracker) ValidatePatch(current models.Habit, patch models.HabitPatch) validation.ValidationResult {
	return t.validator.ValidateHabit(patch.Apply(current))
}

// Validate checks every stored habit and log
func (t *Tracker) Validate(ctx context.Context) (validation.ValidationResult, error) {
	habits, err := t.gw.Habits.GetAll(ctx)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	logs, err := t.gw.HabitLogs.GetAll(ctx)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	return t.validator.ValidateData(habits, logs), nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
