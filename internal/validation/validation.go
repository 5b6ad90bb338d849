package validation

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingName       ConflictType = "missing_name"
	ConflictInvalidFrequency  ConflictType = "invalid_frequency"
	ConflictInvalidDate       ConflictType = "invalid_date"
	ConflictInvalidTime       ConflictType = "invalid_time"
	ConflictUnknownCategory   ConflictType = "unknown_category"
	ConflictEndBeforeStart    ConflictType = "end_before_start"
	ConflictDuplicateLogKey   ConflictType = "duplicate_log_key"
	ConflictOrphanedLog       ConflictType = "orphaned_log"
	ConflictInvalidStatus     ConflictType = "invalid_status"
	ConflictDuplicateHabitIDs ConflictType = "duplicate_habit_id"
)

// Severity tells callers whether a conflict blocks a write
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Conflict is one problem found in habits or logs
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	Description string
	HabitID     string
	LogIDs      []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasErrors returns true if any conflict has SeverityError
func (vr *ValidationResult) HasErrors() bool {
	for _, c := range vr.Conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the blocking conflicts
func (vr *ValidationResult) Errors() []Conflict {
	return vr.filter(SeverityError)
}

// Warnings returns only the non-blocking conflicts
func (vr *ValidationResult) Warnings() []Conflict {
	return vr.filter(SeverityWarning)
}

func (vr *ValidationResult) filter(sev Severity) []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if c.Severity == sev {
			out = append(out, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks habits and logs. categories is the set of known category ids.
type Validator struct {
	categories map[string]bool
}

// New creates a Validator that knows the given categories
func New(categories []models.Category) *Validator {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}
	return &Validator{categories: known}
}

// ValidateNewHabit checks a habit before it is created. An end date before the
// start date is only a warning.
func (v *Validator) ValidateNewHabit(in models.NewHabit) ValidationResult {
	return v.validateFields("", in.Name, in.Frequency, in.StartDate, in.EndDate, in.ReminderTime, in.CategoryID)
}

// ValidateHabit checks a stored habit
func (v *Validator) ValidateHabit(h models.Habit) ValidationResult {
	return v.validateFields(h.ID, h.Name, h.Frequency, h.StartDate, h.EndDate, h.ReminderTime, h.CategoryID)
}

func (v *Validator) validateFields(id, name string, freq models.Frequency, start string, end, reminder, category *string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	label := name
	if label == "" {
		label = id
	}

	if name == "" {
		result.add(Conflict{
			Type:        ConflictMissingName,
			Severity:    SeverityError,
			Description: "Habit name is required",
			HabitID:     id,
		})
	}

	if !freq.Valid() {
		result.add(Conflict{
			Type:        ConflictInvalidFrequency,
			Severity:    SeverityError,
			Description: fmt.Sprintf("Habit %q has invalid frequency %q (expected daily, weekly or monthly)", label, freq),
			HabitID:     id,
		})
	}

	startOK := isValidDate(start)
	if !startOK {
		result.add(Conflict{
			Type:        ConflictInvalidDate,
			Severity:    SeverityError,
			Description: fmt.Sprintf("Habit %q has invalid start_date %q (expected YYYY-MM-DD)", label, start),
			HabitID:     id,
		})
	}

	if end != nil {
		if !isValidDate(*end) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Habit %q has invalid end_date %q (expected YYYY-MM-DD)", label, *end),
				HabitID:     id,
			})
		} else if startOK && *end < start {
			result.add(Conflict{
				Type:        ConflictEndBeforeStart,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("Habit %q ends (%s) before it starts (%s)", label, *end, start),
				HabitID:     id,
			})
		}
	}

	if reminder != nil && !isValidTime(*reminder) {
		result.add(Conflict{
			Type:        ConflictInvalidTime,
			Severity:    SeverityError,
			Description: fmt.Sprintf("Habit %q has invalid reminder_time %q (expected HH:MM)", label, *reminder),
			HabitID:     id,
		})
	}

	if category != nil && !v.categories[*category] {
		result.add(Conflict{
			Type:        ConflictUnknownCategory,
			Severity:    SeverityError,
			Description: fmt.Sprintf("Habit %q references unknown category %q", label, *category),
			HabitID:     id,
		})
	}

	return result
}

// ValidateData checks stored habits and logs together: per-habit fields,
// duplicate habit ids, more than one log per habit and day, and logs whose
// habit no longer exists.
func (v *Validator) ValidateData(habits []models.Habit, logs []models.HabitLog) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		if known[h.ID] {
			result.add(Conflict{
				Type:        ConflictDuplicateHabitIDs,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Duplicate habit id %s", h.ID),
				HabitID:     h.ID,
			})
		}
		known[h.ID] = true

		fields := v.ValidateHabit(h)
		result.Conflicts = append(result.Conflicts, fields.Conflicts...)
	}

	byKey := make(map[string][]string)
	var keys []string
	for _, l := range logs {
		key := l.HabitID + " " + models.LogDay(l.Date)
		if _, seen := byKey[key]; !seen {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], l.ID)

		if !l.Status.Valid() {
			result.add(Conflict{
				Type:        ConflictInvalidStatus,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Log %s has invalid status %q", l.ID, l.Status),
				HabitID:     l.HabitID,
				LogIDs:      []string{l.ID},
			})
		}
		if !known[l.HabitID] {
			result.add(Conflict{
				Type:        ConflictOrphanedLog,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("Log %s on %s references missing habit %s", l.ID, l.Date, l.HabitID),
				HabitID:     l.HabitID,
				LogIDs:      []string{l.ID},
			})
		}
	}

	for _, key := range keys {
		ids := byKey[key]
		if len(ids) < 2 {
			continue
		}
		result.add(Conflict{
			Type:        ConflictDuplicateLogKey,
			Severity:    SeverityError,
			Description: fmt.Sprintf("%d logs for habit/day %s (IDs: %v)", len(ids), key, ids),
			LogIDs:      ids,
		})
	}

	return result
}

func isValidDate(s string) bool {
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

func isValidTime(s string) bool {
	_, err := time.Parse(constants.TimeFormat, s)
	return err == nil
}
