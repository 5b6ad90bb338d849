package models

import (
	"fmt"
	"time"
)

// CompletionStatus is the state of a habit on one day
type CompletionStatus string

const (
	StatusPending   CompletionStatus = "pending"
	StatusCompleted CompletionStatus = "completed"
	StatusSkipped   CompletionStatus = "skipped"
)

// Valid reports whether s is one of the known statuses
func (s CompletionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// ParseStatus converts user input into a CompletionStatus
func ParseStatus(s string) (CompletionStatus, error) {
	status := CompletionStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid status: %q (expected pending, completed or skipped)", s)
	}
	return status, nil
}

// ParseFrequency converts user input into a Frequency
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.Valid() {
		return "", fmt.Errorf("invalid frequency: %q (expected daily, weekly or monthly)", s)
	}
	return f, nil
}

// CanTransition reports whether a day's status may move from one value to another.
// Only a pending day can be resolved, and only to completed or skipped.
func CanTransition(from, to CompletionStatus) bool {
	return from == StatusPending && (to == StatusCompleted || to == StatusSkipped)
}

// HabitLog represents a single day's record of a habit
type HabitLog struct {
	ID        string           `json:"id"`
	HabitID   string           `json:"habit_id"`
	UserID    string           `json:"user_id"`
	Date      string           `json:"date"` // YYYY-MM-DD format
	Status    CompletionStatus `json:"status"`
	Notes     *string          `json:"notes"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewHabitLog holds the caller-supplied fields of a habit log
type NewHabitLog struct {
	HabitID string           `json:"habit_id"`
	UserID  string           `json:"user_id"`
	Date    string           `json:"date"`
	Status  CompletionStatus `json:"status"`
	Notes   *string          `json:"notes"`
}

// HabitLogPatch is a partial update of a habit log
type HabitLogPatch struct {
	Date   *string           `json:"date,omitempty"`
	Status *CompletionStatus `json:"status,omitempty"`
	Notes  *string           `json:"notes,omitempty"`
}

// Apply merges the patch into l and returns the result
func (p HabitLogPatch) Apply(l HabitLog) HabitLog {
	if p.Date != nil {
		l.Date = *p.Date
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Notes != nil {
		l.Notes = nullable(*p.Notes)
	}
	return l
}
