package models

import "time"

// Frequency is how often a habit is expected to recur
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is one of the known frequencies
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Habit represents a recurring activity to track
type Habit struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CategoryID   *string   `json:"category_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Frequency    Frequency `json:"frequency"`
	StartDate    string    `json:"start_date"` // YYYY-MM-DD format
	EndDate      *string   `json:"end_date"`   // YYYY-MM-DD format
	ReminderTime *string   `json:"reminder_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ActiveOn reports whether day falls inside the habit's date range.
// Dates compare as strings.
func (h Habit) ActiveOn(day string) bool {
	if h.StartDate != "" && day < h.StartDate {
		return false
	}
	if h.EndDate != nil && *h.EndDate != "" && day > *h.EndDate {
		return false
	}
	return true
}

// NewHabit holds the caller-supplied fields of a habit
type NewHabit struct {
	UserID       string    `json:"user_id"`
	CategoryID   *string   `json:"category_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Frequency    Frequency `json:"frequency"`
	StartDate    string    `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	ReminderTime *string   `json:"reminder_time"`
}

// HabitPatch is a partial update. Nil fields are left unchanged; a pointer to ""
// on a nullable field clears it.
type HabitPatch struct {
	CategoryID   *string    `json:"category_id,omitempty"`
	Name         *string    `json:"name,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Frequency    *Frequency `json:"frequency,omitempty"`
	StartDate    *string    `json:"start_date,omitempty"`
	EndDate      *string    `json:"end_date,omitempty"`
	ReminderTime *string    `json:"reminder_time,omitempty"`
}

// Apply merges the patch into h and returns the result
func (p HabitPatch) Apply(h Habit) Habit {
	if p.CategoryID != nil {
		h.CategoryID = nullable(*p.CategoryID)
	}
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Description != nil {
		h.Description = nullable(*p.Description)
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.StartDate != nil {
		h.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		h.EndDate = nullable(*p.EndDate)
	}
	if p.ReminderTime != nil {
		h.ReminderTime = nullable(*p.ReminderTime)
	}
	return h
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringPtr returns nil for the empty string, otherwise a pointer to s
func StringPtr(s string) *string {
	return nullable(s)
}

// Deref returns the pointed-to string, or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
