package models

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to CompletionStatus
		want     bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusSkipped, true},
		{StatusPending, StatusPending, false},
		{StatusCompleted, StatusSkipped, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusSkipped, StatusCompleted, false},
		{StatusSkipped, StatusPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseStatusAndFrequency(t *testing.T) {
	if _, err := ParseStatus("completed"); err != nil {
		t.Errorf("ParseStatus(completed) returned error: %v", err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("ParseStatus(done) should fail")
	}
	if _, err := ParseFrequency("weekly"); err != nil {
		t.Errorf("ParseFrequency(weekly) returned error: %v", err)
	}
	if _, err := ParseFrequency("yearly"); err == nil {
		t.Error("ParseFrequency(yearly) should fail")
	}
}

func TestHabitPatchApply(t *testing.T) {
	end := "2024-12-31"
	h := Habit{
		ID:          "h1",
		Name:        "Run",
		CategoryID:  StringPtr("1"),
		Description: StringPtr("5k"),
		Frequency:   FrequencyDaily,
		StartDate:   "2024-01-01",
		EndDate:     &end,
	}

	t.Run("empty patch leaves habit unchanged", func(t *testing.T) {
		got := HabitPatch{}.Apply(h)
		if got.Name != h.Name || Deref(got.CategoryID) != "1" || Deref(got.EndDate) != end {
			t.Errorf("empty patch changed habit: %+v", got)
		}
	})

	t.Run("set and clear fields", func(t *testing.T) {
		name := "Walk"
		weekly := FrequencyWeekly
		empty := ""
		got := HabitPatch{Name: &name, Frequency: &weekly, EndDate: &empty}.Apply(h)
		if got.Name != "Walk" {
			t.Errorf("expected name Walk, got %q", got.Name)
		}
		if got.Frequency != FrequencyWeekly {
			t.Errorf("expected weekly, got %s", got.Frequency)
		}
		if got.EndDate != nil {
			t.Errorf("expected end date cleared, got %q", *got.EndDate)
		}
		if Deref(got.Description) != "5k" {
			t.Errorf("description should be untouched, got %q", Deref(got.Description))
		}
	})
}

func TestHabitLogPatchApply(t *testing.T) {
	l := HabitLog{ID: "l1", HabitID: "h1", Date: "2024-01-01", Status: StatusPending}
	completed := StatusCompleted
	note := "felt great"

	got := HabitLogPatch{Status: &completed, Notes: &note}.Apply(l)
	if got.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if Deref(got.Notes) != note {
		t.Errorf("expected notes %q, got %q", note, Deref(got.Notes))
	}
	if got.Date != l.Date || got.HabitID != l.HabitID {
		t.Errorf("unrelated fields changed: %+v", got)
	}
}

func TestHabitActiveOn(t *testing.T) {
	end := "2024-01-31"
	h := Habit{StartDate: "2024-01-10", EndDate: &end}

	cases := map[string]bool{
		"2024-01-09": false,
		"2024-01-10": true,
		"2024-01-20": true,
		"2024-01-31": true,
		"2024-02-01": false,
	}
	for day, want := range cases {
		if got := h.ActiveOn(day); got != want {
			t.Errorf("ActiveOn(%s) = %v, want %v", day, got, want)
		}
	}

	open := Habit{StartDate: "2024-01-10"}
	if !open.ActiveOn("2030-01-01") {
		t.Error("habit without end date should stay active")
	}
}

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	if len(cats) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(cats))
	}
	seen := make(map[string]bool)
	for _, c := range cats {
		if seen[c.ID] {
			t.Errorf("duplicate category id %s", c.ID)
		}
		seen[c.ID] = true
	}
	again := DefaultCategories()
	if !again[0].CreatedAt.Equal(cats[0].CreatedAt) {
		t.Error("category timestamps should be stable across calls")
	}
}

func TestProfileDisplayName(t *testing.T) {
	p := Profile{ID: "u1"}
	if p.DisplayName() != "u1" {
		t.Errorf("expected fallback to id, got %q", p.DisplayName())
	}
	p.Username = StringPtr("alice")
	if p.DisplayName() != "alice" {
		t.Errorf("expected alice, got %q", p.DisplayName())
	}
}

func TestParseDay(t *testing.T) {
	valid := map[string]string{
		"2024-01-01":                "2024-01-01",
		"2024-01-01T10:00:00Z":      "2024-01-01",
		"2024-01-01T23:30:00-05:00": "2024-01-01",
	}
	for in, want := range valid {
		got, err := ParseDay(in)
		if err != nil || got != want {
			t.Errorf("ParseDay(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	for _, in := range []string{"", "banana", "2024-02-30", "2024-01-01 10:00", "01/02/2024"} {
		if _, err := ParseDay(in); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDay(%q): expected ErrInvalidDate, got %v", in, err)
		}
	}
}
