package tracker

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// period identifies the day, ISO week or month a date falls in
func period(freq models.Frequency, d time.Time) string {
	switch freq {
	case models.FrequencyWeekly:
		y, w := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	case models.FrequencyMonthly:
		return d.Format("2006-01")
	default:
		return d.Format(constants.DateFormat)
	}
}

// previous steps back one period
func previous(freq models.Frequency, d time.Time) time.Time {
	switch freq {
	case models.FrequencyWeekly:
		return d.AddDate(0, 0, -7)
	case models.FrequencyMonthly:
		first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
		return first.AddDate(0, -1, 0)
	default:
		return d.AddDate(0, 0, -1)
	}
}

// Streak counts consecutive completed periods ending at today. A current
// period without a completion does not break the streak yet; counting starts
// from the period before it. Periods before the habit's start are not counted.
func Streak(h models.Habit, logs []models.HabitLog, today string) int {
	cursor, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return 0
	}

	completed := make(map[string]bool)
	for _, l := range logs {
		if l.HabitID != h.ID || l.Status != models.StatusCompleted {
			continue
		}
		d, err := time.Parse(constants.DateFormat, LogDay(l.Date))
		if err != nil {
			continue
		}
		completed[period(h.Frequency, d)] = true
	}

	startPeriod := ""
	if start, err := time.Parse(constants.DateFormat, h.StartDate); err == nil {
		startPeriod = period(h.Frequency, start)
	}

	if !completed[period(h.Frequency, cursor)] {
		cursor = previous(h.Frequency, cursor)
	}

	streak := 0
	for {
		p := period(h.Frequency, cursor)
		if startPeriod != "" && p < startPeriod {
			break
		}
		if !completed[p] {
			break
		}
		streak++
		cursor = previous(h.Frequency, cursor)
	}
	return streak
}
