package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// Row is one habit on the dashboard
type Row struct {
	Habit    models.Habit            `json:"habit"`
	Category *models.Category        `json:"category"`
	Status   models.CompletionStatus `json:"status"`
	Streak   int                     `json:"streak"`
}

// Summary counts the statuses of a day's rows
type Summary struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Skipped   int    `json:"skipped"`
	Pending   int    `json:"pending"`
}

// Total is the number of habits counted
func (s Summary) Total() int {
	return s.Completed + s.Skipped + s.Pending
}

// HistoryDay is the status of one habit on one day
type HistoryDay struct {
	Date   string                  `json:"date"`
	Status models.CompletionStatus `json:"status"`
	Active bool                    `json:"active"`
}

// Rows builds the dashboard for day in habit insertion order. Habits that are
// not active on day are left out unless all is set.
func (t *Tracker) Rows(ctx context.Context, day string, all bool) ([]Row, error) {
	habits, err := t.gw.Habits.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := t.gw.HabitLogs.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for _, h := range habits {
		if !all && !h.ActiveOn(day) {
			continue
		}
		row := Row{
			Habit:  h,
			Status: StatusFor(h.ID, day, logs),
			Streak: Streak(h, logs, day),
		}
		if h.CategoryID != nil {
			if c, ok := t.gw.CategoryByID(*h.CategoryID); ok {
				row.Category = &c
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Summarize counts statuses across rows
func Summarize(day string, rows []Row) Summary {
	s := Summary{Date: day}
	for _, r := range rows {
		switch r.Status {
		case models.StatusCompleted:
			s.Completed++
		case models.StatusSkipped:
			s.Skipped++
		default:
			s.Pending++
		}
	}
	return s
}

// Summary counts the statuses of the habits active on day
func (t *Tracker) Summary(ctx context.Context, day string) (Summary, error) {
	rows, err := t.Rows(ctx, day, false)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(day, rows), nil
}

// History returns the habit's status for each day from start to end inclusive
func (t *Tracker) History(ctx context.Context, habitID, start, end string) ([]HistoryDay, error) {
	habit, err := t.gw.Habits.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}

	from, err := time.Parse(constants.DateFormat, start)
	if err != nil {
		return nil, fmt.Errorf("%w: start %q", ErrInvalidRange, start)
	}
	to, err := time.Parse(constants.DateFormat, end)
	if err != nil {
		return nil, fmt.Errorf("%w: end %q", ErrInvalidRange, end)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange, end, start)
	}

	logs, err := t.gw.HabitLogs.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var days []HistoryDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := d.Format(constants.DateFormat)
		days = append(days, HistoryDay{
			Date:   day,
			Status: StatusFor(habitID, day, logs),
			Active: habit.ActiveOn(day),
		})
	}
	return days, nil
}
