package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/models"
)

// sqlStore holds the queries shared by the SQLite and PostgreSQL providers.
// Queries are written with "?" placeholders and rebound per dialect.
type sqlStore struct {
	db *sql.DB
	// orderBy is the column that preserves insertion order
	orderBy string
	// numbered rewrites "?" to "$1", "$2", ...
	numbered bool
	// isUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY constraint
	isUniqueViolation func(err error) bool
}

type scanner interface {
	Scan(dest ...any) error
}

const (
	habitColumns       = "id, user_id, category_id, name, description, frequency, start_date, end_date, reminder_time, created_at, updated_at"
	habitLogColumns    = "id, habit_id, user_id, date, status, notes, created_at, updated_at"
	achievementColumns = "id, user_id, name, description, points, unlocked_at"
)

func (s *sqlStore) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) ready() error {
	if s.db == nil {
		return ErrNotLoaded
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// Habits

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var categoryID, description, endDate, reminderTime sql.NullString
	var frequency, createdAt, updatedAt string

	if err := row.Scan(&h.ID, &h.UserID, &categoryID, &h.Name, &description, &frequency,
		&h.StartDate, &endDate, &reminderTime, &createdAt, &updatedAt); err != nil {
		return models.Habit{}, err
	}

	h.CategoryID = fromNull(categoryID)
	h.Description = fromNull(description)
	h.EndDate = fromNull(endDate)
	h.ReminderTime = fromNull(reminderTime)
	h.Frequency = models.Frequency(frequency)

	var err error
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *sqlStore) AddHabit(ctx context.Context, habit models.Habit) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		habit.ID, habit.UserID, nullString(habit.CategoryID), habit.Name, nullString(habit.Description),
		string(habit.Frequency), habit.StartDate, nullString(habit.EndDate), nullString(habit.ReminderTime),
		formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt))
	if err != nil {
		if s.isUniqueViolation(err) {
			return fmt.Errorf("habit with id %s already exists", habit.ID)
		}
		return fmt.Errorf("failed to add habit: %w", err)
	}
	return nil
}

func (s *sqlStore) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	if err := s.ready(); err != nil {
		return models.Habit{}, err
	}
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+habitColumns+" FROM habits WHERE id = ?"), id)
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, ErrNotFound
		}
		return models.Habit{}, err
	}
	return h, nil
}

func (s *sqlStore) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT "+habitColumns+" FROM habits ORDER BY "+s.orderBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *sqlStore) UpdateHabit(ctx context.Context, habit models.Habit) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE habits SET
			user_id = ?, category_id = ?, name = ?, description = ?, frequency = ?,
			start_date = ?, end_date = ?, reminder_time = ?, updated_at = ?
		WHERE id = ?`),
		habit.UserID, nullString(habit.CategoryID), habit.Name, nullString(habit.Description),
		string(habit.Frequency), habit.StartDate, nullString(habit.EndDate), nullString(habit.ReminderTime),
		formatTime(habit.UpdatedAt), habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireAffected(res)
}

func (s *sqlStore) DeleteHabit(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM habits WHERE id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Habit logs

func scanHabitLog(row scanner) (models.HabitLog, error) {
	var l models.HabitLog
	var notes sql.NullString
	var status, createdAt, updatedAt string

	if err := row.Scan(&l.ID, &l.HabitID, &l.UserID, &l.Date, &status, &notes, &createdAt, &updatedAt); err != nil {
		return models.HabitLog{}, err
	}

	l.Status = models.CompletionStatus(status)
	l.Notes = fromNull(notes)

	var err error
	if l.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.HabitLog{}, err
	}
	if l.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.HabitLog{}, err
	}
	return l, nil
}

func (s *sqlStore) queryHabitLogs(ctx context.Context, where string, args ...any) ([]models.HabitLog, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := "SELECT " + habitLogColumns + " FROM habit_logs"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + s.orderBy

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.HabitLog{}
	for rows.Next() {
		l, err := scanHabitLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *sqlStore) AddHabitLog(ctx context.Context, log models.HabitLog) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO habit_logs (`+habitLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		log.ID, log.HabitID, log.UserID, log.Date, string(log.Status), nullString(log.Notes),
		formatTime(log.CreatedAt), formatTime(log.UpdatedAt))
	if err != nil {
		if s.isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to add habit log: %w", err)
	}
	return nil
}

func (s *sqlStore) GetHabitLog(ctx context.Context, id string) (models.HabitLog, error) {
	if err := s.ready(); err != nil {
		return models.HabitLog{}, err
	}
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+habitLogColumns+" FROM habit_logs WHERE id = ?"), id)
	l, err := scanHabitLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.HabitLog{}, ErrNotFound
		}
		return models.HabitLog{}, err
	}
	return l, nil
}

func (s *sqlStore) GetAllHabitLogs(ctx context.Context) ([]models.HabitLog, error) {
	return s.queryHabitLogs(ctx, "")
}

func (s *sqlStore) GetHabitLogsForDay(ctx context.Context, day string) ([]models.HabitLog, error) {
	return s.queryHabitLogs(ctx, "date = ?", day)
}

func (s *sqlStore) GetHabitLogsForHabit(ctx context.Context, habitID, startDay, endDay string) ([]models.HabitLog, error) {
	return s.queryHabitLogs(ctx, "habit_id = ? AND date >= ? AND date <= ?", habitID, startDay, endDay)
}

func (s *sqlStore) UpdateHabitLog(ctx context.Context, log models.HabitLog) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE habit_logs SET
			habit_id = ?, user_id = ?, date = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`),
		log.HabitID, log.UserID, log.Date, string(log.Status), nullString(log.Notes),
		formatTime(log.UpdatedAt), log.ID)
	if err != nil {
		if s.isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update habit log: %w", err)
	}
	return requireAffected(res)
}

func (s *sqlStore) UpsertHabitLog(ctx context.Context, log models.HabitLog) (models.HabitLog, error) {
	if err := s.ready(); err != nil {
		return models.HabitLog{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO habit_logs (`+habitLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			status = excluded.status,
			notes = excluded.notes,
			updated_at = excluded.updated_at`),
		log.ID, log.HabitID, log.UserID, log.Date, string(log.Status), nullString(log.Notes),
		formatTime(log.CreatedAt), formatTime(log.UpdatedAt))
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to upsert habit log: %w", err)
	}

	row := tx.QueryRowContext(ctx, s.rebind("SELECT "+habitLogColumns+" FROM habit_logs WHERE habit_id = ? AND date = ?"),
		log.HabitID, log.Date)
	stored, err := scanHabitLog(row)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to read upserted habit log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to commit habit log: %w", err)
	}
	return stored, nil
}

// Achievements

func (s *sqlStore) AddAchievement(ctx context.Context, achievement models.Achievement) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO achievements (`+achievementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`),
		achievement.ID, achievement.UserID, achievement.Name, nullString(achievement.Description),
		achievement.Points, formatTime(achievement.UnlockedAt))
	if err != nil {
		return fmt.Errorf("failed to add achievement: %w", err)
	}
	return nil
}

func (s *sqlStore) GetAllAchievements(ctx context.Context) ([]models.Achievement, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT "+achievementColumns+" FROM achievements ORDER BY "+s.orderBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := []models.Achievement{}
	for rows.Next() {
		var a models.Achievement
		var description sql.NullString
		var unlockedAt string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &description, &a.Points, &unlockedAt); err != nil {
			return nil, err
		}
		a.Description = fromNull(description)
		if a.UnlockedAt, err = parseTime("unlocked_at", unlockedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}
