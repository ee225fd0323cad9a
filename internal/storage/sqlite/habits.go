package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
)

const habitColumns = "id, title, period, due_date, streak"

func (s *Store) AddHabit(habit *models.Habit) error {
	result, err := s.db.Exec(`
		INSERT INTO habits (title, period, due_date, streak)
		VALUES (?, ?, ?, ?)`,
		habit.Title, string(habit.Period), habit.DueDateString(), habit.Streak)
	if err != nil {
		return translateError("insert habit", *habit, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.NewStorageError("read habit id", err)
	}
	habit.ID = id
	logger.Debug("Habit added", "id", id, "title", habit.Title)
	return nil
}

// UpdateHabit overwrites every column of the row matching habit.ID.
// An unknown id affects zero rows and is not an error.
func (s *Store) UpdateHabit(habit models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits
		SET title = ?, period = ?, due_date = ?, streak = ?
		WHERE id = ?`,
		habit.Title, string(habit.Period), habit.DueDateString(), habit.Streak, habit.ID)
	if err != nil {
		return translateError("update habit", habit, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		logger.Debug("Update matched no habit", "id", habit.ID)
	}
	return nil
}

func (s *Store) DeleteHabit(id int64) error {
	if _, err := s.db.Exec("DELETE FROM habits WHERE id = ?", id); err != nil {
		return apperrors.NewStorageError("delete habit", err)
	}
	return nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query("SELECT " + habitColumns + " FROM habits ORDER BY id")
	if err != nil {
		return nil, apperrors.NewStorageError("list habits", err)
	}
	return scanHabits(rows)
}

func (s *Store) GetHabitsByPeriod(period models.Period) ([]models.Habit, error) {
	rows, err := s.db.Query("SELECT "+habitColumns+" FROM habits WHERE period = ? ORDER BY id", string(period))
	if err != nil {
		return nil, apperrors.NewStorageError("list habits by period", err)
	}
	return scanHabits(rows)
}

func scanHabits(rows *sql.Rows) ([]models.Habit, error) {
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var h models.Habit
		var period, dueDate string

		if err := rows.Scan(&h.ID, &h.Title, &period, &dueDate, &h.Streak); err != nil {
			return nil, apperrors.NewStorageError("scan habit", err)
		}

		h.Period = models.Period(period)
		due, err := parseStoredDate(dueDate)
		if err != nil {
			return nil, apperrors.NewStorageError("scan habit", fmt.Errorf("failed to parse due_date for habit %d: %w", h.ID, err))
		}
		h.DueDate = due

		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("list habits", err)
	}

	return habits, nil
}

// parseStoredDate accepts a bare date or a full ISO timestamp and keeps the date part
func parseStoredDate(s string) (time.Time, error) {
	if len(s) > len("2006-01-02") {
		s = s[:len("2006-01-02")]
	}
	return models.ParseDate(s)
}

func translateError(op string, habit models.Habit, err error) error {
	if isCheckViolation(err) {
		field, value := "habit", habit.Title
		switch {
		case !habit.Period.Valid():
			field, value = "period", string(habit.Period)
		case habit.Streak < 0:
			field, value = "streak", fmt.Sprint(habit.Streak)
		}
		return &apperrors.ValidationError{Field: field, Value: value, Err: err}
	}
	return apperrors.NewStorageError(op, err)
}

func isCheckViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_CHECK {
		return true
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}
