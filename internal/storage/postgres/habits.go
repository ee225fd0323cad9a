package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
)

// SQLSTATE check_violation
const checkViolation = pq.ErrorCode("23514")

const habitColumns = "id, title, period, due_date, streak"

func (s *Store) AddHabit(habit *models.Habit) error {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO habits (title, period, due_date, streak)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		habit.Title, string(habit.Period), habit.DueDateString(), habit.Streak).Scan(&id)
	if err != nil {
		return translateError("insert habit", *habit, err)
	}

	habit.ID = id
	logger.Debug("Habit added", "id", id, "title", habit.Title)
	return nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits
		SET title = $1, period = $2, due_date = $3, streak = $4
		WHERE id = $5`,
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
	if _, err := s.db.Exec("DELETE FROM habits WHERE id = $1", id); err != nil {
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
	rows, err := s.db.Query("SELECT "+habitColumns+" FROM habits WHERE period = $1 ORDER BY id", string(period))
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
		due, err := models.ParseDate(dueDate)
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

func translateError(op string, habit models.Habit, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == checkViolation {
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
