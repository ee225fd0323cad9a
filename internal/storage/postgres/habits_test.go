package postgres

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	pq "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Store{db: db}, mock
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestAddHabit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO habits \\(title, period, due_date, streak\\)").
		WithArgs("Exercise", "daily", "2024-01-02", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	h := models.NewHabit("Exercise", models.PeriodDaily, day(2024, 1, 1))
	err := store.AddHabit(&h)

	require.NoError(t, err)
	assert.Equal(t, int64(7), h.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddHabitCheckViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO habits").
		WillReturnError(&pq.Error{Code: "23514", Message: `new row for relation "habits" violates check constraint "habits_period_check"`})

	h := models.Habit{Title: "Stretch", Period: models.Period("monthly"), DueDate: day(2024, 1, 2)}
	err := store.AddHabit(&h)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "period", ve.Field)
	assert.Equal(t, "monthly", ve.Value)
	assert.False(t, h.IsPersisted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddHabitStorageError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO habits").WillReturnError(sql.ErrConnDone)

	h := models.NewHabit("Exercise", models.PeriodDaily, day(2024, 1, 1))
	err := store.AddHabit(&h)

	assert.True(t, apperrors.IsStorage(err))
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.False(t, errors.Is(err, apperrors.ErrValidation))
}

func TestUpdateHabit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE habits").
		WithArgs("Read Book", "weekly", "2024-01-15", int64(2), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateHabit(models.Habit{ID: 3, Title: "Read Book", Period: models.PeriodWeekly, DueDate: day(2024, 1, 15), Streak: 2})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUnknownHabitIsNoOp(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE habits").WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateHabit(models.Habit{ID: 404, Title: "Ghost", Period: models.PeriodDaily, DueDate: day(2024, 1, 2)})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteHabit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM habits WHERE id \\= \\$1").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.DeleteHabit(5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllHabits(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "title", "period", "due_date", "streak"}).
		AddRow(1, "Exercise", "daily", "2024-01-02", 3).
		AddRow(2, "Weekly Review", "weekly", "2024-01-08", 0)
	mock.ExpectQuery("SELECT id, title, period, due_date, streak FROM habits ORDER BY id").WillReturnRows(rows)

	habits, err := store.GetAllHabits()

	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "Exercise", habits[0].Title)
	assert.Equal(t, models.PeriodDaily, habits[0].Period)
	assert.Equal(t, 3, habits[0].Streak)
	assert.True(t, habits[1].DueDate.Equal(day(2024, 1, 8)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllHabitsBadDate(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "title", "period", "due_date", "streak"}).
		AddRow(1, "Exercise", "daily", "yesterday", 3)
	mock.ExpectQuery("SELECT .* FROM habits").WillReturnRows(rows)

	_, err := store.GetAllHabits()

	assert.True(t, apperrors.IsStorage(err))
}

func TestGetHabitsByPeriod(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "title", "period", "due_date", "streak"}).
		AddRow(4, "Plan Next Week", "weekly", "2024-01-08", 1)
	mock.ExpectQuery("FROM habits WHERE period \\= \\$1 ORDER BY id").
		WithArgs("weekly").
		WillReturnRows(rows)

	habits, err := store.GetHabitsByPeriod(models.PeriodWeekly)

	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, int64(4), habits[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecreateTable(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DROP TABLE IF EXISTS habits").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE IF EXISTS schema_version").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_version").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_version").WillReturnRows(sqlmock.NewRows([]string{"version"}))
	for _, version := range []int64{1, 2} {
		mock.ExpectBegin()
		mock.ExpectExec(".+").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM schema_version").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO schema_version \\(version\\) VALUES \\(\\$1\\)").
			WithArgs(version).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	require.NoError(t, store.RecreateTable())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClose(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectClose()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
