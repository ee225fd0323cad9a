package tracker

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
)

type clock struct {
	today time.Time
}

func (c *clock) now() time.Time { return c.today.Add(15 * time.Hour) }

func (c *clock) advance(days int) { c.today = c.today.AddDate(0, 0, days) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habits.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func setupTracker(t *testing.T) (*Tracker, *clock) {
	t.Helper()
	c := &clock{today: day(2024, 3, 10)}
	return New(newStore(t), WithClock(c.now)), c
}

func mustCreate(t *testing.T, tr *Tracker, title string, period models.Period) models.Habit {
	t.Helper()
	h, err := tr.Create(title, period)
	require.NoError(t, err)
	return h
}

func TestTodayUsesClock(t *testing.T) {
	tr, _ := setupTracker(t)
	assert.Equal(t, day(2024, 3, 10), tr.Today())
}

func TestCreate(t *testing.T) {
	tr, _ := setupTracker(t)

	h := mustCreate(t, tr, "  Exercise ", models.PeriodDaily)
	assert.True(t, h.IsPersisted())
	assert.Equal(t, "Exercise", h.Title)
	assert.Equal(t, day(2024, 3, 11), h.DueDate)
	assert.Zero(t, h.Streak)

	w := mustCreate(t, tr, "Weekly Review", models.PeriodWeekly)
	assert.Equal(t, day(2024, 3, 17), w.DueDate)

	all, err := tr.FetchAll()
	require.NoError(t, err)
	if diff := cmp.Diff([]models.Habit{h, w}, all); diff != "" {
		t.Errorf("FetchAll mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateValidation(t *testing.T) {
	tr, _ := setupTracker(t)

	tests := []struct {
		name   string
		title  string
		period models.Period
		field  string
	}{
		{"empty title", "", models.PeriodDaily, "title"},
		{"blank title", "   ", models.PeriodDaily, "title"},
		{"bad period", "Exercise", models.Period("monthly"), "period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Create(tt.title, tt.period)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))

			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	all, err := tr.FetchAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddRejectsInvalidPeriodAtSchema(t *testing.T) {
	tr, _ := setupTracker(t)

	h := models.Habit{Title: "Swim", Period: models.Period("hourly"), DueDate: day(2024, 3, 11)}
	err := tr.Add(&h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.False(t, h.IsPersisted())
}

func TestUpdateAndDeletePassThrough(t *testing.T) {
	tr, _ := setupTracker(t)
	h := mustCreate(t, tr, "Read", models.PeriodDaily)

	h.Streak = 9
	require.NoError(t, tr.Update(h))

	missing := h
	missing.ID = 999
	require.NoError(t, tr.Update(missing))
	require.NoError(t, tr.Delete(999))

	all, err := tr.FetchAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 9, all[0].Streak)

	require.NoError(t, tr.Delete(h.ID))
	all, err = tr.FetchAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

// A daily habit completed every day accumulates a streak; missing a day
// zeroes it at the next sweep.
func TestDailyCompletionScenario(t *testing.T) {
	tr, c := setupTracker(t)
	mustCreate(t, tr, "Exercise", models.PeriodDaily)

	for i := 1; i <= 3; i++ {
		h, status, err := tr.CompleteByTitle("exercise")
		require.NoError(t, err)
		assert.Equal(t, CompletionRecorded, status)
		assert.Equal(t, i, h.Streak)
		assert.Equal(t, c.today.AddDate(0, 0, 1), h.DueDate)
		c.advance(1)
	}

	// Due date is now today; skip a day so it becomes overdue.
	c.advance(1)
	reset, err := tr.ResetOverdueHabits()
	require.NoError(t, err)
	require.Len(t, reset, 1)
	assert.Zero(t, reset[0].Streak)
	assert.Equal(t, c.today.AddDate(0, 0, 1), reset[0].DueDate)

	stored, ok, err := tr.FindByTitle("Exercise")
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(reset[0], stored); diff != "" {
		t.Errorf("reset not persisted (-want +got):\n%s", diff)
	}
}

func TestCompleteOverdueResets(t *testing.T) {
	tr, c := setupTracker(t)
	h := mustCreate(t, tr, "Meditate", models.PeriodWeekly)
	h.Streak = 5
	require.NoError(t, tr.Update(h))

	c.advance(8)
	got, status, err := tr.CompleteByTitle("MEDITATE")
	require.NoError(t, err)
	assert.Equal(t, CompletionReset, status)
	assert.Zero(t, got.Streak)
	assert.Equal(t, c.today.AddDate(0, 0, 7), got.DueDate)

	stored, _, err := tr.FindByTitle("Meditate")
	require.NoError(t, err)
	assert.Zero(t, stored.Streak)
	assert.Equal(t, got.DueDate, stored.DueDate)
}

func TestCompleteOnDueDate(t *testing.T) {
	tr, c := setupTracker(t)
	mustCreate(t, tr, "Plan", models.PeriodWeekly)

	c.advance(7)
	h, status, err := tr.CompleteByTitle("Plan")
	require.NoError(t, err)
	assert.Equal(t, CompletionRecorded, status)
	assert.Equal(t, 1, h.Streak)
	assert.Equal(t, day(2024, 3, 24), h.DueDate)
}

func TestCompleteNotFound(t *testing.T) {
	tr, _ := setupTracker(t)
	mustCreate(t, tr, "Exercise", models.PeriodDaily)

	_, status, err := tr.CompleteByTitle("Exercis")
	require.NoError(t, err)
	assert.Equal(t, CompletionNotFound, status)
	assert.Equal(t, "not found", status.String())
}

func TestResetOverdueHabitsOnlyTouchesOverdue(t *testing.T) {
	tr, c := setupTracker(t)
	daily := mustCreate(t, tr, "Daily", models.PeriodDaily)
	weekly := mustCreate(t, tr, "Weekly", models.PeriodWeekly)
	daily.Streak, weekly.Streak = 2, 3
	require.NoError(t, tr.Update(daily))
	require.NoError(t, tr.Update(weekly))

	c.advance(2)
	reset, err := tr.ResetOverdueHabits()
	require.NoError(t, err)
	require.Len(t, reset, 1)
	assert.Equal(t, daily.ID, reset[0].ID)

	all, err := tr.FetchAll()
	require.NoError(t, err)
	assert.Zero(t, all[0].Streak)
	assert.Equal(t, 3, all[1].Streak)
	assert.Equal(t, weekly.DueDate, all[1].DueDate)

	again, err := tr.ResetOverdueHabits()
	require.NoError(t, err)
	assert.Empty(t, again)
}

type failingStore struct {
	*sqlite.Store
	updates   int
	failAfter int
}

func (f *failingStore) UpdateHabit(h models.Habit) error {
	if f.updates >= f.failAfter {
		return apperrors.NewStorageError("update habit", errors.New("disk full"))
	}
	f.updates++
	return f.Store.UpdateHabit(h)
}

func TestResetOverdueHabitsStopsAtFirstFailure(t *testing.T) {
	c := &clock{today: day(2024, 3, 10)}
	base := newStore(t)
	seed := New(base, WithClock(c.now))
	for _, title := range []string{"A", "B", "C"} {
		h := mustCreate(t, seed, title, models.PeriodDaily)
		h.Streak = 4
		require.NoError(t, seed.Update(h))
	}

	tr := New(&failingStore{Store: base, failAfter: 1}, WithClock(c.now))
	c.advance(3)

	reset, err := tr.ResetOverdueHabits()
	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err))
	require.Len(t, reset, 1)
	assert.Equal(t, "A", reset[0].Title)

	all, err := seed.FetchAll()
	require.NoError(t, err)
	assert.Zero(t, all[0].Streak)
	assert.Equal(t, 4, all[1].Streak)
	assert.Equal(t, 4, all[2].Streak)
}

func TestFindByTitleFirstMatch(t *testing.T) {
	tr, _ := setupTracker(t)
	first := mustCreate(t, tr, "Read", models.PeriodDaily)
	mustCreate(t, tr, "READ", models.PeriodWeekly)

	h, ok, err := tr.FindByTitle("rEaD")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, h.ID)

	_, ok, err = tr.FindByTitle("Read ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChangePeriod(t *testing.T) {
	tr, c := setupTracker(t)
	h := mustCreate(t, tr, "Review", models.PeriodDaily)
	h.Streak = 6
	require.NoError(t, tr.Update(h))

	c.advance(1)
	got, ok, err := tr.ChangePeriod("review", models.PeriodWeekly)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.PeriodWeekly, got.Period)
	assert.Equal(t, day(2024, 3, 18), got.DueDate)
	assert.Equal(t, 6, got.Streak)

	stored, _, err := tr.FindByTitle("Review")
	require.NoError(t, err)
	if diff := cmp.Diff(got, stored); diff != "" {
		t.Errorf("period change not persisted (-want +got):\n%s", diff)
	}

	_, ok, err = tr.ChangePeriod("missing", models.PeriodDaily)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = tr.ChangePeriod("Review", models.Period("yearly"))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestRename(t *testing.T) {
	tr, _ := setupTracker(t)
	h := mustCreate(t, tr, "Jog", models.PeriodDaily)

	got, ok, err := tr.Rename("jog", "Run")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, "Run", got.Title)

	_, ok, err = tr.FindByTitle("Jog")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = tr.Rename("Run", " ")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, ok, err = tr.Rename("Swim", "Dive")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteByTitleRemovesOnlyMatch(t *testing.T) {
	tr, _ := setupTracker(t)
	a := mustCreate(t, tr, "A", models.PeriodDaily)
	b := mustCreate(t, tr, "B", models.PeriodWeekly)
	c := mustCreate(t, tr, "C", models.PeriodDaily)

	deleted, ok, err := tr.DeleteByTitle("b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b.ID, deleted.ID)

	all, err := tr.FetchAll()
	require.NoError(t, err)
	if diff := cmp.Diff([]models.Habit{a, c}, all); diff != "" {
		t.Errorf("remaining habits mismatch (-want +got):\n%s", diff)
	}

	_, ok, err = tr.DeleteByTitle("b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStreakExtremes(t *testing.T) {
	tr, _ := setupTracker(t)

	_, ok, err := tr.LongestStreak()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = tr.ShortestStreak()
	require.NoError(t, err)
	assert.False(t, ok)

	streaks := map[string]int{"A": 3, "B": 7, "C": 1, "D": 7, "E": 1}
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		h := mustCreate(t, tr, title, models.PeriodDaily)
		h.Streak = streaks[title]
		require.NoError(t, tr.Update(h))
	}

	longest, ok, err := tr.LongestStreak()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B", longest.Title)

	shortest, ok, err := tr.ShortestStreak()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "C", shortest.Title)
}

func TestListByPeriod(t *testing.T) {
	tr, _ := setupTracker(t)
	a := mustCreate(t, tr, "A", models.PeriodDaily)
	b := mustCreate(t, tr, "B", models.PeriodWeekly)
	c := mustCreate(t, tr, "C", models.PeriodDaily)

	daily, err := tr.ListByPeriod(models.PeriodDaily)
	require.NoError(t, err)
	if diff := cmp.Diff([]models.Habit{a, c}, daily); diff != "" {
		t.Errorf("daily mismatch (-want +got):\n%s", diff)
	}

	weekly, err := tr.ListByPeriod(models.PeriodWeekly)
	require.NoError(t, err)
	if diff := cmp.Diff([]models.Habit{b}, weekly); diff != "" {
		t.Errorf("weekly mismatch (-want +got):\n%s", diff)
	}

	_, err = tr.ListByPeriod(models.Period("monthly"))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestListByPeriodEmpty(t *testing.T) {
	tr, _ := setupTracker(t)
	mustCreate(t, tr, "A", models.PeriodDaily)

	weekly, err := tr.ListByPeriod(models.PeriodWeekly)
	require.NoError(t, err)
	assert.NotNil(t, weekly)
	assert.Empty(t, weekly)
}

func TestAddPredefined(t *testing.T) {
	tr, _ := setupTracker(t)

	added, err := tr.AddPredefined()
	require.NoError(t, err)
	require.Len(t, added, 5)

	titles := make([]string, 0, len(added))
	for _, h := range added {
		titles = append(titles, h.Title)
		assert.True(t, h.IsPersisted())
	}
	assert.Equal(t, []string{"Exercise", "Read Book", "Meditate", "Weekly Review", "Plan Next Week"}, titles)

	weekly, err := tr.ListByPeriod(models.PeriodWeekly)
	require.NoError(t, err)
	assert.Len(t, weekly, 2)
}

func TestCompleteAndSetPeriodUseID(t *testing.T) {
	tr, _ := setupTracker(t)
	mustCreate(t, tr, "Read", models.PeriodDaily)
	second := mustCreate(t, tr, "Read", models.PeriodDaily)

	got, status, err := tr.Complete(second)
	require.NoError(t, err)
	assert.Equal(t, CompletionRecorded, status)
	assert.Equal(t, second.ID, got.ID)

	got, err = tr.SetPeriod(got, models.PeriodWeekly)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 17), got.DueDate)

	all, err := tr.FetchAll()
	require.NoError(t, err)
	assert.Zero(t, all[0].Streak)
	assert.Equal(t, models.PeriodDaily, all[0].Period)
	assert.Equal(t, 1, all[1].Streak)
	assert.Equal(t, models.PeriodWeekly, all[1].Period)
}
