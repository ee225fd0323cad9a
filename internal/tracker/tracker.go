// Package tracker applies the habit lifecycle (completion, overdue reset,
// rescheduling) on top of a storage.Provider. Every operation loads the
// current rows, mutates them in memory and writes back the ones that changed
// before returning; there is no cross-operation transaction.
package tracker

import (
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

// CompletionStatus is the outcome of CompleteByTitle
type CompletionStatus int

const (
	CompletionNotFound CompletionStatus = iota
	CompletionRecorded
	CompletionReset
)

func (s CompletionStatus) String() string {
	switch s {
	case CompletionRecorded:
		return "recorded"
	case CompletionReset:
		return "reset"
	default:
		return "not found"
	}
}

type Option func(*Tracker)

// WithClock overrides the source of "today"
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

type Tracker struct {
	store storage.Provider
	now   func() time.Time
}

func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Today returns the current local calendar date according to the tracker's clock
func (t *Tracker) Today() time.Time {
	return models.Date(t.now())
}

// Add persists a new habit as-is and assigns its id. An unrecognized period is
// rejected by the schema.
func (t *Tracker) Add(h *models.Habit) error {
	return t.store.AddHabit(h)
}

// Create validates user input, schedules the first due date and persists the habit
func (t *Tracker) Create(title string, period models.Period) (models.Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Habit{}, apperrors.NewValidationError("title", title)
	}
	if !period.Valid() {
		return models.Habit{}, apperrors.NewValidationError("period", string(period))
	}

	h := models.NewHabit(title, period, t.Today())
	if err := t.store.AddHabit(&h); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit created", "id", h.ID, "title", h.Title, "period", h.Period, "due", h.DueDateString())
	return h, nil
}

// Update overwrites the stored row for h.ID; unknown ids are ignored
func (t *Tracker) Update(h models.Habit) error {
	return t.store.UpdateHabit(h)
}

// Delete removes the habit with the given id; unknown ids are ignored
func (t *Tracker) Delete(id int64) error {
	return t.store.DeleteHabit(id)
}

// FetchAll returns every stored habit in storage order
func (t *Tracker) FetchAll() ([]models.Habit, error) {
	return t.store.GetAllHabits()
}

// ResetOverdueHabits zeroes the streak of every habit past its due date and
// returns the habits that were reset. A storage failure stops the sweep;
// habits already written stay reset.
func (t *Tracker) ResetOverdueHabits() ([]models.Habit, error) {
	habits, err := t.store.GetAllHabits()
	if err != nil {
		return nil, err
	}

	today := t.Today()
	reset := []models.Habit{}
	for _, h := range habits {
		if !h.ResetIfOverdue(today) {
			continue
		}
		if err := t.store.UpdateHabit(h); err != nil {
			return reset, err
		}
		logger.Info("Overdue habit reset", "id", h.ID, "title", h.Title, "due", h.DueDateString())
		reset = append(reset, h)
	}
	return reset, nil
}

// FindByTitle returns the first habit in storage order whose title matches
// case-insensitively
func (t *Tracker) FindByTitle(title string) (models.Habit, bool, error) {
	habits, err := t.store.GetAllHabits()
	if err != nil {
		return models.Habit{}, false, err
	}
	h, ok := findByTitle(habits, title)
	return h, ok, nil
}

func findByTitle(habits []models.Habit, title string) (models.Habit, bool) {
	want := strings.ToLower(title)
	for _, h := range habits {
		if strings.ToLower(h.Title) == want {
			return h, true
		}
	}
	return models.Habit{}, false
}

// CompleteByTitle marks a habit done for today. An overdue habit is reset
// rather than completed; the result is persisted either way.
func (t *Tracker) CompleteByTitle(title string) (models.Habit, CompletionStatus, error) {
	h, ok, err := t.FindByTitle(title)
	if err != nil || !ok {
		return models.Habit{}, CompletionNotFound, err
	}
	return t.Complete(h)
}

// Complete applies a completion to an already loaded habit and persists it
func (t *Tracker) Complete(h models.Habit) (models.Habit, CompletionStatus, error) {
	status := CompletionReset
	if h.CompleteTask(t.Today()) {
		status = CompletionRecorded
	}

	if err := t.store.UpdateHabit(h); err != nil {
		return models.Habit{}, CompletionNotFound, err
	}
	logger.Info("Habit completion", "id", h.ID, "title", h.Title, "status", status, "streak", h.Streak)
	return h, status, nil
}

// ChangePeriod switches a habit's cadence and reschedules it from today
func (t *Tracker) ChangePeriod(title string, period models.Period) (models.Habit, bool, error) {
	if !period.Valid() {
		return models.Habit{}, false, apperrors.NewValidationError("period", string(period))
	}

	h, ok, err := t.FindByTitle(title)
	if err != nil || !ok {
		return models.Habit{}, false, err
	}

	h, err = t.SetPeriod(h, period)
	if err != nil {
		return models.Habit{}, false, err
	}
	return h, true, nil
}

// SetPeriod changes the period of a loaded habit, recomputes its due date and persists it
func (t *Tracker) SetPeriod(h models.Habit, period models.Period) (models.Habit, error) {
	if !period.Valid() {
		return models.Habit{}, apperrors.NewValidationError("period", string(period))
	}

	h.Period = period
	h.DueDate = h.CalculateDueDate(t.Today())
	if err := t.store.UpdateHabit(h); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit period changed", "id", h.ID, "title", h.Title, "period", h.Period, "due", h.DueDateString())
	return h, nil
}

// Rename changes the title of the first habit matching title
func (t *Tracker) Rename(title, newTitle string) (models.Habit, bool, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return models.Habit{}, false, apperrors.NewValidationError("title", newTitle)
	}

	h, ok, err := t.FindByTitle(title)
	if err != nil || !ok {
		return models.Habit{}, false, err
	}

	h.Title = newTitle
	if err := t.store.UpdateHabit(h); err != nil {
		return models.Habit{}, false, err
	}
	return h, true, nil
}

// DeleteByTitle removes the first habit matching title and returns it
func (t *Tracker) DeleteByTitle(title string) (models.Habit, bool, error) {
	h, ok, err := t.FindByTitle(title)
	if err != nil || !ok {
		return models.Habit{}, false, err
	}

	if err := t.store.DeleteHabit(h.ID); err != nil {
		return models.Habit{}, false, err
	}
	logger.Info("Habit deleted", "id", h.ID, "title", h.Title)
	return h, true, nil
}

// LongestStreak returns the first habit holding the maximum streak
func (t *Tracker) LongestStreak() (models.Habit, bool, error) {
	return t.pickStreak(func(candidate, best int) bool { return candidate > best })
}

// ShortestStreak returns the first habit holding the minimum streak
func (t *Tracker) ShortestStreak() (models.Habit, bool, error) {
	return t.pickStreak(func(candidate, best int) bool { return candidate < best })
}

func (t *Tracker) pickStreak(better func(candidate, best int) bool) (models.Habit, bool, error) {
	habits, err := t.store.GetAllHabits()
	if err != nil {
		return models.Habit{}, false, err
	}
	if len(habits) == 0 {
		return models.Habit{}, false, nil
	}

	// Strict comparison keeps the earliest habit on ties
	best := habits[0]
	for _, h := range habits[1:] {
		if better(h.Streak, best.Streak) {
			best = h
		}
	}
	return best, true, nil
}

// ListByPeriod returns the habits with the given period in storage order
func (t *Tracker) ListByPeriod(period models.Period) ([]models.Habit, error) {
	if !period.Valid() {
		return nil, apperrors.NewValidationError("period", string(period))
	}
	return t.store.GetHabitsByPeriod(period)
}

// AddPredefined seeds the starter habits
func (t *Tracker) AddPredefined() ([]models.Habit, error) {
	added := make([]models.Habit, 0, len(constants.PredefinedHabits))
	for _, p := range constants.PredefinedHabits {
		h, err := t.Create(p.Title, models.Period(p.Period))
		if err != nil {
			return added, err
		}
		added = append(added, h)
	}
	return added, nil
}
