package models

import (
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	apperrors "github.com/julianstephens/habitline/internal/errors"
)

// Period is the recurrence cadence of a habit
type Period string

const (
	PeriodDaily  Period = constants.PeriodDaily
	PeriodWeekly Period = constants.PeriodWeekly
)

// Periods lists every accepted period in display order
var Periods = []Period{PeriodDaily, PeriodWeekly}

// ParsePeriod normalizes user input and rejects anything but daily/weekly
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", apperrors.NewValidationError("period", s)
	}
	return p, nil
}

func (p Period) Valid() bool {
	return p == PeriodDaily || p == PeriodWeekly
}

// IntervalDays returns how far a due date advances. Unknown periods advance
// like daily ones; the store never persists them.
func (p Period) IntervalDays() int {
	if p == PeriodWeekly {
		return constants.WeeklyIntervalDays
	}
	return constants.DailyIntervalDays
}

func (p Period) String() string { return string(p) }

// Habit is a recurring task tracked by title, period, due date and streak.
// ID is zero until the habit has been persisted.
type Habit struct {
	ID      int64     `json:"id,omitempty"`
	Title   string    `json:"title"`
	Period  Period    `json:"period"`
	DueDate time.Time `json:"due_date"`
	Streak  int       `json:"streak"`
}

// NewHabit builds an unpersisted habit due one period after today
func NewHabit(title string, period Period, today time.Time) Habit {
	h := Habit{
		Title:  title,
		Period: period,
	}
	h.DueDate = h.CalculateDueDate(today)
	return h
}

func (h Habit) IsPersisted() bool {
	return h.ID > 0
}

// CalculateDueDate returns today advanced by one period
func (h Habit) CalculateDueDate(today time.Time) time.Time {
	return Date(today).AddDate(0, 0, h.Period.IntervalDays())
}

// IsOverdue reports whether the due date is strictly before today
func (h Habit) IsOverdue(today time.Time) bool {
	return Date(h.DueDate).Before(Date(today))
}

// ResetIfOverdue zeroes the streak and reschedules an overdue habit.
// Returns true when the habit changed and must be persisted.
func (h *Habit) ResetIfOverdue(today time.Time) bool {
	if !h.IsOverdue(today) {
		return false
	}
	h.Streak = 0
	h.DueDate = h.CalculateDueDate(today)
	return true
}

// CompleteTask records an on-time completion. An overdue habit is reset
// instead and false is returned; the habit has changed in both cases.
func (h *Habit) CompleteTask(today time.Time) bool {
	if h.IsOverdue(today) {
		h.ResetIfOverdue(today)
		return false
	}
	h.Streak++
	h.DueDate = h.CalculateDueDate(today)
	return true
}

// DueDateString formats the due date as stored on disk
func (h Habit) DueDateString() string {
	return FormatDate(h.DueDate)
}
