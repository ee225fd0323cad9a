// Package scheduler lays habits out on a calendar: what is overdue, what is
// due today and what comes due over the next few days.
package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

// Day holds the habits due on one calendar date
type Day struct {
	Date   time.Time
	Habits []models.Habit
}

type Agenda struct {
	Today    time.Time
	Overdue  []models.Habit
	DueToday []models.Habit
	Upcoming []Day
}

// Empty reports whether nothing is overdue, due or upcoming within the horizon
func (a Agenda) Empty() bool {
	return len(a.Overdue) == 0 && len(a.DueToday) == 0 && len(a.Upcoming) == 0
}

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// Agenda buckets habits relative to today. Upcoming covers the following
// horizon days; habits due later are left out.
func (s *Scheduler) Agenda(habits []models.Habit, today time.Time, horizon int) Agenda {
	today = models.Date(today)
	a := Agenda{Today: today}

	sorted := make([]models.Habit, len(habits))
	copy(sorted, habits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].DueDate.Equal(sorted[j].DueDate) {
			return sorted[i].DueDate.Before(sorted[j].DueDate)
		}
		return sorted[i].ID < sorted[j].ID
	})

	last := today.AddDate(0, 0, horizon)
	for _, h := range sorted {
		due := models.Date(h.DueDate)
		switch {
		case due.Before(today):
			a.Overdue = append(a.Overdue, h)
		case due.Equal(today):
			a.DueToday = append(a.DueToday, h)
		case !due.After(last):
			if n := len(a.Upcoming); n > 0 && a.Upcoming[n-1].Date.Equal(due) {
				a.Upcoming[n-1].Habits = append(a.Upcoming[n-1].Habits, h)
			} else {
				a.Upcoming = append(a.Upcoming, Day{Date: due, Habits: []models.Habit{h}})
			}
		}
	}
	return a
}

// DaysUntilDue is negative for overdue habits
func DaysUntilDue(h models.Habit, today time.Time) int {
	today = models.Date(today)
	due := models.Date(h.DueDate)
	// Round to absorb 23h and 25h days across DST changes
	return int(math.Round(due.Sub(today).Hours() / 24))
}
