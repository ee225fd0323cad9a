package scheduler

import (
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func habit(id int64, title string, due time.Time) models.Habit {
	return models.Habit{ID: id, Title: title, Period: models.PeriodDaily, DueDate: due}
}

func titles(habits []models.Habit) []string {
	out := make([]string, len(habits))
	for i, h := range habits {
		out[i] = h.Title
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAgenda(t *testing.T) {
	today := day(2024, 3, 10)
	habits := []models.Habit{
		habit(1, "Later", day(2024, 3, 12)),
		habit(2, "Today", day(2024, 3, 10)),
		habit(3, "Old", day(2024, 3, 1)),
		habit(4, "Tomorrow", day(2024, 3, 11)),
		habit(5, "AlsoLater", day(2024, 3, 12)),
		habit(6, "Yesterday", day(2024, 3, 9)),
		habit(7, "FarAway", day(2024, 3, 30)),
	}

	a := New().Agenda(habits, today.Add(10*time.Hour), 3)

	if got := titles(a.Overdue); !equal(got, []string{"Old", "Yesterday"}) {
		t.Errorf("Overdue = %v", got)
	}
	if got := titles(a.DueToday); !equal(got, []string{"Today"}) {
		t.Errorf("DueToday = %v", got)
	}
	if len(a.Upcoming) != 2 {
		t.Fatalf("expected 2 upcoming days, got %d", len(a.Upcoming))
	}
	if !a.Upcoming[0].Date.Equal(day(2024, 3, 11)) || !equal(titles(a.Upcoming[0].Habits), []string{"Tomorrow"}) {
		t.Errorf("Upcoming[0] = %+v", a.Upcoming[0])
	}
	if !a.Upcoming[1].Date.Equal(day(2024, 3, 12)) || !equal(titles(a.Upcoming[1].Habits), []string{"Later", "AlsoLater"}) {
		t.Errorf("Upcoming[1] = %+v", a.Upcoming[1])
	}
	if a.Empty() {
		t.Error("agenda should not be empty")
	}
}

func TestAgendaDoesNotReorderInput(t *testing.T) {
	habits := []models.Habit{
		habit(1, "B", day(2024, 3, 12)),
		habit(2, "A", day(2024, 3, 11)),
	}
	New().Agenda(habits, day(2024, 3, 10), 7)
	if habits[0].Title != "B" {
		t.Error("Agenda mutated its input")
	}
}

func TestAgendaEmpty(t *testing.T) {
	a := New().Agenda(nil, day(2024, 3, 10), 7)
	if !a.Empty() {
		t.Error("expected empty agenda")
	}
}

func TestDaysUntilDue(t *testing.T) {
	today := day(2024, 3, 10)
	tests := []struct {
		due  time.Time
		want int
	}{
		{day(2024, 3, 10), 0},
		{day(2024, 3, 17), 7},
		{day(2024, 3, 8), -2},
		{day(2024, 4, 10), 31},
	}
	for _, tt := range tests {
		if got := DaysUntilDue(habit(1, "x", tt.due), today); got != tt.want {
			t.Errorf("DaysUntilDue(%s) = %d, want %d", tt.due.Format("2006-01-02"), got, tt.want)
		}
	}
}
