// Package tui is the interactive habit browser.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/tracker"
	"github.com/julianstephens/habitline/internal/tui/components/habitlist"
)

type SessionState int

const (
	StateList SessionState = iota
	StateAddHabit
	StateConfirmDelete
)

// Filter narrows the list to one period
type Filter int

const (
	FilterAll Filter = iota
	FilterDaily
	FilterWeekly
)

func (f Filter) Next() Filter {
	return (f + 1) % 3
}

func (f Filter) Period() (models.Period, bool) {
	switch f {
	case FilterDaily:
		return models.PeriodDaily, true
	case FilterWeekly:
		return models.PeriodWeekly, true
	default:
		return "", false
	}
}

func (f Filter) String() string {
	if p, ok := f.Period(); ok {
		return p.String()
	}
	return "all"
}

type HabitFormModel struct {
	Title  string
	Period models.Period
}

// Summary is the streak overview shown with 's'
type Summary struct {
	Total    int
	Overdue  int
	Longest  *models.Habit
	Shortest *models.Habit
}

type Model struct {
	tracker       *tracker.Tracker
	state         SessionState
	keys          KeyMap
	help          help.Model
	habits        habitlist.Model
	filter        Filter
	showStats     bool
	summary       Summary
	form          *huh.Form
	habitForm     *HabitFormModel
	pendingDelete *models.Habit
	status        string
	err           error
	quitting      bool
	width         int
	height        int
}

func NewModel(tr *tracker.Tracker) Model {
	m := Model{
		tracker: tr,
		state:   StateList,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		habits:  habitlist.New(nil, tr.Today(), 0, 0),
	}
	m.reload()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help, m.keys.Filter, m.keys.Stats}
	return append(keys, habitlist.DefaultKeyMap().Bindings()...)
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Quit, m.keys.Help, m.keys.Filter, m.keys.Stats},
		{m.keys.Up, m.keys.Down},
		habitlist.DefaultKeyMap().Bindings(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload sweeps overdue habits and refreshes the list for the current filter
func (m *Model) reload() {
	reset, err := m.tracker.ResetOverdueHabits()
	if err != nil {
		m.setError(err)
		return
	}
	if len(reset) > 0 {
		m.status = fmt.Sprintf("Reset %d overdue habit(s)", len(reset))
	}

	var habits []models.Habit
	if p, ok := m.filter.Period(); ok {
		habits, err = m.tracker.ListByPeriod(p)
	} else {
		habits, err = m.tracker.FetchAll()
	}
	if err != nil {
		m.setError(err)
		return
	}

	today := m.tracker.Today()
	m.habits.SetHabits(habits, today)
	m.summary = m.buildSummary()
}

func (m *Model) buildSummary() Summary {
	var s Summary
	all, err := m.tracker.FetchAll()
	if err != nil {
		m.setError(err)
		return s
	}

	today := m.tracker.Today()
	s.Total = len(all)
	for _, h := range all {
		if h.IsOverdue(today) {
			s.Overdue++
		}
	}
	if h, ok, err := m.tracker.LongestStreak(); err == nil && ok {
		s.Longest = &h
	}
	if h, ok, err := m.tracker.ShortestStreak(); err == nil && ok {
		s.Shortest = &h
	}
	return s
}

func (m *Model) setError(err error) {
	logger.Error("TUI action failed", "error", err)
	m.err = err
	m.status = ""
}
