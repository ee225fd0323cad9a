package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/tracker"
	"github.com/julianstephens/habitline/internal/tui/components/habitlist"
)

// chrome is the vertical space taken by header, status and help lines
const chrome = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		m.habits.SetSize(size.Width-4, max(size.Height-chrome, 0))
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.habits.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			m.filter = m.filter.Next()
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.Stats):
			m.showStats = !m.showStats
			return m, nil
		}

	case habitlist.AddHabitMsg:
		return m.startAddHabit()

	case habitlist.CompleteHabitMsg:
		h, status, err := m.tracker.Complete(msg.Habit)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.err = nil
		switch status {
		case tracker.CompletionRecorded:
			m.status = fmt.Sprintf("%s completed, streak %d", h.Title, h.Streak)
		case tracker.CompletionReset:
			m.status = fmt.Sprintf("%s was overdue, streak reset; next due %s", h.Title, h.DueDateString())
		}
		m.reload()
		return m, nil

	case habitlist.TogglePeriodMsg:
		next := models.PeriodWeekly
		if msg.Habit.Period == models.PeriodWeekly {
			next = models.PeriodDaily
		}
		h, err := m.tracker.SetPeriod(msg.Habit, next)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("%s is now %s, due %s", h.Title, h.Period, h.DueDateString())
		m.reload()
		return m, nil

	case habitlist.DeleteHabitMsg:
		h := msg.Habit
		m.pendingDelete = &h
		m.state = StateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}

func (m Model) startAddHabit() (tea.Model, tea.Cmd) {
	m.habitForm = &HabitFormModel{Period: models.PeriodDaily}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Drink water").
				Value(&m.habitForm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewSelect[models.Period]().
				Title("Period").
				Options(
					huh.NewOption("Daily", models.PeriodDaily),
					huh.NewOption("Weekly", models.PeriodWeekly),
				).
				Value(&m.habitForm.Period),
		),
	)
	m.state = StateAddHabit
	return m, m.form.Init()
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateList
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		h, err := m.tracker.Create(m.habitForm.Title, m.habitForm.Period)
		if err != nil {
			m.setError(err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.err = nil
		m.status = fmt.Sprintf("Added %s (%s), due %s", h.Title, h.Period, h.DueDateString())
		m.state = StateList
		m.reload()
	case huh.StateAborted:
		m.state = StateList
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		if m.pendingDelete != nil {
			if err := m.tracker.Delete(m.pendingDelete.ID); err != nil {
				m.setError(err)
			} else {
				m.err = nil
				m.status = fmt.Sprintf("Deleted %s", m.pendingDelete.Title)
			}
		}
		m.pendingDelete = nil
		m.state = StateList
		m.reload()
	case "n", "N", "esc", "q":
		m.pendingDelete = nil
		m.state = StateList
	}
	return m, nil
}
