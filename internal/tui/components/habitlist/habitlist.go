package habitlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitline/internal/models"
)

type AddHabitMsg struct{}

type CompleteHabitMsg struct {
	Habit models.Habit
}

type TogglePeriodMsg struct {
	Habit models.Habit
}

type DeleteHabitMsg struct {
	Habit models.Habit
}

type Item struct {
	Habit models.Habit
	Today time.Time
}

func (i Item) Title() string {
	if i.Habit.IsOverdue(i.Today) {
		return "⚠ " + i.Habit.Title
	}
	return "○ " + i.Habit.Title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | streak %d | due %s", i.Habit.Period, i.Habit.Streak, i.Habit.DueDateString())
	if i.Habit.IsOverdue(i.Today) {
		desc += " | overdue"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Add      key.Binding
	Complete key.Binding
	Period   key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "complete"),
		),
		Period: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle period"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Add, k.Complete, k.Period, k.Delete}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, today time.Time, width, height int) Model {
	l := list.New(toItems(habits, today), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = keys.Bindings
	l.AdditionalFullHelpKeys = keys.Bindings

	return Model{list: l, keys: keys}
}

func toItems(habits []models.Habit, today time.Time) []list.Item {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h, Today: today}
	}
	return items
}

func (m *Model) SetHabits(habits []models.Habit, today time.Time) {
	m.list.SetItems(toItems(habits, today))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Selected returns the habit under the cursor
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Habit{}, false
	}
	return i.Habit, true
}

// Filtering reports whether the list's own fuzzy filter has focus
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Complete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CompleteHabitMsg{Habit: h} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Period):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return TogglePeriodMsg{Habit: h} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{Habit: h} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
