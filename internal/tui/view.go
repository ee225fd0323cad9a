package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitline/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = docStyle.Render(m.habits.View())
	}

	sections := []string{m.viewHeader()}
	if m.showStats && m.state == StateList {
		sections = append(sections, m.viewStats())
	}
	sections = append(sections, content, m.viewStatus(), m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	tabs := []string{titleStyle.Render(constants.AppName)}
	for _, f := range []Filter{FilterAll, FilterDaily, FilterWeekly} {
		if f == m.filter {
			tabs = append(tabs, activeTabStyle.Render(f.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(f.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStats() string {
	s := m.summary
	if s.Total == 0 {
		return statsStyle.Render("No habits tracked yet")
	}

	lines := []string{fmt.Sprintf("%d habit(s), %d overdue", s.Total, s.Overdue)}
	if s.Longest != nil {
		lines = append(lines, fmt.Sprintf("Longest streak:  %s (%d)", s.Longest.Title, s.Longest.Streak))
	}
	if s.Shortest != nil {
		lines = append(lines, fmt.Sprintf("Shortest streak: %s (%d)", s.Shortest.Title, s.Shortest.Streak))
	}
	return statsStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewConfirmDelete() string {
	title := ""
	if m.pendingDelete != nil {
		title = m.pendingDelete.Title
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete habit %q?", title)),
			warningStyle.Render("Its streak is lost for good."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
