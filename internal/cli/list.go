package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/scheduler"
)

type ListCmd struct {
	Period string `short:"p" help:"Only list daily or weekly habits." enum:",daily,weekly" default:""`
}

func (c *ListCmd) Run(ctx *Context) error {
	if err := ctx.Refresh(); err != nil {
		return err
	}

	var (
		habits []models.Habit
		err    error
	)
	if c.Period != "" {
		period, perr := models.ParsePeriod(c.Period)
		if perr != nil {
			return perr
		}
		habits, err = ctx.Tracker.ListByPeriod(period)
	} else {
		habits, err = ctx.Tracker.FetchAll()
	}
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}
	ctx.Println(renderHabitTable(habits, ctx.Tracker.Today()))
	return nil
}

// renderHabitTable draws a static bubbles table for non-interactive output
func renderHabitTable(habits []models.Habit, today time.Time) string {
	rows := make([]table.Row, len(habits))
	for i, h := range habits {
		status := "on track"
		if h.IsOverdue(today) {
			status = "overdue"
		} else if days := scheduler.DaysUntilDue(h, today); days == 0 {
			status = "due today"
		}
		rows[i] = table.Row{
			strconv.FormatInt(h.ID, 10),
			h.Title,
			h.Period.String(),
			strconv.Itoa(h.Streak),
			h.DueDateString(),
			status,
		}
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 4},
			{Title: "Title", Width: 28},
			{Title: "Period", Width: 7},
			{Title: "Streak", Width: 6},
			{Title: "Due", Width: 10},
			{Title: "Status", Width: 9},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t.View()
}

type DueCmd struct {
	Days int `short:"d" help:"How many days ahead to look." default:"7"`
}

func (c *DueCmd) Run(ctx *Context) error {
	if c.Days < 0 {
		return fmt.Errorf("--days must not be negative")
	}
	if err := ctx.Refresh(); err != nil {
		return err
	}

	habits, err := ctx.Tracker.FetchAll()
	if err != nil {
		return err
	}

	agenda := scheduler.New().Agenda(habits, ctx.Tracker.Today(), c.Days)
	if agenda.Empty() {
		ctx.Printf("Nothing due in the next %d day(s).\n", c.Days)
		return nil
	}

	if len(agenda.Overdue) > 0 {
		ctx.Println("Overdue:")
		for _, h := range agenda.Overdue {
			ctx.Printf("  %s\n", formatHabit(h))
		}
	}
	if len(agenda.DueToday) > 0 {
		ctx.Println("Due today:")
		for _, h := range agenda.DueToday {
			ctx.Printf("  %s\n", formatHabit(h))
		}
	}
	for _, d := range agenda.Upcoming {
		ctx.Printf("%s:\n", d.Date.Format("Mon 2006-01-02"))
		for _, h := range d.Habits {
			ctx.Printf("  %s\n", formatHabit(h))
		}
	}
	return nil
}
