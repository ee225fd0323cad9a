package cli

import (
	"fmt"

	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/tracker"
)

type AddCmd struct {
	Title  string `arg:"" help:"Habit title."`
	Period string `short:"p" help:"daily or weekly." default:"daily" enum:"daily,weekly"`
}

func (c *AddCmd) Run(ctx *Context) error {
	period, err := models.ParsePeriod(c.Period)
	if err != nil {
		return err
	}
	h, err := ctx.Tracker.Create(c.Title, period)
	if err != nil {
		return err
	}
	ctx.Printf("Added habit: %s\n", formatHabit(h))
	return nil
}

type CompleteCmd struct {
	Title string `arg:"" help:"Habit title (case-insensitive)."`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	if err := ctx.Refresh(); err != nil {
		return err
	}

	h, status, err := ctx.Tracker.CompleteByTitle(c.Title)
	if err != nil {
		return err
	}
	switch status {
	case tracker.CompletionRecorded:
		ctx.Printf("✓ %s completed! Streak: %d, next due %s\n", h.Title, h.Streak, h.DueDateString())
	case tracker.CompletionReset:
		ctx.Printf("⚠ %s was overdue; streak reset, next due %s\n", h.Title, h.DueDateString())
	default:
		return apperrors.NotFound(c.Title)
	}
	return nil
}

type RenameCmd struct {
	Title    string `arg:"" help:"Current habit title (case-insensitive)."`
	NewTitle string `arg:"" help:"New title."`
}

func (c *RenameCmd) Run(ctx *Context) error {
	h, ok, err := ctx.Tracker.Rename(c.Title, c.NewTitle)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound(c.Title)
	}
	ctx.Printf("Renamed %q to %q\n", c.Title, h.Title)
	return nil
}

type PeriodCmd struct {
	Title  string `arg:"" help:"Habit title (case-insensitive)."`
	Period string `arg:"" help:"New period: daily or weekly." enum:"daily,weekly"`
}

func (c *PeriodCmd) Run(ctx *Context) error {
	period, err := models.ParsePeriod(c.Period)
	if err != nil {
		return err
	}
	if err := ctx.Refresh(); err != nil {
		return err
	}

	h, ok, err := ctx.Tracker.ChangePeriod(c.Title, period)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound(c.Title)
	}
	ctx.Printf("%s is now %s, next due %s\n", h.Title, h.Period, h.DueDateString())
	return nil
}

type DeleteCmd struct {
	Title string `arg:"" help:"Habit title (case-insensitive)."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	h, ok, err := ctx.Tracker.FindByTitle(c.Title)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound(c.Title)
	}

	confirmed, err := ctx.confirm(c.Yes, fmt.Sprintf("Delete habit %q (streak %d)?", h.Title, h.Streak))
	if err != nil {
		return err
	}
	if !confirmed {
		ctx.Println("Delete cancelled.")
		return nil
	}

	deleted, ok, err := ctx.Tracker.DeleteByTitle(c.Title)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound(c.Title)
	}
	ctx.Printf("Deleted habit: %s\n", deleted.Title)
	return nil
}

type SeedCmd struct{}

func (c *SeedCmd) Run(ctx *Context) error {
	added, err := ctx.Tracker.AddPredefined()
	if err != nil {
		return err
	}
	for _, h := range added {
		ctx.Printf("Added habit: %s\n", formatHabit(h))
	}
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.Refresh(); err != nil {
		return err
	}

	longest, ok, err := ctx.Tracker.LongestStreak()
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("No habits tracked yet.")
		return nil
	}
	shortest, _, err := ctx.Tracker.ShortestStreak()
	if err != nil {
		return err
	}

	ctx.Printf("Longest streak:  %s (%d)\n", longest.Title, longest.Streak)
	ctx.Printf("Shortest streak: %s (%d)\n", shortest.Title, shortest.Streak)
	return nil
}
