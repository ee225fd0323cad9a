package cli

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/models"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Print the database location."`
	DumpHabit DebugDumpHabitCmd `cmd:"" name:"dump-habit" help:"Print a habit as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	ctx.Println(ctx.Store.GetConfigPath())
	return nil
}

type DebugDumpHabitCmd struct {
	Title string `arg:"" help:"Habit title (case-insensitive)."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	h, ok, err := ctx.Tracker.FindByTitle(cmd.Title)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound(cmd.Title)
	}

	out, err := json.MarshalIndent(struct {
		Habit   models.Habit `json:"habit"`
		Overdue bool         `json:"overdue"`
	}{Habit: h, Overdue: h.IsOverdue(ctx.Tracker.Today())}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal habit: %w", err)
	}
	ctx.Println(string(out))
	return nil
}
