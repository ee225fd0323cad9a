package cli

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Drop and recreate the habits table. Every habit is lost."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt for --force."`
	Seed   bool   `help:"Add the predefined starter habits."`
	Source string `help:"SQLite path or PostgreSQL URL to copy habits from after initialization."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Source != "" && sameStore(c.Source, ctx.Store.GetConfigPath()) {
		return fmt.Errorf("source and destination are the same store: %s", c.Source)
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}

	if c.Force {
		ok, err := ctx.confirm(c.Yes, "Delete every habit and recreate the table?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Init cancelled.")
			return nil
		}
		ctx.PerformAutomaticBackup()
		if err := ctx.Store.RecreateTable(); err != nil {
			return err
		}
		ctx.Println("Recreated habits table.")
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		n, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Copied %d habit(s) from %s\n", n, c.Source)
	}

	if c.Seed {
		added, err := ctx.Tracker.AddPredefined()
		if err != nil {
			return err
		}
		ctx.Printf("Added %d predefined habit(s)\n", len(added))
	}
	return nil
}

func (c *InitCmd) copyFrom(ctx *Context) (int, error) {
	src, err := OpenStore(c.Source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	habits, err := src.GetAllHabits()
	if err != nil {
		return 0, err
	}
	for _, h := range habits {
		h.ID = 0
		if err := ctx.Tracker.Add(&h); err != nil {
			return 0, fmt.Errorf("failed to copy habit %q: %w", h.Title, err)
		}
	}
	return len(habits), nil
}

func sameStore(a, b string) bool {
	if a == b {
		return true
	}
	if storage.IsConnString(a) || storage.IsConnString(b) {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
