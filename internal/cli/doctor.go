package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/validation"
)

// schemaReporter is implemented by stores backed by the migration runner
type schemaReporter interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *Context) error
	warning bool
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", run: checkSchemaVersion},
		{name: "Habit data", run: checkHabitData},
		{name: "Backups present", run: checkBackupsPresent, warning: true},
		{name: "Clock", run: func(*Context) error { return checkClock(time.Now()) }},
	}

	failed := false
	reachable := true
	for _, c := range checks {
		if !reachable && c.name != "Clock" {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed = true
			if c.name == "Database reachable" {
				reachable = false
			}
		}
	}

	ctx.Println()
	if failed {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if _, err := ctx.Store.GetAllHabits(); err != nil {
		return fmt.Errorf("failed to query habits: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	reporter, ok := ctx.Store.(schemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := reporter.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkHabitData(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}
	result := validation.New().ValidateHabits(habits, ctx.Tracker.Today())
	if result.HasBlocking() {
		return fmt.Errorf("%d conflict(s); run '%s validate' for details", len(result.Conflicts), constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	if !storage.IsSQLite(ctx.Store) {
		return nil
	}
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found; create one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
