package cli

import (
	"github.com/julianstephens/habitline/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Reschedule out-of-range due dates and zero negative streaks."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	habits, err := ctx.Tracker.FetchAll()
	if err != nil {
		return err
	}

	today := ctx.Tracker.Today()
	validator := validation.New()
	result := validator.ValidateHabits(habits, today)
	ctx.Println(result.FormatReport())

	if !cmd.Fix || !result.HasConflicts() {
		return nil
	}

	fixed, actions := validator.Fix(habits, result, today)
	if len(fixed) == 0 {
		ctx.Println("Nothing to fix automatically.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	for _, h := range fixed {
		if err := ctx.Tracker.Update(h); err != nil {
			return err
		}
	}
	for _, a := range actions {
		ctx.Printf("✓ %s\n", a.Action)
	}
	return nil
}
