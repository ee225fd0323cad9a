package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitline/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Tracker), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
