package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/constants"
	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"SQLite path, PostgreSQL connection string, or 'keyring'. PostgreSQL credentials must NOT be embedded; use the OS keyring, PGPASSWORD or .pgpass." env:"HABITLINE_DB" default:"${default_db}"`
	Verbose bool   `name:"debug" help:"Log at debug level and mirror logs to stderr." env:"HABITLINE_DEBUG"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habitline storage."`
	Add      cli.AddCmd      `cmd:"" help:"Add a new habit."`
	Complete cli.CompleteCmd `cmd:"" help:"Mark a habit as done today."`
	List     cli.ListCmd     `cmd:"" help:"List habits."`
	Due      cli.DueCmd      `cmd:"" help:"Show what is overdue, due today and coming up."`
	Rename   cli.RenameCmd   `cmd:"" help:"Rename a habit."`
	Period   cli.PeriodCmd   `cmd:"" help:"Change how often a habit is due."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete a habit."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show the longest and shortest streaks."`
	Seed     cli.SeedCmd     `cmd:"" help:"Add the predefined starter habits."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored habits for inconsistencies."`
	Debug    cli.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Config struct {
		SetConnection    cli.ConfigSetConnectionCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		DeleteConnection cli.ConfigDeleteConnectionCmd `cmd:"" help:"Remove the stored connection string."`
		Status           cli.ConfigStatusCmd           `cmd:"" help:"Show keyring status."`
	} `cmd:"" help:"Manage stored credentials."`
}

// skipsLoad lists commands that run before, or instead of, a loaded store
var skipsLoad = []string{"init", "config", "backup restore"}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily and weekly habits and keep your streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"default_db": constants.DefaultConfigPath,
		},
	)

	store, err := cli.OpenStore(CLI.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Verbose, ConfigDir: cli.ConfigDir(store)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	if needsLoad(ctx.Command()) {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(cli.NewContext(store))
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	apperrors.Fatal(err)
}

func needsLoad(command string) bool {
	for _, prefix := range skipsLoad {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}
