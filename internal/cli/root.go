package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitline/internal/backup"
	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/keyring"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/tracker"
)

var ErrSQLiteOnly = errors.New("backups are only supported for SQLite stores")

// ConfirmFunc asks the user a yes/no question
type ConfirmFunc func(title string) (bool, error)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
	Out     io.Writer
	Confirm ConfirmFunc
}

func NewContext(store storage.Provider) *Context {
	return &Context{
		Store:   store,
		Tracker: tracker.New(store),
		Out:     os.Stdout,
		Confirm: huhConfirm,
	}
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// confirm skips the prompt when yes is set
func (c *Context) confirm(yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	return c.Confirm(title)
}

// Refresh resets overdue habits and tells the user which streaks were lost
func (c *Context) Refresh() error {
	reset, err := c.Tracker.ResetOverdueHabits()
	for _, h := range reset {
		c.Printf("⚠ %s was overdue; streak reset, next due %s\n", h.Title, h.DueDateString())
	}
	return err
}

// PerformAutomaticBackup snapshots SQLite stores and only logs failures
func (c *Context) PerformAutomaticBackup() {
	if !storage.IsSQLite(c.Store) {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) backupManager() (*backup.Manager, error) {
	if !storage.IsSQLite(c.Store) {
		return nil, ErrSQLiteOnly
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// OpenStore builds the provider named by the --db flag: a SQLite path, a
// PostgreSQL URL, or "keyring" for a connection string kept in the OS keyring
func OpenStore(dsn string) (storage.Provider, error) {
	if dsn == constants.KeyringDBValue {
		connStr, err := keyring.ResolveConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("%w; store one with '%s config set-connection'", err, constants.AppName)
			}
			return nil, err
		}
		return storage.NewFromKeyring(connStr)
	}

	path, err := ExpandPath(dsn)
	if err != nil {
		return nil, err
	}
	return storage.New(path)
}

// ConfigDir is where logs live: next to a SQLite file, else the default config directory
func ConfigDir(store storage.Provider) string {
	if storage.IsSQLite(store) {
		return filepath.Dir(store.GetConfigPath())
	}
	dir, err := ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return os.TempDir()
	}
	return dir
}

func formatHabit(h models.Habit) string {
	return fmt.Sprintf("%s (%s, streak %d, due %s)", h.Title, h.Period, h.Streak, h.DueDateString())
}
