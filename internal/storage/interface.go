package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage/postgres"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
)

// Provider is the durable collection of habits
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Schema
	CreateTable() error
	RecreateTable() error

	// Habits
	AddHabit(*models.Habit) error
	UpdateHabit(models.Habit) error
	DeleteHabit(id int64) error
	GetAllHabits() ([]models.Habit, error)
	GetHabitsByPeriod(models.Period) ([]models.Habit, error)

	// Utils
	GetConfigPath() string
}

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// New picks a backend for dsn: PostgreSQL URLs go to Postgres, anything else is a SQLite file path
func New(dsn string) (Provider, error) {
	if postgres.IsConnString(dsn) {
		if ok, err := postgres.ValidateConnString(dsn); !ok {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: use the OS keyring, PGPASSWORD or .pgpass instead", err)
			}
			return nil, err
		}
		return postgres.New(dsn), nil
	}
	return sqlite.NewStore(dsn), nil
}

// IsSQLite reports whether p stores habits in a local SQLite file
func IsSQLite(p Provider) bool {
	_, ok := p.(*sqlite.Store)
	return ok
}

// NewFromKeyring opens a PostgreSQL provider for a connection string read from
// the OS keyring. Embedded passwords are accepted there since the keyring is
// the credential store.
func NewFromKeyring(connStr string) (Provider, error) {
	if !postgres.IsConnString(connStr) && !strings.Contains(connStr, "host=") {
		return nil, fmt.Errorf("%w: keyring entry is not a PostgreSQL connection string", postgres.ErrInvalidConnectionString)
	}
	if ok, err := postgres.ValidateConnString(connStr); !ok && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return nil, err
	}
	return postgres.New(connStr), nil
}

// IsConnString reports whether dsn selects the PostgreSQL backend
func IsConnString(dsn string) bool {
	return postgres.IsConnString(dsn)
}
