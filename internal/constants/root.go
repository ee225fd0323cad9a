package constants

const (
	AppName           = "habitline"
	DefaultConfigPath = "~/.config/habitline/habits.db"
	Version           = "v0.1.0"

	// DateFormat is the on-disk and display format for due dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Keyring
	DefaultKeyringUser = "database-connection"
	KeyringDBValue     = "keyring"

	// Environment
	EnvDB         = "HABITLINE_DB"
	EnvDebug      = "HABITLINE_DEBUG"
	EnvConnection = "HABITLINE_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habits-"
	BackupFileSuffix = ".db"

	// Logging
	LogDirName  = "logs"
	LogFileName = "habitline.log"
)
