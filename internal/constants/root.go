package constants

import "time"

const (
	AppName            = "studyline"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/studyline/studyline.db"
	Version            = "v0.3.0"

	// DateFormat is the calendar date format used for every day boundary (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Storage namespaces. Each engine only reads and writes keys under its own prefix.
	NamespaceProgress  = "progress"
	NamespaceStreak    = "streak"
	NamespaceChallenge = "challenge"

	// SnapshotSchema is written into every persisted snapshot
	SnapshotSchema = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "studyline-"
	BackupFileSuffix = ".db"

	// Log file rotation
	LogDirName    = "logs"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Writer lock
	LockfileName     = "studyline.lock"
	LockAcquireTries = 3
	LockRetryDelay   = 100 * time.Millisecond

	// DefaultFeature is the streak/challenge instance used when none is given
	DefaultFeature = "default"
)
