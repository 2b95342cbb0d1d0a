package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/studyline/internal/achievement"
	"github.com/julianstephens/studyline/internal/backup"
	"github.com/julianstephens/studyline/internal/challenge"
	"github.com/julianstephens/studyline/internal/config"
	"github.com/julianstephens/studyline/internal/constants"
	"github.com/julianstephens/studyline/internal/content"
	"github.com/julianstephens/studyline/internal/keyring"
	"github.com/julianstephens/studyline/internal/lock"
	"github.com/julianstephens/studyline/internal/logger"
	"github.com/julianstephens/studyline/internal/mock"
	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/progress"
	"github.com/julianstephens/studyline/internal/storage"
	"github.com/julianstephens/studyline/internal/storage/postgres"
	"github.com/julianstephens/studyline/internal/streak"
	"github.com/julianstephens/studyline/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	Settings config.Settings
	Table    achievement.Table
	Timezone string
	Today    string // fixed date override, empty for the real clock
	Content  string // question pool file, empty for the bundled sample
	Out      io.Writer

	questions []models.Question
}

// NewContext resolves the achievement table and timezone from settings.
func NewContext(store storage.Provider, settings config.Settings) (*Context, error) {
	table := achievement.DefaultTable
	if settings.AchievementsFile != "" {
		t, err := content.LoadAchievementTable(settings.AchievementsFile)
		if err != nil {
			return nil, err
		}
		table = t
	}
	return &Context{
		Store:    store,
		Settings: settings,
		Table:    table,
		Timezone: settings.Timezone,
		Out:      os.Stdout,
	}, nil
}

// NewProvider picks a store for the --config value. PostgreSQL URLs and
// keyword strings go to postgres, a .json suffix to the JSON document store,
// anything else is a SQLite file. An empty value falls back to the
// connection string in STUDYLINE_DB_CONNECTION or the OS keyring, and then
// to the default SQLite path.
func NewProvider(cfg string) (storage.Provider, error) {
	if cfg == "" {
		connStr, source, err := keyring.ResolveConnectionString("")
		if err != nil {
			return nil, err
		}
		if source != keyring.SourceNone {
			logger.Debug("Using connection string", "source", source)
			return newPostgres(connStr)
		}
		cfg = constants.DefaultConfigPath
	}

	if postgres.IsConnString(cfg) {
		return newPostgres(cfg)
	}

	path, err := ExpandPath(cfg)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return storage.NewSQLiteStore(path), nil
}

func newPostgres(connStr string) (storage.Provider, error) {
	if err := postgres.ValidateConnString(connStr); err != nil {
		return nil, err
	}
	return postgres.New(connStr), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir is where logs, backups and the writer lock live. Database
// servers have no local directory, so postgres stores use the user config dir.
func ConfigDir(store storage.Provider) string {
	if _, ok := store.(*postgres.Store); ok {
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, constants.AppName)
		}
		return os.TempDir()
	}
	return filepath.Dir(store.GetConfigPath())
}

// TodayDate is the calendar date every engine call uses.
func (c *Context) TodayDate() (string, error) {
	if c.Today != "" {
		if !utils.ValidateDate(c.Today) {
			return "", fmt.Errorf("invalid --today %q, use YYYY-MM-DD", c.Today)
		}
		return c.Today, nil
	}
	return utils.GetTodayInTimezone(c.Timezone)
}

// Questions loads the question pool once per invocation.
func (c *Context) Questions() ([]models.Question, error) {
	if c.questions != nil {
		return c.questions, nil
	}
	var (
		qs  []models.Question
		err error
	)
	if c.Content != "" {
		qs, err = content.LoadQuestions(c.Content)
	} else {
		qs, err = content.SampleQuestions()
	}
	if err != nil {
		return nil, err
	}
	c.questions = qs
	return qs, nil
}

func (c *Context) Tracker() *progress.Tracker {
	return progress.New(c.Store)
}

func (c *Context) Streaks() *streak.Engine {
	return streak.New(c.Store, c.Table)
}

func (c *Context) Challenges() *challenge.Engine {
	return challenge.New(c.Store, c.Table,
		challenge.WithBasePoints(c.Settings.ChallengeBasePoints),
		challenge.WithHistoryCap(c.Settings.ChallengeHistoryCap),
	)
}

func (c *Context) Mocks() *mock.Engine {
	return mock.New(mock.WithLimits(c.Settings.MockLimits()))
}

// Backups returns the backup manager for SQLite stores.
func (c *Context) Backups() (*backup.Manager, error) {
	if _, ok := c.Store.(*storage.SQLiteStore); !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite stores")
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// Mutate runs fn while holding the single-writer lock.
func (c *Context) Mutate(fn func() error) error {
	l, err := lock.Acquire(ConfigDir(c.Store))
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release writer lock", "error", err)
		}
	}()
	return fn()
}

// PerformAutomaticBackup snapshots SQLite stores before destructive commands.
// Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.Backups()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}
