// Package logger holds the process-wide structured logger. Engine state
// changes are logged at debug level with the component and storage key they
// touched, so a log line can be matched to the snapshot it produced.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/studyline/internal/constants"
)

// Logger is the global logger instance. It stays nil until Init runs and
// every helper below is a no-op while it is.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string
	// Stderr receives a copy of every line in debug mode. Defaults to os.Stderr.
	Stderr io.Writer
}

// Path is the active log file for a config directory.
func Path(configDir string) string {
	return filepath.Join(configDir, constants.LogDirName, constants.AppName+".log")
}

func Init(cfg Config) error {
	file := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}

	var writer io.Writer = &lumberjack.Logger{
		Filename:   file,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writer = io.MultiWriter(stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// Transition logs an engine state change. component names the engine
// ("streak", "challenge", "progress", "mock") and key is the storage key or
// run ID it wrote.
func Transition(component, key, msg string, keyvals ...any) {
	if Logger == nil {
		return
	}
	Logger.With("component", component, "key", key).Debug(msg, keyvals...)
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
