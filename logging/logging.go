package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes printf style messages at a fixed level. The zero value discards everything.
type Logger struct {
	zerolog.Logger
	level zerolog.Level
}

// Printf logs at the logger's level. zerolog's own Printf always logs at debug.
func (l Logger) Printf(format string, v ...any) {
	l.WithLevel(l.level).Msg(strings.TrimSuffix(fmt.Sprintf(format, v...), "\n"))
}

func (l Logger) Println(v ...any) {
	l.WithLevel(l.level).Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Package-level loggers. They discard output until Init is called.
var (
	DebugLogger Logger
	InfoLogger  Logger
	ErrorLogger Logger
)

func defaultLogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "hfscout", "hfscout.log"), nil
}

// Init points every logger, including zerolog's global one, at a rotating log file
func Init(logLevel string, logFilePath string) error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	switch {
	case logFilePath == "":
		if logFilePath, err = defaultLogPath(); err != nil {
			return err
		}
	case strings.HasPrefix(logFilePath, "~"):
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		logFilePath = filepath.Join(homeDir, logFilePath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return err
	}

	rotate := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    2, // megabytes
		MaxBackups: 3,
		MaxAge:     60, // days
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(rotate).With().Timestamp().Logger()
	DebugLogger = Logger{log.Logger.Level(zerolog.DebugLevel), zerolog.DebugLevel}
	InfoLogger = Logger{log.Logger.Level(zerolog.InfoLevel), zerolog.InfoLevel}
	ErrorLogger = Logger{log.Logger.Level(zerolog.ErrorLevel), zerolog.ErrorLevel}

	DebugLogger.Printf("Logging to: %s", logFilePath)
	return nil
}
