package logger

import (
	"os"

	"github.com/rs/zerolog"
)

const (
	LOG_LEVEL_DEBUG = "DEBUG"
	LOG_LEVEL_INFO  = "INFO"
	LOG_LEVEL_WARN  = "WARN"
	LOG_LEVEL_ERROR = "ERROR"
	LOG_LEVEL_FATAL = "FATAL"
	LOG_LEVEL_PANIC = "PANIC"
)

const levelEnv = "POSTAG_LOGLEVEL"

var levels = map[string]zerolog.Level{
	LOG_LEVEL_DEBUG: zerolog.DebugLevel,
	LOG_LEVEL_INFO:  zerolog.InfoLevel,
	LOG_LEVEL_WARN:  zerolog.WarnLevel,
	LOG_LEVEL_ERROR: zerolog.ErrorLevel,
	LOG_LEVEL_FATAL: zerolog.FatalLevel,
	LOG_LEVEL_PANIC: zerolog.PanicLevel,
}

func SetupLogging() {
	zerolog.LevelFieldName = "level_name"
	zerolog.TimestampFieldName = "timestamp"
}

// Level reads the level from POSTAG_LOGLEVEL. Unset or unknown values mean INFO.
func Level() zerolog.Level {
	if level, ok := levels[os.Getenv(levelEnv)]; ok {
		return level
	}
	return zerolog.InfoLevel
}

func NewLogger(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).
		With().
		Str("component", component).
		Timestamp().
		Logger().
		Level(Level())
}
