package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "depa-cms"

var zlog = zerolog.New(os.Stderr).With().Timestamp().Logger()

// FileConfig configures an optional rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// InitStructured initializes the structured zerolog logger
func InitStructured(env string) {
	InitWithFile(env, FileConfig{})
}

// InitWithFile initializes the logger and, when file.Path is set, also
// writes JSON lines to a rotating file.
func InitWithFile(env string, file FileConfig) {
	var w io.Writer

	if env == "development" || env == "dev" || env == "local" {
		// Pretty console output for development
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	} else {
		// JSON output for production (machine-readable)
		w = os.Stdout
	}

	if file.Path != "" {
		w = zerolog.MultiLevelWriter(w, &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    orDefault(file.MaxSizeMB, 100),
			MaxBackups: orDefault(file.MaxBackups, 5),
			MaxAge:     orDefault(file.MaxAgeDays, 30),
			Compress:   file.Compress,
		})
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", serviceName).
		Str("env", env).
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// SetLevel sets the global minimum level, e.g. "debug" or "warn".
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// WithRequestID returns a logger with request_id field
func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
