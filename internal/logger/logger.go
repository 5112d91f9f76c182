// Package logger provides the application-wide structured logger.
//
// Log output goes to a date-stamped file under the configured directory so
// the interactive REPL stays clean; console output can be enabled for
// debugging.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	defaultLogger *zap.SugaredLogger
	once          sync.Once
)

// Config logger configuration
type Config struct {
	LogDir     string // Log directory
	Level      string // "debug" | "info" | "warn" | "error"
	ConsoleOut bool   // Tee output to stderr as well
}

// Init initializes the default logger
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		defaultLogger, err = newLogger(cfg)
	})
	return err
}

func newLogger(cfg Config) (*zap.SugaredLogger, error) {
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(cfg.LogDir, fmt.Sprintf("tradermate-%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(file), level),
	}
	if cfg.ConsoleOut {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	return logger.Sugar(), nil
}

// Get returns the default logger, falling back to a no-op logger when
// Init has not been called (e.g. in tests).
func Get() *zap.SugaredLogger {
	if defaultLogger == nil {
		return zap.NewNop().Sugar()
	}
	return defaultLogger
}

// Convenience functions that use the default logger

func Debugf(template string, args ...interface{}) { Get().Debugf(template, args...) }
func Infof(template string, args ...interface{})  { Get().Infof(template, args...) }
func Warnf(template string, args ...interface{})  { Get().Warnf(template, args...) }
func Errorf(template string, args ...interface{}) { Get().Errorf(template, args...) }

// Sync flushes any buffered log entries
func Sync() error {
	if defaultLogger != nil {
		return defaultLogger.Sync()
	}
	return nil
}
