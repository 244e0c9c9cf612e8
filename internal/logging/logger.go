// Package logging provides config-driven categorized logging for shellkit.
// Every category is a named child of one zap root logger. Logging is
// controlled by debug_mode in the logging config - when false, every
// category gets a no-op logger and nothing is written.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shellkit/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config, front-end selection
	CategoryShell   Category = "shell"   // Controller state transitions
	CategoryEval    Category = "eval"    // Evaluator session, redirection, faults
	CategoryHistory Category = "history" // History buffer and backing stores
	CategoryOutput  Category = "output"  // Output router channels
	CategoryUI      Category = "ui"      // Front-end adapters
)

// Logger wraps a sugared zap logger bound to one category.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	root     = zap.NewNop()
	settings config.LoggingConfig
	loggers  = make(map[Category]*Logger)
	mu       sync.RWMutex
)

// Initialize builds the root logger from the logging config.
// Should be called once at startup; calling it again replaces the root.
func Initialize(cfg config.LoggingConfig) error {
	if !cfg.DebugMode {
		setRoot(zap.NewNop(), cfg)
		return nil
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Sampling = nil
	zc.Encoding = "json"
	if cfg.Format == "console" || cfg.Format == "text" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		zc.OutputPaths = []string{cfg.File}
	}

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	setRoot(logger, cfg)

	Boot("logging initialized: level=%s format=%s file=%s", level.String(), zc.Encoding, cfg.File)
	return nil
}

// SetLogger installs an externally built root logger with every category
// enabled. Used by embedders that already own a zap logger, and by tests.
func SetLogger(logger *zap.Logger) {
	setRoot(logger, config.LoggingConfig{DebugMode: true})
}

func setRoot(logger *zap.Logger, cfg config.LoggingConfig) {
	mu.Lock()
	defer mu.Unlock()
	_ = root.Sync()
	root = logger
	settings = cfg
	loggers = make(map[Category]*Logger)
}

// Root returns the root zap logger.
func Root() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Root().Sync()
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return settings.IsCategoryEnabled(string(category))
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{category: category, sugar: root.Named(string(category)).Sugar()}
	loggers[category] = l
	return l
}

// With returns a copy of the logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Convenience functions per category.

func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

func BootWarn(format string, args ...interface{}) {
	Get(CategoryBoot).Warn(format, args...)
}

func EvalDebug(format string, args ...interface{}) {
	Get(CategoryEval).Debug(format, args...)
}

func EvalWarn(format string, args ...interface{}) {
	Get(CategoryEval).Warn(format, args...)
}

func History(format string, args ...interface{}) {
	Get(CategoryHistory).Info(format, args...)
}

func HistoryWarn(format string, args ...interface{}) {
	Get(CategoryHistory).Warn(format, args...)
}

func HistoryDebug(format string, args ...interface{}) {
	Get(CategoryHistory).Debug(format, args...)
}

// Timer tracks operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
