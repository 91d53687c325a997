// Package logging provides config-driven categorized logging for archfolio.
// Logs are written to .archfolio/logs/archfolio.log, one zap logger per category.
// Logging is controlled by logging.debug_mode in the config - when false, nothing is
// written to disk. Non-interactive commands may additionally attach a stderr console.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config resolution
	CategoryStore     Category = "store"     // Document commits
	CategoryAssistant Category = "assistant" // Gemini calls, reconciliation
	CategoryEditor    Category = "editor"    // Terminal editor events
	CategoryServer    Category = "server"    // HTTP preview/API server
	CategoryWatch     Category = "watch"     // Document file watcher
)

// Config mirrors config.LoggingConfig to avoid an import cycle.
type Config struct {
	DebugMode  bool
	Level      string
	Format     string // json, console
	Categories map[string]bool
}

// Logger wraps a sugared zap logger for one category.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu         sync.RWMutex
	cfg        Config
	root       = zap.NewNop()
	fileCore   zapcore.Core
	console    zapcore.Core
	logFile    *os.File
	loggers    = make(map[Category]*Logger)
	logsDir    string
	levelValue = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Initialize sets up file logging under workspace/.archfolio/logs.
// With DebugMode off it only records the config; loggers stay no-ops.
func Initialize(workspace string, c Config) error {
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}

	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	cfg = c
	levelValue.SetLevel(parseLevel(c.Level))

	if !c.DebugMode {
		rebuildLocked()
		return nil
	}

	logsDir = filepath.Join(workspace, ".archfolio", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	path := filepath.Join(logsDir, "archfolio.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	fileCore = zapcore.NewCore(newEncoder(c.Format), zapcore.AddSync(f), levelValue)
	rebuildLocked()

	boot := getLocked(CategoryBoot)
	boot.Info("=== archfolio logging initialized ===")
	boot.Info("Workspace: %s", workspace)
	boot.Info("Log level: %s", levelValue.Level())
	return nil
}

// AttachConsole tees warnings (or everything at debug level when verbose) to stderr.
// The terminal editor never calls this: stderr belongs to the TUI there.
func AttachConsole(verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	console = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
	rebuildLocked()
}

// UseCore replaces every sink with core. Intended for tests that capture output
// with zaptest/observer.
func UseCore(core zapcore.Core, c Config) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	cfg = c
	fileCore = core
	rebuildLocked()
}

// IsDebugMode returns whether file logging is enabled.
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled returns whether a category writes anywhere.
// Unlisted categories are enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabledLocked(category)
}

func categoryEnabledLocked(category Category) bool {
	if fileCore == nil && console == nil {
		return false
	}
	if cfg.Categories == nil {
		return true
	}
	enabled, exists := cfg.Categories[string(category)]
	return !exists || enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	return getLocked(category)
}

func getLocked(category Category) *Logger {
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{category: category, sugar: zap.NewNop().Sugar()}
	if categoryEnabledLocked(category) {
		l.sugar = root.Named(string(category)).Sugar()
	}
	loggers[category] = l
	return l
}

// Zap exposes the underlying logger for structured fields.
func (l *Logger) Zap() *zap.Logger {
	return l.sugar.Desugar()
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

// With returns a logger carrying the given key-value pairs on every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// CloseAll flushes and closes the log file (call at shutdown).
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	console = nil
	rebuildLocked()
}

func closeLocked() {
	_ = root.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	fileCore = nil
}

func rebuildLocked() {
	var cores []zapcore.Core
	if fileCore != nil {
		cores = append(cores, fileCore)
	}
	if console != nil {
		cores = append(cores, console)
	}
	switch len(cores) {
	case 0:
		root = zap.NewNop()
	default:
		root = zap.New(zapcore.NewTee(cores...))
	}
	loggers = make(map[Category]*Logger)
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(encCfg)
	}
	return zapcore.NewConsoleEncoder(encCfg)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootWarn logs a warning to the boot category
func BootWarn(format string, args ...interface{}) {
	Get(CategoryBoot).Warn(format, args...)
}

// Store logs to the store category
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Info(format, args...)
}

// StoreDebug logs debug to the store category
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debug(format, args...)
}

// Assistant logs to the assistant category
func Assistant(format string, args ...interface{}) {
	Get(CategoryAssistant).Info(format, args...)
}

// AssistantDebug logs debug to the assistant category
func AssistantDebug(format string, args ...interface{}) {
	Get(CategoryAssistant).Debug(format, args...)
}

// AssistantError logs an error to the assistant category
func AssistantError(format string, args ...interface{}) {
	Get(CategoryAssistant).Error(format, args...)
}

// Editor logs to the editor category
func Editor(format string, args ...interface{}) {
	Get(CategoryEditor).Info(format, args...)
}

// EditorDebug logs debug to the editor category
func EditorDebug(format string, args ...interface{}) {
	Get(CategoryEditor).Debug(format, args...)
}

// Server logs to the server category
func Server(format string, args ...interface{}) {
	Get(CategoryServer).Info(format, args...)
}

// Watch logs to the watch category
func Watch(format string, args ...interface{}) {
	Get(CategoryWatch).Info(format, args...)
}

// WatchDebug logs debug to the watch category
func WatchDebug(format string, args ...interface{}) {
	Get(CategoryWatch).Debug(format, args...)
}

// WatchWarn logs a warning to the watch category
func WatchWarn(format string, args ...interface{}) {
	Get(CategoryWatch).Warn(format, args...)
}
