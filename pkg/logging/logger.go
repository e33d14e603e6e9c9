package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// Logger provides structured logging capabilities.
// This abstraction allows swapping logging implementations.
type Logger interface {
	// Error logs an error message
	Error(args ...interface{})

	// Warn logs a warning message
	Warn(args ...interface{})

	// Info logs an informational message
	Info(args ...interface{})

	// Debug logs a debug message
	Debug(args ...interface{})

	// WithFields returns a new logger with structured fields attached to
	// every subsequent entry
	WithFields(fields map[string]interface{}) Logger
}

// Config configures logger behavior
type Config struct {
	// JSONOutput enables JSON structured output
	JSONOutput bool
	// Level sets the minimum log level (DEBUG, INFO, WARN, ERROR)
	Level string
}

// defaultLogger implements Logger using Go's standard log package
type defaultLogger struct {
	errorLogger *log.Logger
	warnLogger  *log.Logger
	infoLogger  *log.Logger
	debugLogger *log.Logger
	config      Config
	fields      map[string]interface{}
}

// NewDefault creates a plain-text logger at DEBUG level
func NewDefault() Logger {
	return New(Config{JSONOutput: false, Level: "DEBUG"})
}

// New creates a new logger with configuration
func New(config Config) Logger {
	return &defaultLogger{
		errorLogger: log.New(os.Stderr, "[ERROR] ", log.LstdFlags|log.Lshortfile),
		warnLogger:  log.New(os.Stdout, "[WARN] ", log.LstdFlags|log.Lshortfile),
		infoLogger:  log.New(os.Stdout, "[INFO] ", log.LstdFlags|log.Lshortfile),
		debugLogger: log.New(os.Stdout, "[DEBUG] ", log.LstdFlags|log.Lshortfile),
		config:      config,
		fields:      make(map[string]interface{}),
	}
}

// NewJSON creates a logger with JSON output enabled
func NewJSON() Logger {
	return New(Config{JSONOutput: true, Level: "DEBUG"})
}

// entry represents a structured log entry
type entry struct {
	Timestamp string                 `json:"timestamp,omitempty"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *defaultLogger) log(level string, logger *log.Logger, message string) {
	if !l.shouldLog(level) {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}
	if len(l.fields) > 0 {
		e.Fields = make(map[string]interface{}, len(l.fields))
		for k, v := range l.fields {
			e.Fields[k] = v
		}
	}

	// Depth 2 skips log() and the level-specific method (Error/Warn/etc)
	if l.config.JSONOutput {
		jsonData, err := json.Marshal(e)
		if err == nil {
			logger.Output(2, string(jsonData))
		} else {
			// Fallback to plain text if JSON marshal fails
			logger.Output(2, fmt.Sprintf("[%s] %s %v", level, message, l.fields))
		}
	} else {
		if len(l.fields) > 0 {
			logger.Output(2, fmt.Sprintf("%s %v", message, l.fields))
		} else {
			logger.Output(2, message)
		}
	}
}

func (l *defaultLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"DEBUG": 0,
		"INFO":  1,
		"WARN":  2,
		"ERROR": 3,
	}

	configLevel, ok := levels[l.config.Level]
	if !ok {
		configLevel = 0 // default to DEBUG if invalid
	}

	logLevel, ok := levels[level]
	if !ok {
		return true // unknown levels are always logged
	}

	return logLevel >= configLevel
}

func (l *defaultLogger) Error(args ...interface{}) {
	l.log("ERROR", l.errorLogger, fmt.Sprint(args...))
}

func (l *defaultLogger) Warn(args ...interface{}) {
	l.log("WARN", l.warnLogger, fmt.Sprint(args...))
}

func (l *defaultLogger) Info(args ...interface{}) {
	l.log("INFO", l.infoLogger, fmt.Sprint(args...))
}

func (l *defaultLogger) Debug(args ...interface{}) {
	l.log("DEBUG", l.debugLogger, fmt.Sprint(args...))
}

// WithFields returns a new logger with structured fields merged over the
// existing ones (new fields override)
func (l *defaultLogger) WithFields(fields map[string]interface{}) Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &defaultLogger{
		errorLogger: l.errorLogger,
		warnLogger:  l.warnLogger,
		infoLogger:  l.infoLogger,
		debugLogger: l.debugLogger,
		config:      l.config,
		fields:      newFields,
	}
}

// Package-level logger instance for convenience functions
var (
	defaultInstance Logger
	defaultOnce     sync.Once
)

func initDefault() {
	defaultInstance = NewDefault()
}

// Default returns the package-level logger
func Default() Logger {
	defaultOnce.Do(initDefault)
	return defaultInstance
}

// Error logs an error message on the package-level logger
func Error(args ...interface{}) {
	Default().Error(args...)
}

// Warn logs a warning message on the package-level logger
func Warn(args ...interface{}) {
	Default().Warn(args...)
}

// Info logs an informational message on the package-level logger
func Info(args ...interface{}) {
	Default().Info(args...)
}

// Debug logs a debug message on the package-level logger
func Debug(args ...interface{}) {
	Default().Debug(args...)
}
