package common

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

// --------------------------------------------------------------------------
// Custom Logger (implements logger.ILogger)
// --------------------------------------------------------------------------

// strandLogger implements logger.ILogger with a "LEVEL | package | message"
// line format on top of the standard library logger
type strandLogger struct {
	name  string
	level logger.LogLevel
	out   *log.Logger
}

func (l *strandLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *strandLogger) Debugf(format string, args ...interface{}) {
	l.logAt(logger.DEBUG, "DEBUG", format, args...)
}

func (l *strandLogger) Infof(format string, args ...interface{}) {
	l.logAt(logger.INFO, "INFO", format, args...)
}

func (l *strandLogger) Warningf(format string, args ...interface{}) {
	l.logAt(logger.WARNING, "WARN", format, args...)
}

func (l *strandLogger) Errorf(format string, args ...interface{}) {
	l.logAt(logger.ERROR, "ERROR", format, args...)
}

func (l *strandLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// logAt writes the message if the logger's level admits it
func (l *strandLogger) logAt(level logger.LogLevel, tag string, format string, args ...interface{}) {
	if l.level < level {
		return
	}
	l.out.Printf("%-5s | %-15s | %s", tag, l.name, fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger implements the logger.Factory interface
func CreateLogger(pkgName string) logger.ILogger {
	return &strandLogger{
		name:  pkgName,
		level: logger.INFO,
		out:   log.New(os.Stdout, "", log.Ldate|log.Ltime),
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseLogLevel maps a config string to a logger.LogLevel, panicking on
// unknown values since a bad level means a broken config
func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG
	case "info":
		return logger.INFO
	case "warning", "warn":
		return logger.WARNING
	case "error":
		return logger.ERROR
	default:
		panic(fmt.Sprintf("invalid log level: %s. must be one of debug, info, warn, error", level))
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// factoryOnce guards the factory installation: dragonboat panics when the
// logger factory is set twice, and InitLoggers runs once per server
var factoryOnce sync.Once

// InitLoggers installs the custom factory and sets the level on every
// logger the application uses
func InitLoggers(logLevel string) {
	factoryOnce.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})

	level := parseLogLevel(logLevel)
	for _, name := range []string{"rpc", "transport/rpc", "server", "journal", "engine"} {
		logger.GetLogger(name).SetLevel(level)
	}
}
