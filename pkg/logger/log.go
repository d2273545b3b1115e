package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type LogLevel int

const (
	VERBOSE LogLevel = iota
	DEBUG
	INFO
	SUCCESS
	NEW
	REMOVE
	STOP
	WARNING
	ERROR
	FATAL
)

var levelNames = map[string]LogLevel{
	"verbose": VERBOSE,
	"debug":   DEBUG,
	"info":    INFO,
	"warning": WARNING,
	"warn":    WARNING,
	"error":   ERROR,
	"fatal":   FATAL,
}

func (e LogLevel) String() string {
	return []string{
		"V",
		"D",
		"I",
		"✓",
		"+",
		"-",
		"X",
		"!",
		"!!",
		"PANIC",
	}[e]
}

func (e LogLevel) Color() *color.Color {
	return []*color.Color{
		color.New(color.FgWhite, color.Italic),                // Verbose
		color.New(color.FgWhite, color.Italic),                // Debug
		color.New(color.FgWhite),                              // Info
		color.New(color.FgHiGreen),                            // Success
		color.New(color.FgGreen, color.Italic),                // New
		color.New(color.FgYellow, color.Italic),               // Remove
		color.New(color.FgHiYellow),                           // Stop
		color.New(color.FgYellow, color.Underline),            // Warning
		color.New(color.FgHiRed, color.Bold),                  // Error
		color.New(color.FgHiRed, color.Bold, color.Underline), // Fatal
	}[e]
}

// Level returns the level as an int, suitable for
// use with SetMinLoggingLevel.
func (e LogLevel) Level() int { return int(e) }

// ParseLevel converts a human readable level name (as found
// in configuration) to a LogLevel. Matching is case-insensitive.
func ParseLevel(name string) (LogLevel, error) {
	if lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lvl, nil
	}

	return INFO, fmt.Errorf("unknown log level '%s'", name)
}

type Logger interface {
	Emit(LogLevel, string, ...any)
	Verbosef(string, ...any)
	Debugf(string, ...any)
	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
}

type loggerImpl struct {
	name string
}

func (l *loggerImpl) Emit(level LogLevel, message string, interpolations ...any) {
	manager.emit(level, l.name, message, interpolations...)
}

func (l *loggerImpl) Verbosef(message string, args ...any) { l.Emit(VERBOSE, message, args...) }
func (l *loggerImpl) Debugf(message string, args ...any)   { l.Emit(DEBUG, message, args...) }
func (l *loggerImpl) Infof(message string, args ...any)    { l.Emit(INFO, message, args...) }
func (l *loggerImpl) Warnf(message string, args ...any)    { l.Emit(WARNING, message, args...) }
func (l *loggerImpl) Errorf(message string, args ...any)   { l.Emit(ERROR, message, args...) }

type loggerMgr struct {
	sync.Mutex
	offset   int
	minLevel LogLevel
	out      io.Writer
}

var manager = &loggerMgr{minLevel: INFO, out: os.Stdout}

// emit formats and writes the message. The name column is padded
// to the longest logger name seen so far so that messages line up.
func (l *loggerMgr) emit(level LogLevel, name string, message string, interpolations ...any) {
	l.Lock()
	defer l.Unlock()

	if level < l.minLevel {
		return
	}

	if len(name) > l.offset {
		l.offset = len(name)
	}

	padding := strings.Repeat(" ", l.offset-len(name))
	msg := fmt.Sprintf("[%s] %s(%s) %s", name, padding, level, fmt.Sprintf(message, interpolations...))
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	level.Color().Fprint(l.out, msg)
}

// Get returns a named logger. Loggers are cheap and are typically
// stored in a package level variable.
func Get(name string) Logger {
	return &loggerImpl{name: name}
}

// SetMinLoggingLevel drops all messages below the level provided.
func SetMinLoggingLevel(level int) {
	manager.Lock()
	defer manager.Unlock()

	manager.minLevel = LogLevel(level)
}

// SetOutput redirects all log output to the writer provided.
func SetOutput(w io.Writer) {
	manager.Lock()
	defer manager.Unlock()

	manager.out = w
}
