package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/cs-au-dk/symheap/utils"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// GlobalLogger is disabled until a front end configures it. Packages derive
// their own sub-logger from it so log lines can be filtered by component.
var GlobalLogger = NewLogger(zerolog.Disabled)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// Logger wraps a zerolog logger writing to the console and, optionally, to
// any number of additional writers in structured form.
type Logger struct {
	level   zerolog.Level
	console zerolog.Logger
	multi   zerolog.Logger
	writers []io.Writer
}

// NewLogger creates a logger with the given level. Console output is
// unstructured and coloured; additional writers receive JSON lines.
func NewLogger(level zerolog.Level, writers ...io.Writer) *Logger {
	console := zerolog.New(consoleWriter(os.Stderr)).Level(level)
	multi := zerolog.New(io.Discard).Level(zerolog.Disabled)
	if len(writers) > 0 {
		multi = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	}

	return &Logger{
		level:   level,
		console: console,
		multi:   multi,
		writers: writers,
	}
}

// NewSubLogger creates a logger that tags every event with key=value.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	return &Logger{
		level:   l.level,
		console: l.console.With().Str(key, value).Logger(),
		multi:   l.multi.With().Str(key, value).Logger(),
		writers: l.writers,
	}
}

// components holds the sub-logger of every component, so that Configure can
// update the loggers packages captured during initialization.
var components = map[string]*Logger{}

// For derives the sub-logger of a component from the global logger.
func For(component string) *Logger {
	if l, found := components[component]; found {
		return l
	}
	l := GlobalLogger.NewSubLogger("module", component)
	components[component] = l
	return l
}

// Configure replaces the global logger according to a textual level.
func Configure(level string, writers ...io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	GlobalLogger = NewLogger(lvl, writers...)
	for component, l := range components {
		*l = *GlobalLogger.NewSubLogger("module", component)
	}
	return nil
}

func (l *Logger) Level() zerolog.Level {
	return l.level
}

// Enabled reports whether events at the given level are emitted.
func (l *Logger) Enabled(level zerolog.Level) bool {
	return l.level != zerolog.Disabled && level >= l.level
}

func (l *Logger) Trace(msg string, fields map[string]any) {
	l.emit(l.console.Trace(), l.multi.Trace(), msg, fields)
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	l.emit(l.console.Debug(), l.multi.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	l.emit(l.console.Info(), l.multi.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	l.emit(l.console.Warn(), l.multi.Warn(), msg, fields)
}

// Error logs err together with a stack trace when the logger is at debug
// level or below.
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	console, multi := l.console.Error().Err(err), l.multi.Error().Err(err)
	if l.level <= zerolog.DebugLevel {
		console, multi = console.Stack(), multi.Stack()
	}
	l.emit(console, multi, msg, fields)
}

func (l *Logger) emit(console, multi *zerolog.Event, msg string, fields map[string]any) {
	if fields != nil {
		console.Fields(fields)
		multi.Fields(fields)
	}
	defer multi.Msg(msg)
	console.Msg(msg)
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	writer := zerolog.ConsoleWriter{Out: out, NoColor: utils.Opts().NoColorize()}
	writer.FormatTimestamp = func(interface{}) string {
		return ""
	}
	writer.FormatLevel = func(i any) string {
		s, _ := i.(string)
		level, err := zerolog.ParseLevel(s)
		if err != nil {
			return s
		}

		switch level {
		case zerolog.TraceLevel:
			return utils.CanColorize(color.New(color.FgCyan, color.Bold).SprintFunc())(s)
		case zerolog.DebugLevel:
			return utils.CanColorize(color.New(color.FgBlue, color.Bold).SprintFunc())(s)
		case zerolog.InfoLevel:
			return utils.CanColorize(color.New(color.FgGreen, color.Bold).SprintFunc())(s)
		case zerolog.WarnLevel:
			return utils.CanColorize(color.New(color.FgYellow, color.Bold).SprintFunc())(s)
		default:
			return utils.CanColorize(color.New(color.FgRed, color.Bold).SprintFunc())(fmt.Sprint(s))
		}
	}
	return writer
}
