package log

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎯 RequestOperation represents a handled HTTP request for logging
type RequestOperation struct {
	Method   string        // HTTP method
	Path     string        // Request path
	Status   int           // Response status code
	Duration time.Duration // Time to serve
	Source   string        // Data source (remote/cache/fallback), when known
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 LogRequest logs a handled request
func (l *Logger) LogRequest(op RequestOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	statusColor := color.FgGreen
	switch {
	case op.Status >= 500:
		statusColor = color.FgRed
	case op.Status >= 400:
		statusColor = color.FgYellow
	}

	line := fmt.Sprintf("%s %s %s %s",
		color.New(color.Bold).Sprint(fmt.Sprintf("%-6s", op.Method)),
		fmt.Sprintf("%-32s", op.Path),
		color.New(statusColor).Sprint(fmt.Sprintf("%3d", op.Status)),
		color.New(color.Faint).Sprint(op.Duration.Round(time.Millisecond).String()))
	if op.Source != "" {
		line += " " + color.New(color.FgCyan).Sprint(op.Source)
	}
	fmt.Fprintln(l.console, line)

	l.zlog.Info().
		Str("method", op.Method).
		Str("path", op.Path).
		Int("status", op.Status).
		Dur("duration", op.Duration).
		Str("source", op.Source).
		Msg("request")
}

// 📝 Header logs a startup header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("gitpress")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}
