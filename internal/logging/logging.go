// Package logging writes the human-readable run log to the console and to an
// append-only file.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

// Level tags a log line.
type Level int

const (
	LevelPlain Level = iota
	LevelStep
	LevelNote
	LevelWarn
	LevelError
	LevelSuccess
	LevelCommand
)

var prefixes = map[Level]string{
	LevelStep:    "⚙️ STEP: ",
	LevelNote:    "ℹ️ ",
	LevelWarn:    "⚠️ ",
	LevelError:   "❌ ",
	LevelSuccess: "✅ ",
	LevelCommand: "📦 CMD: ",
}

var styles = map[Level]lipgloss.Style{
	LevelStep:    lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true),
	LevelNote:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
	LevelWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
	LevelCommand: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

const timeLayout = "2006-01-02 15:04:05"

// Sink mirrors every line to the console and, when open, to a log file.
type Sink struct {
	mu      sync.Mutex
	console io.Writer
	file    io.Writer
	closer  io.Closer
	color   bool
	errors  int
	now     func() time.Time
}

// New creates a sink writing to console and file. Either may be nil.
func New(console, file io.Writer) *Sink {
	if console == nil {
		console = io.Discard
	}
	return &Sink{
		console: console,
		file:    file,
		color:   isTerminal(console),
		now:     time.Now,
	}
}

// Discard returns a sink that drops everything.
func Discard() *Sink {
	return New(io.Discard, nil)
}

// Open truncates the log file at path, writes the start header to it and
// returns a sink mirroring to console.
func Open(path string, console io.Writer) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	s := New(console, f)
	s.closer = f
	if _, err := fmt.Fprintf(f, "🚀 Operation started at %s\n", s.now().Format(timeLayout)); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing log header: %w", err)
	}
	return s, nil
}

// Close writes the finish footer and closes the log file.
func (s *Sink) Close() error {
	s.Printf("\n🕒 Finished at %s", s.now().Format(timeLayout))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	s.file = nil
	return err
}

// SetColor forces console coloring on or off.
func (s *Sink) SetColor(on bool) {
	s.mu.Lock()
	s.color = on
	s.mu.Unlock()
}

// Log writes one tagged line.
func (s *Sink) Log(level Level, format string, args ...any) {
	msg := prefixes[level] + fmt.Sprintf(format, args...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if level == LevelError {
		s.errors++
	}
	console := msg
	if st, ok := styles[level]; ok && s.color {
		console = st.Render(msg)
	}
	fmt.Fprintln(s.console, console)
	if s.file != nil {
		fmt.Fprintln(s.file, msg)
	}
}

func (s *Sink) Printf(format string, args ...any) { s.Log(LevelPlain, format, args...) }
func (s *Sink) Step(format string, args ...any)   { s.Log(LevelStep, format, args...) }
func (s *Sink) Note(format string, args ...any)   { s.Log(LevelNote, format, args...) }
func (s *Sink) Warn(format string, args ...any)   { s.Log(LevelWarn, format, args...) }
func (s *Sink) Error(format string, args ...any)  { s.Log(LevelError, format, args...) }
func (s *Sink) Success(format string, args ...any) {
	s.Log(LevelSuccess, format, args...)
}

// Command logs an external command about to run in dir.
func (s *Sink) Command(command, dir string) {
	s.Log(LevelCommand, "%s (in %s)", command, dir)
}

// Block writes a multi-line message as consecutive plain lines.
func (s *Sink) Block(text string) {
	for _, line := range strings.Split(text, "\n") {
		s.Printf("%s", line)
	}
}

// ErrorCount returns the number of error lines written so far.
func (s *Sink) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// isTerminal reports whether w is a terminal that takes color. NO_COLOR and
// TERM=dumb turn color off.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return colorprofile.Detect(f, os.Environ()) >= colorprofile.ANSI
}

type ctxKey struct{}

// WithSink attaches a sink to the context.
func WithSink(ctx context.Context, s *Sink) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext retrieves the sink from context.
// Returns a discarding sink if none is attached.
func FromContext(ctx context.Context) *Sink {
	if s, ok := ctx.Value(ctxKey{}).(*Sink); ok {
		return s
	}
	return Discard()
}
