package redact

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Reporter receives redaction events and per-file results as the walk
// progresses.
type Reporter interface {
	Redaction(ev Event)
	FileDone(res FileResult)
}

type nopReporter struct{}

func (nopReporter) Redaction(Event)     {}
func (nopReporter) FileDone(FileResult) {}

// FileResult is the outcome of sanitizing a single file.
type FileResult struct {
	Path   string  `json:"path"`
	Events []Event `json:"events,omitempty"`
	Err    error   `json:"-"`
}

// Changed reports whether any line of the file was rewritten.
func (r FileResult) Changed() bool { return len(r.Events) > 0 }

// Summary aggregates the results of a directory walk.
type Summary struct {
	Root     string       `json:"root"`
	DryRun   bool         `json:"dryRun"`
	Files    []FileResult `json:"files"`
	Changed  int          `json:"changed"`
	Events   int          `json:"events"`
	Failures int          `json:"failures"`
	Skipped  []string     `json:"skipped,omitempty"`
}

func (s *Summary) add(res FileResult) {
	s.Files = append(s.Files, res)
	s.Events += len(res.Events)
	if res.Changed() {
		s.Changed++
	}
	if res.Err != nil {
		s.Failures++
	}
}

// Sanitizer rewrites matching lines of source files in place.
type Sanitizer struct {
	matcher    Matcher
	extensions []string
	reporter   Reporter
	dryRun     bool
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithReporter sets the event sink.
func WithReporter(r Reporter) Option {
	return func(s *Sanitizer) { s.reporter = r }
}

// WithDryRun reports events without writing files.
func WithDryRun(dryRun bool) Option {
	return func(s *Sanitizer) { s.dryRun = dryRun }
}

// New creates a Sanitizer that processes files ending in one of extensions.
func New(m Matcher, extensions []string, opts ...Option) *Sanitizer {
	s := &Sanitizer{
		matcher:    m,
		extensions: extensions,
		reporter:   nopReporter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// File sanitizes one file. Events are reported before the file is written.
func (s *Sanitizer) File(path string) FileResult {
	res := FileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", path, err)
		s.reporter.FileDone(res)
		return res
	}
	info, err := os.Stat(path)
	if err != nil {
		res.Err = fmt.Errorf("stat %s: %w", path, err)
		s.reporter.FileDone(res)
		return res
	}

	content, events := Lines(s.matcher, path, string(data))
	res.Events = events
	for _, ev := range events {
		s.reporter.Redaction(ev)
	}

	if !s.dryRun {
		if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
			res.Err = fmt.Errorf("writing %s: %w", path, err)
		}
	}
	s.reporter.FileDone(res)
	return res
}

// Dir walks root with an explicit stack and sanitizes every file with an
// allowed extension. Symlinks are not followed. A failure on one file or
// subdirectory is recorded and the walk continues; only an unreadable root
// is returned as an error.
func (s *Sanitizer) Dir(root string) (Summary, error) {
	sum := Summary{Root: root, DryRun: s.dryRun}

	info, err := os.Stat(root)
	if err != nil {
		return sum, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return sum, fmt.Errorf("%s is not a directory", root)
	}

	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return sum, fmt.Errorf("reading %s: %w", root, err)
			}
			res := FileResult{Path: dir, Err: fmt.Errorf("reading %s: %w", dir, err)}
			s.reporter.FileDone(res)
			sum.add(res)
			continue
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		var subdirs []string
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			switch {
			case e.Type()&fs.ModeSymlink != 0:
				sum.Skipped = append(sum.Skipped, full)
			case e.IsDir():
				subdirs = append(subdirs, full)
			case e.Type().IsRegular() && HasAllowedExtension(e.Name(), s.extensions):
				sum.add(s.File(full))
			}
		}
		// Push in reverse so subdirectories pop in lexical order.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return sum, nil
}
