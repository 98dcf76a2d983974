package report

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	mode := "write"
	if report.DryRun {
		mode = "dry run"
	}
	ew.printf("gaspush sanitize (%s)\n", mode)
	ew.printf("Root: %s\n", report.Root)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Files: %d visited, %d changed, %d redactions",
		report.Counts.Files, report.Counts.Changed, report.Counts.Redactions)
	if report.Counts.Failures > 0 {
		ew.printf(", %d failed", report.Counts.Failures)
	}
	if report.Counts.Skipped > 0 {
		ew.printf(", %d skipped", report.Counts.Skipped)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if report.Counts.Redactions == 0 && report.Counts.Failures == 0 {
		ew.println("\nNothing to redact.")
		return ew.err
	}

	for _, f := range report.Files {
		if f.Error == "" && len(f.Events) == 0 {
			continue
		}
		ew.printf("\n%s\n", f.Path)
		if f.Error != "" {
			ew.printf("  [!!] %s\n", f.Error)
		}
		for _, e := range f.Events {
			ew.printf("  %d: %s\n", e.Line, e.Original)
			ew.printf("  %s  %s\n", strings.Repeat(" ", digits(e.Line)), e.Updated)
		}
	}

	if len(report.Skipped) > 0 {
		ew.println("\nSkipped symlinks:")
		for _, s := range report.Skipped {
			ew.printf("  %s\n", s)
		}
	}

	return ew.err
}

func digits(n int) int {
	return len(fmt.Sprint(n))
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
