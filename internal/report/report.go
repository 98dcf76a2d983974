package report

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/gaspush/internal/redact"
)

// Report is the serializable result of one sanitize walk.
type Report struct {
	Tool    string       `json:"tool"`
	Version string       `json:"version"`
	Root    string       `json:"root"`
	DryRun  bool         `json:"dryRun"`
	Counts  Counts       `json:"counts"`
	Files   []FileReport `json:"files"`
	Skipped []string     `json:"skipped,omitempty"`
}

// Counts totals a walk.
type Counts struct {
	Files      int `json:"files"`
	Changed    int `json:"changed"`
	Redactions int `json:"redactions"`
	Failures   int `json:"failures"`
	Skipped    int `json:"skipped"`
}

// FileReport is one visited file.
type FileReport struct {
	Path   string         `json:"path"`
	Error  string         `json:"error,omitempty"`
	Events []redact.Event `json:"events,omitempty"`
}

// FromSummary converts a walk summary into a Report.
func FromSummary(s redact.Summary, version string) *Report {
	r := &Report{
		Tool:    "gaspush",
		Version: version,
		Root:    s.Root,
		DryRun:  s.DryRun,
		Counts: Counts{
			Files:      len(s.Files),
			Changed:    s.Changed,
			Redactions: s.Events,
			Failures:   s.Failures,
			Skipped:    len(s.Skipped),
		},
		Files:   make([]FileReport, 0, len(s.Files)),
		Skipped: s.Skipped,
	}
	for _, f := range s.Files {
		fr := FileReport{Path: f.Path, Events: f.Events}
		if f.Err != nil {
			fr.Error = f.Err.Error()
		}
		r.Files = append(r.Files, fr)
	}
	return r
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, report)
}
