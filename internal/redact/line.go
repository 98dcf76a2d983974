package redact

import (
	"fmt"
	"strings"
)

// Class is the classification of a single source line.
type Class int

const (
	ClassUnchanged Class = iota
	ClassBlank
	ClassComment
	ClassCandidate
)

func (c Class) String() string {
	switch c {
	case ClassBlank:
		return "blank"
	case ClassComment:
		return "comment"
	case ClassCandidate:
		return "candidate"
	default:
		return "unchanged"
	}
}

// commentPrefixes start a line comment, a block comment, or a block
// comment continuation.
var commentPrefixes = []string{"//", "/*", "*"}

// Line is one classified line of a source file. Raw excludes the line terminator.
type Line struct {
	Raw     string
	Trimmed string
	Number  int
	Class   Class
}

// Classify builds the Line for raw at 1-based number n.
func Classify(m Matcher, raw string, n int) Line {
	l := Line{Raw: raw, Trimmed: strings.TrimSpace(raw), Number: n}
	switch {
	case l.Trimmed == "":
		l.Class = ClassBlank
	case isComment(l.Trimmed):
		l.Class = ClassComment
	case m.IsCandidate(l.Trimmed):
		l.Class = ClassCandidate
	default:
		l.Class = ClassUnchanged
	}
	return l
}

func isComment(trimmed string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// Event records one rewritten line.
type Event struct {
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Original string `json:"original"`
	Updated  string `json:"updated"`
}

func (e Event) String() string {
	return fmt.Sprintf("📄 File: %s\n🔢 Line: %d\n🧩 Match: %s\n✂️ Updated: %s\n──────────────────────────",
		e.Path, e.Line, e.Original, e.Updated)
}

// Lines rewrites content line by line and returns the new content plus one
// event per rewritten line. Line terminators are kept as found; a rewritten
// line is the redacted trimmed text, so its indentation is dropped.
func Lines(m Matcher, path, content string) (string, []Event) {
	var b strings.Builder
	b.Grow(len(content))
	var events []Event

	n := 0
	for rest := content; rest != ""; {
		var seg string
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			seg, rest = rest[:i+1], rest[i+1:]
		} else {
			seg, rest = rest, ""
		}
		n++

		body := strings.TrimRight(seg, "\r\n")
		ending := seg[len(body):]

		l := Classify(m, body, n)
		if l.Class != ClassCandidate {
			b.WriteString(seg)
			continue
		}
		updated := m.Redact(l.Trimmed)
		events = append(events, Event{Path: path, Line: n, Original: l.Trimmed, Updated: updated})
		b.WriteString(updated)
		b.WriteString(ending)
	}
	return b.String(), events
}
