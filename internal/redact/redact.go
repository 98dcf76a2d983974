package redact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/gaspush/internal/config"
)

const (
	// DefaultPlaceholder replaces every identifier on a redacted line.
	DefaultPlaceholder = "Domain"
	// DefaultPathMarker replaces every slash-prefixed path run on a redacted line.
	DefaultPathMarker = "/<REDACTED_PATH>/"
)

// pathPattern matches a run starting at "/" up to a quote, backslash or whitespace.
var pathPattern = regexp.MustCompile(`(/[^'"\\\s]*)`)

// Matcher decides whether a trimmed line should be redacted and rewrites it.
// RegexMatcher is the default; a parser-based matcher can be swapped in
// without touching the walk.
type Matcher interface {
	IsCandidate(line string) bool
	Redact(line string) string
}

// RegexMatcher flags lines that contain an API keyword and at least one
// identifier, and rewrites them by regex replacement.
type RegexMatcher struct {
	keywords    []string
	identifier  *regexp.Regexp
	placeholder string
	pathMarker  string
}

// NewRegexMatcher builds a RegexMatcher from sanitize settings. Empty
// placeholder or marker values fall back to the defaults.
func NewRegexMatcher(cfg config.SanitizeConfig) (*RegexMatcher, error) {
	pattern := cfg.IdentifierPattern
	if pattern == "" {
		pattern = config.DefaultIdentifierPattern
	}
	ident, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling identifier pattern: %w", err)
	}
	m := &RegexMatcher{
		keywords:    cfg.APIKeywords,
		identifier:  ident,
		placeholder: cfg.Placeholder,
		pathMarker:  cfg.PathMarker,
	}
	if m.placeholder == "" {
		m.placeholder = DefaultPlaceholder
	}
	if m.pathMarker == "" {
		m.pathMarker = DefaultPathMarker
	}
	return m, nil
}

// IsCandidate reports whether line holds a keyword and an identifier.
func (m *RegexMatcher) IsCandidate(line string) bool {
	return containsAny(line, m.keywords) && m.identifier.MatchString(line)
}

// Redact replaces identifiers with the placeholder, then path runs with the
// marker. Already-redacted text is not special-cased.
func (m *RegexMatcher) Redact(line string) string {
	out := m.identifier.ReplaceAllLiteralString(line, m.placeholder)
	return pathPattern.ReplaceAllLiteralString(out, m.pathMarker)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// HasAllowedExtension checks if a file name ends with one of the extensions.
func HasAllowedExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
