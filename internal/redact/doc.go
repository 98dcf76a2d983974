// Package redact removes internal API paths and URL-like strings from
// fetched script sources before they are committed.
//
// Detection is a line-oriented regex heuristic: a non-blank, non-comment line
// is a candidate when it contains one of the configured API keywords (such as
// /api/ or /bots/) and at least one identifier. Candidate lines have every
// identifier replaced with a placeholder and every slash-prefixed path run
// replaced with a redaction marker. The heuristic sits behind [Matcher] so a
// stricter implementation can replace [RegexMatcher].
//
// [Sanitizer.Dir] walks a tree iteratively, rewriting files whose names end
// with an allowed extension and reporting one [Event] per rewritten line.
package redact
