// Package report formats sanitize results for display or machine consumption.
//
// Two formats are supported:
//   - text: human-readable terminal output (default)
//   - json: the full structured report
//
// Build a [Report] from a redact.Summary with [FromSummary], then use
// [GetWriter] to obtain a [Writer] for a format string. [WriteReport] handles
// destination selection between a file and stdout.
package report
