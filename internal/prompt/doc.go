// Package prompt asks the operator for the three answers a sync run needs:
// the Apps Script ID, whether to sanitize, and the repository URL.
//
// Answers come from an [Asker]. [TerminalAsker] renders a bubbletea text
// input when stdin is a terminal; [LineAsker] reads plain lines and is used
// for pipes and tests. [Collect] validates the answers and builds the
// immutable [RunConfig] the export step consumes.
package prompt
