// Gaspush exports a Google Apps Script project into a git repository.
//
// It clones the project with clasp, optionally redacts API paths and
// URL-like strings from the code, copies the tree into a directory of a git
// working repository, clears a stuck rebase or stale index lock, and then
// commits and pushes. Every step is logged to the console and to a run log
// file.
//
// Usage:
//
//	gaspush                           # prompt for script ID, sanitize, repo URL
//	gaspush sync --script-id <id> --sanitize Y --repo-url <url>
//	gaspush sanitize ./src --dry-run  # preview redactions
//	gaspush recover <repo>            # abort stuck rebase, drop index.lock
//	gaspush config set repoRoot ~/repos/scripts
//	gaspush history show
package main
