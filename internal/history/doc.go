// Package history remembers previous sync runs.
//
// Each entry records the Apps Script ID, the repository URL it was pushed to,
// whether the code was sanitized, and when. Entries are stored one JSON file
// per script ID, keyed by a SHA-256 hash of the ID, and expire after a TTL in
// seconds. Expired entries are skipped on read and removed on clear.
//
// The default directory is $XDG_CACHE_HOME/gaspush (or the OS-appropriate
// equivalent).
package history
