// Package cli wires together the Cobra command tree for the gaspush binary.
//
// It defines the root command and all subcommands (sync, sanitize, recover,
// config, history, version), binds flags, reads configuration, runs the
// export, and maps failures to deterministic exit codes.
package cli
