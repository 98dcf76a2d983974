// Package config loads and merges gaspush configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (GASPUSH_REPO_ROOT, GASPUSH_BRANCH, GASPUSH_API_KEYWORDS, etc.)
//  3. Config file ($XDG_CONFIG_HOME/gaspush/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file, and
// [SetField] to update a single key. [Config.Validate] checks the values a
// run depends on before any side effect happens.
package config
