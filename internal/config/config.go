package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the gaspush configuration.
type Config struct {
	ScratchDir  string         `json:"scratchDir"`
	RepoRoot    string         `json:"repoRoot"`
	ProjectDir  string         `json:"projectDir"`
	LogFile     string         `json:"logFile"`
	Branch      string         `json:"branch"`
	Remote      string         `json:"remote"`
	ClaspBin    string         `json:"claspBin"`
	InsecureTLS bool           `json:"insecureTLS,omitempty"`
	Sanitize    SanitizeConfig `json:"sanitize"`
	History     HistoryConfig  `json:"history"`
}

// SanitizeConfig controls which lines are redacted and how.
type SanitizeConfig struct {
	APIKeywords       []string `json:"apiKeywords"`
	Extensions        []string `json:"extensions"`
	IdentifierPattern string   `json:"identifierPattern"`
	Placeholder       string   `json:"placeholder"`
	PathMarker        string   `json:"pathMarker"`
}

// HistoryConfig controls the run history store.
type HistoryConfig struct {
	Disabled   bool   `json:"disabled,omitempty"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// DefaultIdentifierPattern matches a run of letters, digits and underscores
// that does not start with a digit.
const DefaultIdentifierPattern = `\b([a-zA-Z_][a-zA-Z0-9_]*)\b`

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		ScratchDir: "./temp-clasp",
		RepoRoot:   "",
		ProjectDir: "apps-script",
		LogFile:    "SanitizingOutput.txt",
		Branch:     "main",
		Remote:     "origin",
		ClaspBin:   "clasp",
		Sanitize: SanitizeConfig{
			APIKeywords:       []string{"/api/", "/cm/", "/bots/", "/v1/", "/v2/"},
			Extensions:        []string{".js", ".gs"},
			IdentifierPattern: DefaultIdentifierPattern,
			Placeholder:       "Domain",
			PathMarker:        "/<REDACTED_PATH>/",
		},
		History: HistoryConfig{
			TTLSeconds: 30 * 86400,
		},
	}
}

// DestDir returns the directory the fetched project is copied into.
func (c Config) DestDir() string {
	if c.ProjectDir == "" {
		return c.RepoRoot
	}
	if filepath.IsAbs(c.ProjectDir) {
		return c.ProjectDir
	}
	return filepath.Join(c.RepoRoot, c.ProjectDir)
}

// Validate reports configuration errors that would make a run fail late.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ScratchDir) == "" {
		errs = append(errs, errors.New("scratchDir must be set"))
	}
	if strings.TrimSpace(c.Branch) == "" {
		errs = append(errs, errors.New("branch must be set"))
	}
	if strings.TrimSpace(c.Remote) == "" {
		errs = append(errs, errors.New("remote must be set"))
	}
	if len(c.Sanitize.APIKeywords) == 0 {
		errs = append(errs, errors.New("sanitize.apiKeywords must not be empty"))
	}
	if len(c.Sanitize.Extensions) == 0 {
		errs = append(errs, errors.New("sanitize.extensions must not be empty"))
	}
	if _, err := regexp.Compile(c.Sanitize.IdentifierPattern); err != nil {
		errs = append(errs, fmt.Errorf("sanitize.identifierPattern: %w", err))
	}
	return errors.Join(errs...)
}

// ConfigDir returns the platform-appropriate config directory for gaspush.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gaspush"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "gaspush"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gaspush"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "gaspush"), nil
	default:
		return filepath.Join(home, ".config", "gaspush"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(&cfg, key, value); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.ScratchDir != "" {
		dst.ScratchDir = src.ScratchDir
	}
	if src.RepoRoot != "" {
		dst.RepoRoot = src.RepoRoot
	}
	if src.ProjectDir != "" {
		dst.ProjectDir = src.ProjectDir
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	if src.Branch != "" {
		dst.Branch = src.Branch
	}
	if src.Remote != "" {
		dst.Remote = src.Remote
	}
	if src.ClaspBin != "" {
		dst.ClaspBin = src.ClaspBin
	}
	dst.InsecureTLS = src.InsecureTLS || dst.InsecureTLS
	if len(src.Sanitize.APIKeywords) > 0 {
		dst.Sanitize.APIKeywords = src.Sanitize.APIKeywords
	}
	if len(src.Sanitize.Extensions) > 0 {
		dst.Sanitize.Extensions = src.Sanitize.Extensions
	}
	if src.Sanitize.IdentifierPattern != "" {
		dst.Sanitize.IdentifierPattern = src.Sanitize.IdentifierPattern
	}
	if src.Sanitize.Placeholder != "" {
		dst.Sanitize.Placeholder = src.Sanitize.Placeholder
	}
	if src.Sanitize.PathMarker != "" {
		dst.Sanitize.PathMarker = src.Sanitize.PathMarker
	}
	if src.History.Dir != "" {
		dst.History.Dir = src.History.Dir
	}
	if src.History.TTLSeconds > 0 {
		dst.History.TTLSeconds = src.History.TTLSeconds
	}
	dst.History.Disabled = src.History.Disabled || dst.History.Disabled
}

// envKeys maps environment variables to config keys understood by SetField.
var envKeys = []struct {
	env string
	key string
}{
	{"GASPUSH_SCRATCH_DIR", "scratchDir"},
	{"GASPUSH_REPO_ROOT", "repoRoot"},
	{"GASPUSH_PROJECT_DIR", "projectDir"},
	{"GASPUSH_LOG_FILE", "logFile"},
	{"GASPUSH_BRANCH", "branch"},
	{"GASPUSH_REMOTE", "remote"},
	{"GASPUSH_CLASP_BIN", "claspBin"},
	{"GASPUSH_INSECURE_TLS", "insecureTLS"},
	{"GASPUSH_API_KEYWORDS", "sanitize.apiKeywords"},
	{"GASPUSH_EXTENSIONS", "sanitize.extensions"},
}

func mergeEnv(cfg *Config) error {
	for _, e := range envKeys {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
// List values are comma-separated.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "scratchDir":
		cfg.ScratchDir = value
	case "repoRoot":
		cfg.RepoRoot = value
	case "projectDir":
		cfg.ProjectDir = value
	case "logFile":
		cfg.LogFile = value
	case "branch":
		cfg.Branch = value
	case "remote":
		cfg.Remote = value
	case "claspBin":
		cfg.ClaspBin = value
	case "insecureTLS":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("insecureTLS must be a boolean: %w", err)
		}
		cfg.InsecureTLS = b
	case "sanitize.apiKeywords":
		cfg.Sanitize.APIKeywords = SplitList(value)
	case "sanitize.extensions":
		cfg.Sanitize.Extensions = SplitList(value)
	case "sanitize.identifierPattern":
		if _, err := regexp.Compile(value); err != nil {
			return fmt.Errorf("sanitize.identifierPattern: %w", err)
		}
		cfg.Sanitize.IdentifierPattern = value
	case "sanitize.placeholder":
		cfg.Sanitize.Placeholder = value
	case "sanitize.pathMarker":
		cfg.Sanitize.PathMarker = value
	case "history.disabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("history.disabled must be a boolean: %w", err)
		}
		cfg.History.Disabled = b
	case "history.dir":
		cfg.History.Dir = value
	case "history.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("history.ttlSeconds must be an integer: %w", err)
		}
		cfg.History.TTLSeconds = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// SplitList splits a comma-separated value, dropping empty parts.
func SplitList(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
