package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ScratchDir != "./temp-clasp" {
		t.Errorf("Default scratchDir = %q, want %q", cfg.ScratchDir, "./temp-clasp")
	}
	if cfg.Branch != "main" {
		t.Errorf("Default branch = %q, want %q", cfg.Branch, "main")
	}
	if cfg.LogFile != "SanitizingOutput.txt" {
		t.Errorf("Default logFile = %q, want %q", cfg.LogFile, "SanitizingOutput.txt")
	}
	if len(cfg.Sanitize.APIKeywords) != 5 {
		t.Errorf("Default apiKeywords len = %d, want 5", len(cfg.Sanitize.APIKeywords))
	}
	if len(cfg.Sanitize.Extensions) != 2 {
		t.Errorf("Default extensions len = %d, want 2", len(cfg.Sanitize.Extensions))
	}
	if cfg.Sanitize.Placeholder != "Domain" {
		t.Errorf("Default placeholder = %q, want %q", cfg.Sanitize.Placeholder, "Domain")
	}
	if cfg.InsecureTLS {
		t.Error("Default insecureTLS should be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestDestDir(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"root only", Config{RepoRoot: "/repos/gas"}, "/repos/gas"},
		{"relative project", Config{RepoRoot: "/repos/gas", ProjectDir: "billing"}, filepath.Join("/repos/gas", "billing")},
		{"absolute project", Config{RepoRoot: "/repos/gas", ProjectDir: "/elsewhere/billing"}, "/elsewhere/billing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DestDir(); got != tt.want {
				t.Errorf("DestDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty keywords", func(c *Config) { c.Sanitize.APIKeywords = nil }},
		{"empty extensions", func(c *Config) { c.Sanitize.Extensions = nil }},
		{"bad pattern", func(c *Config) { c.Sanitize.IdentifierPattern = "([a-z" }},
		{"empty branch", func(c *Config) { c.Branch = " " }},
		{"empty scratch", func(c *Config) { c.ScratchDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("GASPUSH_REPO_ROOT", "/srv/repos")
	t.Setenv("GASPUSH_BRANCH", "trunk")
	t.Setenv("GASPUSH_API_KEYWORDS", "/rest/, /internal/")
	t.Setenv("GASPUSH_INSECURE_TLS", "true")

	cfg := Default()
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}

	if cfg.RepoRoot != "/srv/repos" {
		t.Errorf("RepoRoot = %q, want %q", cfg.RepoRoot, "/srv/repos")
	}
	if cfg.Branch != "trunk" {
		t.Errorf("Branch = %q, want %q", cfg.Branch, "trunk")
	}
	if len(cfg.Sanitize.APIKeywords) != 2 || cfg.Sanitize.APIKeywords[1] != "/internal/" {
		t.Errorf("APIKeywords = %v, want [/rest/ /internal/]", cfg.Sanitize.APIKeywords)
	}
	if !cfg.InsecureTLS {
		t.Error("InsecureTLS should be true")
	}
}

func TestMergeEnv_InvalidBool(t *testing.T) {
	t.Setenv("GASPUSH_INSECURE_TLS", "sometimes")

	cfg := Default()
	if err := mergeEnv(&cfg); err == nil {
		t.Error("Expected error for invalid GASPUSH_INSECURE_TLS")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
	}{
		{"scratchDir", "/tmp/scratch"},
		{"repoRoot", "/repos"},
		{"projectDir", "script"},
		{"logFile", "run.log"},
		{"branch", "develop"},
		{"remote", "upstream"},
		{"claspBin", "/usr/local/bin/clasp"},
		{"insecureTLS", "false"},
		{"sanitize.apiKeywords", "/api/"},
		{"sanitize.extensions", ".gs,.ts"},
		{"sanitize.identifierPattern", `[A-Za-z]+`},
		{"sanitize.placeholder", "X"},
		{"sanitize.pathMarker", "/***/"},
		{"history.disabled", "true"},
		{"history.dir", "/tmp/history"},
		{"history.ttlSeconds", "60"},
	}

	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.Branch != "develop" {
		t.Errorf("Branch = %q, want %q", cfg.Branch, "develop")
	}
	if len(cfg.Sanitize.Extensions) != 2 || cfg.Sanitize.Extensions[1] != ".ts" {
		t.Errorf("Extensions = %v, want [.gs .ts]", cfg.Sanitize.Extensions)
	}
	if !cfg.History.Disabled {
		t.Error("History.Disabled should be true")
	}
	if cfg.History.TTLSeconds != 60 {
		t.Errorf("History.TTLSeconds = %d, want 60", cfg.History.TTLSeconds)
	}
}

func TestSetField_Errors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"nonexistent", "value"},
		{"history.ttlSeconds", "notanumber"},
		{"history.disabled", "maybe"},
		{"sanitize.identifierPattern", "(["},
	}
	for _, tt := range tests {
		cfg := Default()
		if err := SetField(&cfg, tt.key, tt.value); err == nil {
			t.Errorf("SetField(%q, %q) expected error", tt.key, tt.value)
		}
	}
}

func TestMergeFile_AllFields(t *testing.T) {
	dst := Default()
	src := Config{
		ScratchDir:  "/tmp/s",
		RepoRoot:    "/repos",
		ProjectDir:  "p",
		LogFile:     "x.log",
		Branch:      "dev",
		Remote:      "up",
		ClaspBin:    "clasp2",
		InsecureTLS: true,
		Sanitize: SanitizeConfig{
			APIKeywords: []string{"/x/"},
			Extensions:  []string{".ts"},
			Placeholder: "P",
			PathMarker:  "/M/",
		},
		History: HistoryConfig{Disabled: true, Dir: "/h", TTLSeconds: 5},
	}
	mergeFile(&dst, src)

	if dst.RepoRoot != "/repos" || dst.ProjectDir != "p" || dst.Branch != "dev" || dst.Remote != "up" {
		t.Errorf("scalar fields not merged: %+v", dst)
	}
	if !dst.InsecureTLS {
		t.Error("InsecureTLS should be merged from file")
	}
	if dst.Sanitize.Placeholder != "P" || dst.Sanitize.PathMarker != "/M/" {
		t.Errorf("sanitize fields not merged: %+v", dst.Sanitize)
	}
	if dst.Sanitize.IdentifierPattern != DefaultIdentifierPattern {
		t.Errorf("IdentifierPattern should keep default, got %q", dst.Sanitize.IdentifierPattern)
	}
	if !dst.History.Disabled || dst.History.Dir != "/h" || dst.History.TTLSeconds != 5 {
		t.Errorf("history fields not merged: %+v", dst.History)
	}
}

func TestMergeFile_EmptyFile(t *testing.T) {
	dst := Default()
	mergeFile(&dst, Config{})

	if dst.History.Disabled {
		t.Error("History should stay enabled when file is empty")
	}
	if dst.Branch != "main" {
		t.Errorf("Branch = %q, want main", dst.Branch)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GASPUSH_BRANCH", "")

	cfg := Default()
	cfg.RepoRoot = "/repos/scripts"
	cfg.Sanitize.APIKeywords = []string{"/hooks/"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load(map[string]string{"branch": "release"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.RepoRoot != "/repos/scripts" {
		t.Errorf("RepoRoot = %q, want %q", loaded.RepoRoot, "/repos/scripts")
	}
	if len(loaded.Sanitize.APIKeywords) != 1 || loaded.Sanitize.APIKeywords[0] != "/hooks/" {
		t.Errorf("APIKeywords = %v", loaded.Sanitize.APIKeywords)
	}
	if loaded.Branch != "release" {
		t.Errorf("Branch = %q, want override %q", loaded.Branch, "release")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.RepoRoot != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "gaspush"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "gaspush", "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(); err == nil {
		t.Error("Expected parse error")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" .js , ,.gs,")
	if len(got) != 2 || got[0] != ".js" || got[1] != ".gs" {
		t.Errorf("SplitList = %v, want [.js .gs]", got)
	}
	if SplitList("") != nil {
		t.Error("SplitList(\"\") should be nil")
	}
}
