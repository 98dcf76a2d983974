package history

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"
)

// Entry is one remembered run.
type Entry struct {
	ScriptID  string    `json:"scriptId"`
	RepoURL   string    `json:"repoUrl"`
	Sanitized bool      `json:"sanitized"`
	CreatedAt time.Time `json:"createdAt"`
	TTL       int       `json:"ttl"`
}

// Store is a file-based run history.
type Store struct {
	dir        string
	ttlSeconds int
	enabled    bool
}

// New creates a new Store. If dir is empty, uses the default history directory.
func New(enabled bool, dir string, ttlSeconds int) (*Store, error) {
	if !enabled {
		return &Store{enabled: false}, nil
	}
	if dir == "" {
		d, err := defaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	return &Store{
		dir:        dir,
		ttlSeconds: ttlSeconds,
		enabled:    true,
	}, nil
}

// Get returns the entry for a script ID. Returns false on miss or expiry.
func (s *Store) Get(scriptID string) (Entry, bool) {
	if !s.enabled || scriptID == "" {
		return Entry{}, false
	}
	path := s.entryPath(scriptID)
	entry, err := readEntry(path)
	if err != nil {
		return Entry{}, false
	}
	if s.expired(entry) {
		os.Remove(path)
		return Entry{}, false
	}
	return entry, true
}

// RepoURL returns the last repo URL used for a script ID, or "".
func (s *Store) RepoURL(scriptID string) string {
	e, ok := s.Get(scriptID)
	if !ok {
		return ""
	}
	return e.RepoURL
}

// Put records a run. A zero CreatedAt is set to now.
func (s *Store) Put(e Entry) error {
	if !s.enabled {
		return nil
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.TTL = s.ttlSeconds
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling history entry: %w", err)
	}
	return os.WriteFile(s.entryPath(e.ScriptID), data, 0o644)
}

// List returns the live entries, most recent first.
func (s *Store) List() ([]Entry, error) {
	if !s.enabled || s.dir == "" {
		return nil, nil
	}
	files, err := s.files()
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, path := range files {
		e, err := readEntry(path)
		if err != nil || s.expired(e) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Clear removes all history entries and returns how many were removed.
func (s *Store) Clear() (int, error) {
	if !s.enabled || s.dir == "" {
		return 0, nil
	}
	files, err := s.files()
	if err != nil {
		return 0, err
	}
	var removed int
	for _, path := range files {
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats describes the history store.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
}

// GetStats returns information about the history store.
func (s *Store) GetStats() (Stats, error) {
	stats := Stats{Dir: s.dir}
	if !s.enabled || s.dir == "" {
		return stats, nil
	}
	files, err := s.files()
	if err != nil {
		return stats, err
	}
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()

		e, err := readEntry(path)
		if err != nil {
			continue
		}
		if s.expired(e) {
			stats.Expired++
		}
	}
	return stats, nil
}

// Dir returns the history directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Enabled returns whether history is kept.
func (s *Store) Enabled() bool {
	return s.enabled
}

// HashKey creates a SHA-256 hash of the given key material.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}

func (s *Store) expired(e Entry) bool {
	return s.ttlSeconds > 0 && time.Since(e.CreatedAt) > time.Duration(s.ttlSeconds)*time.Second
}

func (s *Store) files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			paths = append(paths, filepath.Join(s.dir, e.Name()))
		}
	}
	return paths, nil
}

func readEntry(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Store) entryPath(scriptID string) string {
	return filepath.Join(s.dir, HashKey(scriptID)+".json")
}

func defaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "gaspush"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "gaspush"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "gaspush", "history"), nil
		}
		return filepath.Join(home, "AppData", "Local", "gaspush", "history"), nil
	default:
		return filepath.Join(home, ".cache", "gaspush"), nil
	}
}
