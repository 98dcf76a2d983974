// Package fetch pulls an Apps Script project into a local directory with clasp.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dshills/gaspush/internal/logging"
)

// ErrFetchFailed wraps any clone failure.
var ErrFetchFailed = errors.New("fetch failed")

// projectFile is the clasp metadata file removed after cloning.
const projectFile = ".clasp.json"

// Fetcher populates dir with the files of the script project scriptID.
type Fetcher interface {
	Fetch(ctx context.Context, scriptID, dir string) error
}

// Clasp clones projects with the clasp CLI.
type Clasp struct {
	// Bin defaults to "clasp".
	Bin string
	// InsecureTLS disables certificate checks for the clasp child process
	// only. The parent environment is left untouched.
	InsecureTLS bool
	Log         *logging.Sink
}

// Fetch runs `clasp clone <scriptID>` inside dir and drops .clasp.json.
func (c Clasp) Fetch(ctx context.Context, scriptID, dir string) error {
	bin := c.Bin
	if bin == "" {
		bin = "clasp"
	}
	log := c.Log
	if log == nil {
		log = logging.Discard()
	}

	log.Command(fmt.Sprintf("%s clone %s", bin, scriptID), dir)
	cmd := exec.CommandContext(ctx, bin, "clone", scriptID)
	cmd.Dir = dir
	cmd.Env = c.env()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s clone: %s", ErrFetchFailed, bin, msg)
		}
		return fmt.Errorf("%w: %s clone: %w", ErrFetchFailed, bin, err)
	}

	if err := os.Remove(filepath.Join(dir, projectFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", projectFile, err)
	}
	return nil
}

func (c Clasp) env() []string {
	env := os.Environ()
	if c.InsecureTLS {
		env = append(env, "NODE_TLS_REJECT_UNAUTHORIZED=0")
	}
	return env
}

// PrepareDir removes dir if present and recreates it empty.
func PrepareDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
