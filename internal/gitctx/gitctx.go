package gitctx

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

// Runner executes git subcommands in a directory.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner shells out to the git binary.
type ExecRunner struct {
	// Bin defaults to "git".
	Bin string
}

// Run executes git -C dir args... and returns trimmed stdout. On failure the
// error carries stderr.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := r.Bin
	if bin == "" {
		bin = "git"
	}
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return strings.TrimSpace(stdout.String()), fmt.Errorf("%s: %s", err, msg)
		}
		return strings.TrimSpace(stdout.String()), err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Repo is a git working repository driven through a Runner.
type Repo struct {
	Root   string
	Remote string
	Branch string
	runner Runner
	log    *logging.Sink
}

// NewRepo returns a Repo rooted at root. A nil runner uses ExecRunner and a
// nil sink discards output.
func NewRepo(root string, runner Runner, sink *logging.Sink) *Repo {
	if runner == nil {
		runner = ExecRunner{}
	}
	if sink == nil {
		sink = logging.Discard()
	}
	return &Repo{Root: root, Remote: "origin", Branch: "main", runner: runner, log: sink}
}

// git logs and runs one git command in the repo root.
func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	r.log.Command("git "+strings.Join(args, " "), r.Root)
	return r.runner.Run(ctx, r.Root, args...)
}

// GitDir is the control-state directory of the repo.
func (r *Repo) GitDir() string {
	return filepath.Join(r.Root, ".git")
}

// IsRepo reports whether the root already has a .git entry.
func (r *Repo) IsRepo() bool {
	_, err := os.Stat(r.GitDir())
	return err == nil
}

// EnsureInit initializes the repo on the configured branch with remoteURL
// registered, unless .git already exists.
func (r *Repo) EnsureInit(ctx context.Context, remoteURL string) error {
	if r.IsRepo() {
		return nil
	}
	if err := os.MkdirAll(r.Root, 0o755); err != nil {
		return fmt.Errorf("creating repo root: %w", err)
	}
	if _, err := r.git(ctx, "init"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	if _, err := r.git(ctx, "checkout", "-B", r.Branch); err != nil {
		return fmt.Errorf("git checkout -B %s: %w", r.Branch, err)
	}
	if _, err := r.git(ctx, "remote", "add", r.Remote, remoteURL); err != nil {
		return fmt.Errorf("git remote add %s: %w", r.Remote, err)
	}
	return nil
}

// PullRebase runs git pull --rebase against the configured remote and branch.
func (r *Repo) PullRebase(ctx context.Context) error {
	_, err := r.git(ctx, "pull", "--rebase", r.Remote, r.Branch)
	return err
}

// AddAll stages every change in the working tree.
func (r *Repo) AddAll(ctx context.Context) error {
	_, err := r.git(ctx, "add", "-A")
	return err
}

// Status returns git status output.
func (r *Repo) Status(ctx context.Context) (string, error) {
	return r.git(ctx, "status")
}

// Commit commits all staged and tracked changes with message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	_, err := r.git(ctx, "commit", "-am", message)
	return err
}

// Push pushes the configured branch to the remote.
func (r *Repo) Push(ctx context.Context) error {
	_, err := r.git(ctx, "push", r.Remote, r.Branch)
	return err
}

// ErrPushFailed is returned by Sync when the final push fails.
var ErrPushFailed = errors.New("push failed")

// SyncOutcome reports what Sync did.
type SyncOutcome struct {
	Committed    bool
	PullFailed   bool
	RebaseFailed bool
	Pushed       bool
}

// Sync pulls, commits and pushes. Pull and commit failures are logged and
// tolerated; a push failure is logged and returned wrapped in ErrPushFailed.
func (r *Repo) Sync(ctx context.Context, message string) (SyncOutcome, error) {
	var out SyncOutcome

	if err := r.PullRebase(ctx); err != nil {
		out.PullFailed = true
		r.log.Warn("WARNING: Pull failed. Proceeding anyway.")
	}

	if err := r.AddAll(ctx); err != nil {
		return out, fmt.Errorf("git add: %w", err)
	}

	r.log.Printf("📋 Git status:")
	status, err := r.Status(ctx)
	if err != nil {
		return out, fmt.Errorf("git status: %w", err)
	}
	r.log.Printf("%s", status)

	if err := r.Commit(ctx, message); err != nil {
		r.log.Note("No changes to commit")
	} else {
		out.Committed = true
	}

	if err := r.PullRebase(ctx); err != nil {
		out.RebaseFailed = true
		r.log.Warn("WARNING: Merge conflict detected during rebase")
	}

	if err := r.Push(ctx); err != nil {
		r.log.Error("Push failed. Check logs above for Git conflict resolution.")
		r.log.Error("Git error: %v", err)
		return out, fmt.Errorf("%w: %w", ErrPushFailed, err)
	}
	out.Pushed = true
	r.log.Success("Push successful!")
	return out, nil
}
