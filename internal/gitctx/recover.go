package gitctx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// Control-state markers inside .git.
const (
	rebaseMarker = "rebase-merge"
	lockMarker   = "index.lock"
)

// ControlState is the part of .git that blocks a sync.
type ControlState struct {
	RebaseInProgress bool
	Locked           bool
}

// Clean reports whether neither marker is present.
func (s ControlState) Clean() bool {
	return !s.RebaseInProgress && !s.Locked
}

// InspectControlState checks root/.git for a rebase directory and index lock.
func InspectControlState(root string) ControlState {
	gitDir := filepath.Join(root, ".git")
	return ControlState{
		RebaseInProgress: exists(filepath.Join(gitDir, rebaseMarker)),
		Locked:           exists(filepath.Join(gitDir, lockMarker)),
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// RecoveryResult is the outcome of Recover.
type RecoveryResult int

const (
	// Proceed means the control state is clean.
	Proceed RecoveryResult = iota
	// NeedsRetry means a stuck rebase was force-cleaned; this attempt stops.
	NeedsRetry
	// Failed means the lock could not be removed.
	Failed
)

func (r RecoveryResult) String() string {
	switch r {
	case Proceed:
		return "proceed"
	case NeedsRetry:
		return "needs-retry"
	default:
		return "failed"
	}
}

// Ready reports whether the caller may pull, commit and push.
func (r RecoveryResult) Ready() bool { return r == Proceed }

// ErrRecoveryFailed is returned when Recover did not reach Proceed.
var ErrRecoveryFailed = errors.New("repository recovery failed")

// Recover clears a stuck rebase and a stale index lock. A rebase is aborted
// through git; if that fails the rebase directory is removed and NeedsRetry is
// returned without looking at the lock. A lock that cannot be removed yields
// Failed. Safe to call on a clean repo.
func (r *Repo) Recover(ctx context.Context) RecoveryResult {
	rebasePath := filepath.Join(r.GitDir(), rebaseMarker)
	lockPath := filepath.Join(r.GitDir(), lockMarker)

	if exists(rebasePath) {
		r.log.Warn("Git rebase in progress. Attempting to abort...")
		if _, err := r.git(ctx, "rebase", "--abort"); err != nil {
			r.log.Error("Failed to abort rebase: %v. Attempting to clean up...", err)
			if rmErr := os.RemoveAll(rebasePath); rmErr != nil {
				r.log.Error("Failed to remove rebase state: %v", rmErr)
				return Failed
			}
			r.log.Warn("Rebase state cleaned. Trying again.")
			return NeedsRetry
		}
		r.log.Success("Rebase aborted successfully.")
	}

	if exists(lockPath) {
		r.log.Warn("Git lock file detected. Attempting to remove...")
		if err := os.Remove(lockPath); err != nil {
			r.log.Error("Failed to remove lock file: %v", err)
			return Failed
		}
		r.log.Success("Lock file removed successfully.")
	}

	return Proceed
}
