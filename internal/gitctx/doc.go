// Package gitctx drives the git working repository that receives exported
// script projects.
//
// [Repo.Recover] clears obstructing control state before a sync: an
// in-progress rebase (.git/rebase-merge) is aborted through git, or removed
// by force when the abort fails, and a stale .git/index.lock is deleted.
// [Repo.Sync] then runs the pull-rebase, add, commit, pull-rebase, push
// sequence, tolerating pull and commit failures and returning
// [ErrPushFailed] when the push is rejected.
//
// All git calls go through a [Runner] so tests can substitute failures.
package gitctx
