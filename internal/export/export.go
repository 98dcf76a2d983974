// Package export runs one sync: fetch an Apps Script project, optionally
// sanitize it, copy it into the repository and push.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/gaspush/internal/config"
	"github.com/dshills/gaspush/internal/fetch"
	"github.com/dshills/gaspush/internal/fsutil"
	"github.com/dshills/gaspush/internal/gitctx"
	"github.com/dshills/gaspush/internal/history"
	"github.com/dshills/gaspush/internal/logging"
	"github.com/dshills/gaspush/internal/prompt"
	"github.com/dshills/gaspush/internal/redact"
)

// CommitMessage is the message of every export commit.
const CommitMessage = "GAS export - auto update"

var (
	// ErrNotConfigured is returned when no repository root is set.
	ErrNotConfigured = errors.New("repoRoot is not configured")
	// ErrUnexpected wraps a panic recovered during a run.
	ErrUnexpected = errors.New("unexpected error")
)

// Deps are the collaborators of a run. Nil fields get the defaults built
// from the config.
type Deps struct {
	Fetcher fetch.Fetcher
	Runner  gitctx.Runner
	History *history.Store
}

// Session asks for the run answers and then runs the export. A blank answer
// is logged once and nothing else happens.
func Session(ctx context.Context, cfg config.Config, asker prompt.Asker, preset prompt.Preset, deps Deps) error {
	log := logging.FromContext(ctx)

	var recall prompt.Recall
	if deps.History != nil {
		recall = deps.History.RepoURL
	}
	rc, err := prompt.Collect(asker, preset, recall)
	if err != nil {
		log.Error("ERROR: %v", err)
		return err
	}
	return Run(ctx, cfg, rc, deps)
}

// Run performs the export for rc. Every failure is logged before it is
// returned; a panic is recovered, logged and returned as ErrUnexpected.
func Run(ctx context.Context, cfg config.Config, rc prompt.RunConfig, deps Deps) (err error) {
	log := logging.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error("UNEXPECTED ERROR: %v", r)
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	if cfg.RepoRoot == "" {
		log.Error("ERROR: %v. Run: gaspush config set repoRoot <dir>", ErrNotConfigured)
		return ErrNotConfigured
	}

	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = fetch.Clasp{Bin: cfg.ClaspBin, InsecureTLS: cfg.InsecureTLS, Log: log}
	}

	log.Step("Cloning GAS project...")
	if err := fetch.PrepareDir(cfg.ScratchDir); err != nil {
		log.Error("UNEXPECTED ERROR: %v", err)
		return err
	}
	if err := fetcher.Fetch(ctx, rc.ScriptID, cfg.ScratchDir); err != nil {
		log.Error("ERROR: Cloning failed. Check Script ID or clasp auth.\n%v", err)
		log.Error("Aborting operation.")
		return err
	}

	if rc.Sanitize {
		log.Step("Sanitizing files...")
		if err := sanitize(cfg, log); err != nil {
			log.Error("UNEXPECTED ERROR: %v", err)
			return err
		}
	}

	dest := cfg.DestDir()
	log.Printf("📁 Copying files to GitHub directory...")
	if err := fsutil.ReplaceTree(cfg.ScratchDir, dest, cfg.RepoRoot); err != nil {
		log.Error("ERROR: Copy failed: %v", err)
		return err
	}
	names, err := fsutil.ListTop(dest)
	if err != nil {
		log.Error("UNEXPECTED ERROR: %v", err)
		return err
	}
	log.Printf("📂 Copied sanitized files:")
	for _, n := range names {
		log.Printf("   - %s", n)
	}

	log.Step("Git init or update...")
	repo := gitctx.NewRepo(cfg.RepoRoot, deps.Runner, log)
	repo.Remote = cfg.Remote
	repo.Branch = cfg.Branch
	if err := repo.EnsureInit(ctx, rc.RepoURL); err != nil {
		log.Error("UNEXPECTED ERROR: %v", err)
		return err
	}

	if res := repo.Recover(ctx); !res.Ready() {
		log.Error("Rebase cleanup failed. Please resolve manually.")
		return fmt.Errorf("%w: %s", gitctx.ErrRecoveryFailed, res)
	}

	msg := CommitMessage
	if rc.Sanitize {
		msg += " (sanitized)"
	}
	if _, err := repo.Sync(ctx, msg); err != nil {
		if errors.Is(err, gitctx.ErrPushFailed) {
			log.Error("DONE: Project failed to push. Resolve issues and retry.")
		} else {
			log.Error("UNEXPECTED ERROR: %v", err)
		}
		return err
	}
	log.Success("DONE: Project pushed to GitHub!")

	if deps.History != nil {
		if err := deps.History.Put(history.Entry{ScriptID: rc.ScriptID, RepoURL: rc.RepoURL, Sanitized: rc.Sanitize}); err != nil {
			log.Warn("Could not record run history: %v", err)
		}
	}
	return nil
}

func sanitize(cfg config.Config, log *logging.Sink) error {
	m, err := redact.NewRegexMatcher(cfg.Sanitize)
	if err != nil {
		return err
	}
	s := redact.New(m, cfg.Sanitize.Extensions, redact.WithReporter(LogReporter{Log: log}))
	_, err = s.Dir(cfg.ScratchDir)
	return err
}

// LogReporter writes sanitize progress to a log sink.
type LogReporter struct {
	Log *logging.Sink
}

func (r LogReporter) Redaction(ev redact.Event) {
	r.Log.Block(ev.String())
}

func (r LogReporter) FileDone(res redact.FileResult) {
	if res.Err != nil {
		r.Log.Error("ERROR: Could not sanitize file %s. Reason: %v", res.Path, res.Err)
		return
	}
	r.Log.Printf("✔️ File sanitized: %s", res.Path)
}
