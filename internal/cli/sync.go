package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dshills/gaspush/internal/config"
	"github.com/dshills/gaspush/internal/export"
	"github.com/dshills/gaspush/internal/history"
	"github.com/dshills/gaspush/internal/logging"
	"github.com/dshills/gaspush/internal/prompt"
	"github.com/spf13/cobra"
)

// Sync flags
var (
	flagScriptID    string
	flagSanitize    string
	flagRepoURL     string
	flagRepoRoot    string
	flagProjectDir  string
	flagBranch      string
	flagLogFile     string
	flagInsecureTLS bool
)

// Swapped in tests.
var (
	newAsker = func() prompt.Asker { return prompt.NewAsker(os.Stdin, os.Stdout) }
	newDeps  = func(cfg config.Config) export.Deps { return export.Deps{} }
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Clone, optionally sanitize, copy and push an Apps Script project",
	Long: "Asks for the Apps Script ID, whether to sanitize, and the repository URL " +
		"(flags answer the questions up front), then clones the project with clasp, " +
		"copies it into the configured repository directory, recovers a stuck rebase " +
		"or stale index lock and pushes.",
	Args: cobra.NoArgs,
	Run:  runSync,
}

func init() {
	syncCmd.Flags().StringVar(&flagScriptID, "script-id", "", "Apps Script ID (skips the prompt)")
	syncCmd.Flags().StringVar(&flagSanitize, "sanitize", "", "Sanitize before pushing: Y or N (skips the prompt)")
	syncCmd.Flags().StringVar(&flagRepoURL, "repo-url", "", "Git remote URL (skips the prompt)")
	syncCmd.Flags().StringVar(&flagRepoRoot, "repo-root", "", "Git working repository root")
	syncCmd.Flags().StringVar(&flagProjectDir, "project-dir", "", "Directory inside the repository receiving the project")
	syncCmd.Flags().StringVar(&flagBranch, "branch", "", "Branch to pull and push")
	syncCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Run log file")
	syncCmd.Flags().BoolVar(&flagInsecureTLS, "insecure-tls", false, "Disable TLS verification for the clasp process only")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagRepoRoot != "" {
		m["repoRoot"] = flagRepoRoot
	}
	if flagProjectDir != "" {
		m["projectDir"] = flagProjectDir
	}
	if flagBranch != "" {
		m["branch"] = flagBranch
	}
	if flagLogFile != "" {
		m["logFile"] = flagLogFile
	}
	if flagInsecureTLS {
		m["insecureTLS"] = "true"
	}
	return m
}

func runSync(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	sink, err := logging.Open(cfg.LogFile, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	defer sink.Close()

	deps := newDeps(cfg)
	store, err := history.New(!cfg.History.Disabled, cfg.History.Dir, cfg.History.TTLSeconds)
	if err != nil {
		sink.Warn("Run history unavailable: %v", err)
	} else {
		deps.History = store
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()
	ctx = logging.WithSink(ctx, sink)

	preset := prompt.Preset{ScriptID: flagScriptID, Sanitize: flagSanitize, RepoURL: flagRepoURL}
	exitCode = exitFor(export.Session(ctx, cfg, newAsker(), preset, deps))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
