package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/gaspush/internal/prompt"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitInputError   = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "gaspush",
	Short: "Export Google Apps Script projects to git",
	Long: "gaspush clones an Apps Script project with clasp, optionally redacts API paths " +
		"from the code, copies it into a git repository and pushes it. Run without a " +
		"subcommand it behaves like `gaspush sync`.",
	Args: cobra.NoArgs,
	Run:  runSync,
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(sanitizeCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Flags().AddFlagSet(syncCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// exitFor maps a run error to an exit code.
func exitFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, prompt.ErrBlankAnswer), errors.Is(err, prompt.ErrCancelled):
		return ExitInputError
	default:
		return ExitRuntimeError
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gaspush version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "gaspush version %s\n", version)
	},
}
