package cli

import (
	"fmt"
	"os"

	"github.com/dshills/gaspush/internal/config"
	"github.com/dshills/gaspush/internal/redact"
	"github.com/dshills/gaspush/internal/report"
	"github.com/spf13/cobra"
)

// Sanitize flags
var (
	flagDryRun bool
	flagFormat string
	flagOut    string
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize <dir>",
	Short: "Redact API paths in a directory of Apps Script sources",
	Long: "Walks <dir> and rewrites every line that mentions a configured API keyword, " +
		"replacing identifiers with the placeholder and paths with the redaction marker. " +
		"With --dry-run nothing is written.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return
		}
		if _, err := report.GetWriter(flagFormat); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return
		}
		m, err := redact.NewRegexMatcher(cfg.Sanitize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return
		}

		s := redact.New(m, cfg.Sanitize.Extensions, redact.WithDryRun(flagDryRun))
		sum, err := s.Dir(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}

		if err := report.WriteReport(report.FromSummary(sum, version), flagFormat, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
		if sum.Failures > 0 {
			exitCode = ExitRuntimeError
		}
	},
}

func init() {
	sanitizeCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Report redactions without writing files")
	sanitizeCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json)")
	sanitizeCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}
