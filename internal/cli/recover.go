package cli

import (
	"fmt"
	"os"

	"github.com/dshills/gaspush/internal/gitctx"
	"github.com/dshills/gaspush/internal/logging"
	"github.com/spf13/cobra"
)

var recoverCmd = &cobra.Command{
	Use:   "recover <repo>",
	Short: "Abort a stuck rebase and remove a stale index lock",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := args[0]
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			fmt.Fprintf(os.Stderr, "Error: %s is not a directory\n", root)
			exitCode = ExitUsageError
			return
		}

		sink := logging.New(os.Stdout, nil)
		repo := gitctx.NewRepo(root, nil, sink)
		state := gitctx.InspectControlState(root)
		if state.Clean() {
			sink.Note("Nothing to recover in %s", root)
			return
		}

		res := repo.Recover(commandContext(cmd))
		fmt.Fprintf(os.Stdout, "Result: %s\n", res)
		if !res.Ready() {
			exitCode = ExitRuntimeError
		}
	},
}
