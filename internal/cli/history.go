package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/gaspush/internal/config"
	"github.com/dshills/gaspush/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the run history",
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all previous runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		s, err := history.New(true, cfg.History.Dir, cfg.History.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		n, err := s.Clear()
		if err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintf(os.Stdout, "History cleared (%d entries).\n", n)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show previous runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		s, err := history.New(!cfg.History.Disabled, cfg.History.Dir, cfg.History.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		if !s.Enabled() {
			fmt.Fprintln(os.Stdout, "History is disabled.")
			return nil
		}
		stats, err := s.GetStats()
		if err != nil {
			return fmt.Errorf("reading history stats: %w", err)
		}
		entries, err := s.List()
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if entries == nil {
			entries = []history.Entry{}
		}
		data, err := json.MarshalIndent(struct {
			Stats   history.Stats   `json:"stats"`
			Entries []history.Entry `json:"entries"`
		}{stats, entries}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyShowCmd)
}
