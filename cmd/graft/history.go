package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// historyLines is how many journal entries to show
var historyLines int

// historyCmd prints recent entries of the run journal
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs from the run journal",
	Long: `Print the most recent entries of .graft/logs/runs.log. Each run writes one
header line and one line per task.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLines, "lines", "n", 20, "number of entries to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	lines, total := s.journal.Tail(historyLines)
	if total == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	if total > len(lines) {
		fmt.Fprintf(out, "(showing %d of %d entries in %s)\n", len(lines), total, s.journal.Path())
	}
	return nil
}
