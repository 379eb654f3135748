package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/graft/internal/artifact"
	"github.com/kingrea/graft/internal/tui"
)

// statusCmd reports task completion without reading any output
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which tasks have finished",
	Long: `Check every configured task for its output file and print one line per
task. Nothing is read or rewritten.

Examples:
  graft status
  GRAFT_ARTIFACTS_DIR=/tmp/tasks graft status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// browseCmd opens the interactive fragment browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse rewritten fragments interactively",
	Long: `Evaluate every task once and open a terminal browser listing each task's
outcome. Select a task to page through its rewritten fragments. Nothing is
applied.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

// runIntegrate performs one reported integration pass. Pending tasks are part
// of a normal run, so the exit status is zero unless configuration is broken.
func runIntegrate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	r, err := openRunner(out)
	if err != nil {
		return err
	}
	sum := r.Run()
	current.logger.Info("run finished",
		"completed", sum.Artifacts.Completed,
		"total", sum.Artifacts.Total,
		"phase", sum.Artifacts.Phase(),
	)
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	r, err := openRunner(io.Discard)
	if err != nil {
		return err
	}
	statuses := r.Check()
	for _, st := range statuses {
		fmt.Fprintf(out, "%-10s %-10s %s\n", st.Task.ID, st.State, st.Path)
		if st.Err != nil {
			fmt.Fprintf(out, "%-10s %-10s %v\n", "", "", st.Err)
		}
	}
	sum := artifact.Summarize(statuses)
	fmt.Fprintf(out, "\n%d/%d tasks completed, %d pending, %d errored\n", sum.Completed, sum.Total, sum.Pending, sum.Errored)
	return nil
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	r, err := openRunner(io.Discard)
	if err != nil {
		return err
	}
	sum := r.Evaluate()
	rename := current.cfg.Project.Rename
	browser := tui.NewBrowser(sum, fmt.Sprintf("graft %s → %s", rename.From, rename.To))
	p := tea.NewProgram(browser,
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
