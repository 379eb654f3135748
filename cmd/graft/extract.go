package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/graft/internal/extract"
)

var (
	// extractLang overrides the configured fence language
	extractLang string
	// extractRaw skips the namespace rewrite
	extractRaw bool
)

// extractCmd pulls fragments out of a single file
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract and rewrite the code blocks of one file",
	Long: `Read one task output file, extract its fenced code blocks, rewrite each
of them with the configured rename, and print them in order.

Examples:
  graft extract .graft/tasks/afb1d4c.output
  graft extract --lang go notes.md
  graft extract --raw .graft/tasks/a28bf15.output`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractLang, "lang", "", "fence language tag (default: config fence)")
	extractCmd.Flags().BoolVar(&extractRaw, "raw", false, "print fragments without rewriting")
}

func runExtract(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	lang := extractLang
	if lang == "" {
		lang = s.cfg.Project.Fence
	}
	rules, err := s.cfg.Rules()
	if err != nil {
		return err
	}

	text, err := s.cfg.Tracker().Read(args[0])
	if err != nil {
		return err
	}
	fragments := extract.New(lang).Extract(text)
	out := cmd.OutOrStdout()
	if len(fragments) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "No %s code blocks found in %s\n", lang, args[0])
		return nil
	}
	for i, f := range fragments {
		body := f.Body
		if !extractRaw {
			body = rules.Apply(body)
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "// --- block %d ---\n%s\n", f.Ordinal, body)
	}
	s.logger.Debug("extracted file", "path", args[0], "fragments", len(fragments), "raw", extractRaw)
	return nil
}
