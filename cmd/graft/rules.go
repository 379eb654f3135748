package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// rulesSample is a file to run the rule table against
var rulesSample string

// rulesCmd prints the rewrite table in application order
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the rewrite rules in the order they run",
	Long: `Print the rewrite table built from the configured rename. With --sample,
rewrite that file, print the result, and report how many matches each rule
replaced.

Examples:
  graft rules
  GRAFT_RENAME_TO=engine graft rules --sample src/core.hpp`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesSample, "sample", "", "file to rewrite with the rule table")
}

func runRules(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	rules, err := s.cfg.Rules()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if rulesSample == "" {
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tRULE\tPATTERN\tREPLACEMENT")
		for i, rule := range rules {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, rule.Name, rule.Pattern.String(), rule.Replacement)
		}
		return w.Flush()
	}

	text, err := s.cfg.Tracker().Read(rulesSample)
	if err != nil {
		return err
	}
	rewritten, hits := rules.Explain(text)
	fmt.Fprint(out, rewritten)
	errOut := cmd.ErrOrStderr()
	w := tabwriter.NewWriter(errOut, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nRULE\tMATCHES")
	for _, hit := range hits {
		fmt.Fprintf(w, "%s\t%d\n", hit.Rule, hit.Matches)
	}
	return w.Flush()
}
