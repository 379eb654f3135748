// Package rewrite normalizes identifying tokens inside extracted source text.
// A rename is expressed as an ordered table of small pattern/replacement
// records; Apply runs the table top to bottom so the output of one rule is
// the input of the next.

package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is a single case-insensitive pattern and its replacement. The
// replacement may use $1-style references to capture groups.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// NewRule compiles pattern with case-insensitive matching.
func NewRule(name, pattern, replacement string) (Rule, error) {
	if strings.TrimSpace(name) == "" {
		return Rule{}, fmt.Errorf("rewrite: rule name is required")
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rewrite: compile %s: %w", name, err)
	}
	return Rule{Name: name, Pattern: re, Replacement: replacement}, nil
}

// MustRule panics if the rule does not compile.
func MustRule(name, pattern, replacement string) Rule {
	rule, err := NewRule(name, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return rule
}

// Apply replaces every match of the rule in text.
func (r Rule) Apply(text string) string {
	if r.Pattern == nil {
		return text
	}
	return r.Pattern.ReplaceAllString(text, r.Replacement)
}

// Rules is an ordered rule table. Order is part of the contract: patterns are
// not guaranteed to be disjoint.
type Rules []Rule

// Apply runs every rule in order and returns the rewritten text. It never
// fails; text without any match is returned unchanged.
func (rs Rules) Apply(text string) string {
	for _, rule := range rs {
		text = rule.Apply(text)
	}
	return text
}

// Names lists rule names in table order.
func (rs Rules) Names() []string {
	names := make([]string, 0, len(rs))
	for _, rule := range rs {
		names = append(names, rule.Name)
	}
	return names
}

// Hit records how often a rule matched while a table was applied.
type Hit struct {
	Rule    string
	Matches int
}

// Explain applies the table like Apply and also reports, per rule, how many
// matches it replaced at its position in the sequence.
func (rs Rules) Explain(text string) (string, []Hit) {
	hits := make([]Hit, 0, len(rs))
	for _, rule := range rs {
		count := 0
		if rule.Pattern != nil {
			count = len(rule.Pattern.FindAllStringIndex(text, -1))
		}
		hits = append(hits, Hit{Rule: rule.Name, Matches: count})
		text = rule.Apply(text)
	}
	return text, hits
}
