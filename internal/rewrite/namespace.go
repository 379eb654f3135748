package rewrite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidName indicates a namespace or macro name is not a C identifier.
	ErrInvalidName = errors.New("rewrite: invalid identifier")
	// ErrSelfOverlap indicates the new name contains the old one, so applying
	// the table twice would rewrite its own output.
	ErrSelfOverlap = errors.New("rewrite: replacement contains the source name")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Literal is an exact text rewrite such as an internal guard symbol.
type Literal struct {
	From string `yaml:"from" koanf:"from"`
	To   string `yaml:"to" koanf:"to"`
}

// Namespace describes a rename of one C++ namespace and the tokens derived
// from it. Include guards and macros use the upper-cased names.
type Namespace struct {
	From    string    `yaml:"from" koanf:"from"`
	To      string    `yaml:"to" koanf:"to"`
	Macros  []string  `yaml:"macros,omitempty" koanf:"macros"`
	Symbols []Literal `yaml:"symbols,omitempty" koanf:"symbols"`
}

// DefaultNamespace is the osp -> ewss rename.
func DefaultNamespace() Namespace {
	return Namespace{
		From:   "osp",
		To:     "ewss",
		Macros: []string{"ASSERT", "SCOPE_EXIT", "CONCAT"},
		Symbols: []Literal{
			{From: "osp_vocabulary_hpp_", To: "ewss_vocabulary_hpp_"},
		},
	}
}

// Validate checks that both names are identifiers and that the table built
// from them is idempotent.
func (ns Namespace) Validate() error {
	if !identifier.MatchString(ns.From) {
		return fmt.Errorf("%w: from %q", ErrInvalidName, ns.From)
	}
	if !identifier.MatchString(ns.To) {
		return fmt.Errorf("%w: to %q", ErrInvalidName, ns.To)
	}
	if containsFold(ns.To, ns.From) {
		return fmt.Errorf("%w: %q contains %q", ErrSelfOverlap, ns.To, ns.From)
	}
	for i, macro := range ns.Macros {
		if !identifier.MatchString(macro) {
			return fmt.Errorf("%w: macros[%d] %q", ErrInvalidName, i, macro)
		}
	}
	for i, sym := range ns.Symbols {
		if sym.From == "" {
			return fmt.Errorf("rewrite: symbols[%d].from is required", i)
		}
		if containsFold(sym.To, sym.From) {
			return fmt.Errorf("%w: symbols[%d] %q contains %q", ErrSelfOverlap, i, sym.To, sym.From)
		}
	}
	return nil
}

// ForNamespace builds the ordered rule table for a rename:
//
//  1. namespace <from> {          -> namespace <to> {
//  2. } // namespace <from>       -> } // namespace <to>
//  3. ::<from>::                  -> ::<to>::
//  4. <from>::                    -> <to>::
//  5. #ifndef/#define <FROM>_     -> <TO>_
//  6. <FROM>_<MACRO>              -> <TO>_<MACRO>
//  7. guard symbol literals
//
// Rule 4 runs after rule 3. Neither replacement can match rule 4 again
// because To never contains From (see Validate).
func ForNamespace(ns Namespace) (Rules, error) {
	if err := ns.Validate(); err != nil {
		return nil, err
	}
	from := regexp.QuoteMeta(ns.From)
	upperFrom := regexp.QuoteMeta(strings.ToUpper(ns.From))
	upperTo := strings.ToUpper(ns.To)

	rules := Rules{
		MustRule("namespace-open", `namespace\s+`+from+`\s*\{`, "namespace "+ns.To+" {"),
		MustRule("namespace-close", `\}\s*//\s*namespace\s+`+from+`\b`, "} // namespace "+ns.To),
		MustRule("qualified-prefix", `::`+from+`::`, "::"+ns.To+"::"),
		MustRule("bare-prefix", `\b`+from+`::`, ns.To+"::"),
		MustRule("guard-ifndef", `#ifndef\s+`+upperFrom+`_`, "#ifndef "+upperTo+"_"),
		MustRule("guard-define", `#define\s+`+upperFrom+`_`, "#define "+upperTo+"_"),
	}
	for _, macro := range ns.Macros {
		macro = strings.ToUpper(macro)
		rules = append(rules, MustRule(
			"macro-"+strings.ToLower(macro),
			`\b`+upperFrom+`_`+regexp.QuoteMeta(macro)+`\b`,
			upperTo+"_"+macro,
		))
	}
	for _, sym := range ns.Symbols {
		rules = append(rules, MustRule("symbol-"+sym.From, regexp.QuoteMeta(sym.From), literal(sym.To)))
	}
	return rules, nil
}

// Default returns the osp -> ewss table.
func Default() Rules {
	rules, err := ForNamespace(DefaultNamespace())
	if err != nil {
		panic(err)
	}
	return rules
}

// literal escapes $ so the replacement is not expanded.
func literal(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
