package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRewritesNamespaceBlock(t *testing.T) {
	in := "namespace osp {\nclass Foo{};\n} // namespace osp"
	want := "namespace ewss {\nclass Foo{};\n} // namespace ewss"
	assert.Equal(t, want, Default().Apply(in))
}

func TestDefaultRewritesIncludeGuards(t *testing.T) {
	in := "#ifndef OSP_FOO_HPP\n#define OSP_FOO_HPP\n"
	want := "#ifndef EWSS_FOO_HPP\n#define EWSS_FOO_HPP\n"
	assert.Equal(t, want, Default().Apply(in))
}

func TestDefaultRewritesQualifiedAndBarePrefixesOnce(t *testing.T) {
	in := "auto a = ::osp::Bar{};\nauto b = osp::Baz{};\n"
	want := "auto a = ::ewss::Bar{};\nauto b = ewss::Baz{};\n"
	got := Default().Apply(in)
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "ewss::ewss")
}

func TestRulesMatchCaseInsensitively(t *testing.T) {
	in := "NAMESPACE OSP {\n}  //   Namespace Osp\nOsp::Thing\n#IFNDEF osp_X_H"
	want := "namespace ewss {\n} // namespace ewss\newss::Thing\n#ifndef EWSS_X_H"
	assert.Equal(t, want, Default().Apply(in))
}

func TestMacroRewritesAreWordBounded(t *testing.T) {
	in := "OSP_ASSERT(x); OSP_SCOPE_EXIT { }; OSP_CONCAT(a, b); XOSP_ASSERT(y); OSP_ASSERTION"
	want := "EWSS_ASSERT(x); EWSS_SCOPE_EXIT { }; EWSS_CONCAT(a, b); XOSP_ASSERT(y); OSP_ASSERTION"
	assert.Equal(t, want, Default().Apply(in))
}

func TestGuardSymbolLiteral(t *testing.T) {
	in := "static int osp_vocabulary_hpp_included = 1;"
	want := "static int ewss_vocabulary_hpp_included = 1;"
	assert.Equal(t, want, Default().Apply(in))
}

func TestIncludeGuardWithBarePrefixResolvedByOrder(t *testing.T) {
	in := "#ifndef OSP_NET_HPP\n#define OSP_NET_HPP\nusing osp::Net;\n#endif  // OSP_NET_HPP\n"
	want := "#ifndef EWSS_NET_HPP\n#define EWSS_NET_HPP\nusing ewss::Net;\n#endif  // OSP_NET_HPP\n"
	assert.Equal(t, want, Default().Apply(in))
}

func TestApplyLeavesTextWithoutPatternsUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"int main() { return 0; }\n",
		"namespace other {\n} // namespace other\n",
		"hospital::ward; posp::x; #ifndef OSPREY_H",
		"unicode: héllo wörld ✓",
	}
	rules := Default()
	for _, in := range inputs {
		assert.Equal(t, in, rules.Apply(in))
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	inputs := []string{
		"namespace osp {\nclass Foo{};\n} // namespace osp",
		"#ifndef OSP_FOO_HPP\n#define OSP_FOO_HPP\n",
		"::osp::Bar osp::Baz ::osp::osp::Qux",
		"OSP_ASSERT(osp::ok()); OSP_CONCAT(osp_vocabulary_hpp_, 1)",
		"namespace   Osp{ int x; }//namespace OSP",
		"#define OSP_SCOPE_EXIT(f) osp::ScopeExit(f)",
	}
	rules := Default()
	for _, in := range inputs {
		once := rules.Apply(in)
		twice := rules.Apply(once)
		assert.Equal(t, once, twice, "input %q", in)
		_, hits := rules.Explain(once)
		for _, hit := range hits {
			assert.Zero(t, hit.Matches, "rule %s still matches %q", hit.Rule, once)
		}
	}
}

func TestRulesRunInTableOrder(t *testing.T) {
	first := MustRule("a-to-b", "a", "b")
	second := MustRule("b-to-c", "b", "c")
	assert.Equal(t, "cc", Rules{first, second}.Apply("ab"))
	assert.Equal(t, "bc", Rules{second, first}.Apply("ab"))
}

func TestExplainCountsMatchesPerRule(t *testing.T) {
	out, hits := Default().Explain("namespace osp {\nosp::A a; osp::B b;\n} // namespace osp\n")
	assert.Equal(t, "namespace ewss {\newss::A a; ewss::B b;\n} // namespace ewss\n", out)
	counts := map[string]int{}
	for _, hit := range hits {
		counts[hit.Rule] = hit.Matches
	}
	assert.Equal(t, 1, counts["namespace-open"])
	assert.Equal(t, 1, counts["namespace-close"])
	assert.Equal(t, 2, counts["bare-prefix"])
	assert.Equal(t, 0, counts["qualified-prefix"])
}

func TestDefaultTableOrder(t *testing.T) {
	want := []string{
		"namespace-open",
		"namespace-close",
		"qualified-prefix",
		"bare-prefix",
		"guard-ifndef",
		"guard-define",
		"macro-assert",
		"macro-scope_exit",
		"macro-concat",
		"symbol-osp_vocabulary_hpp_",
	}
	assert.Equal(t, want, Default().Names())
}

func TestForNamespaceCustomRename(t *testing.T) {
	rules, err := ForNamespace(Namespace{From: "core", To: "engine", Macros: []string{"check"}})
	require.NoError(t, err)
	in := "namespace core {\nCORE_CHECK(core::ready());\n} // namespace core\n"
	want := "namespace engine {\nENGINE_CHECK(engine::ready());\n} // namespace engine\n"
	assert.Equal(t, want, rules.Apply(in))
}

func TestNamespaceValidate(t *testing.T) {
	tests := []struct {
		name    string
		ns      Namespace
		wantErr error
	}{
		{name: "default", ns: DefaultNamespace()},
		{name: "empty-from", ns: Namespace{To: "ewss"}, wantErr: ErrInvalidName},
		{name: "spaces", ns: Namespace{From: "o sp", To: "ewss"}, wantErr: ErrInvalidName},
		{name: "bad-macro", ns: Namespace{From: "osp", To: "ewss", Macros: []string{"A-B"}}, wantErr: ErrInvalidName},
		{name: "overlap", ns: Namespace{From: "osp", To: "OSP2"}, wantErr: ErrSelfOverlap},
		{name: "symbol-overlap", ns: Namespace{From: "osp", To: "ewss", Symbols: []Literal{{From: "g_", To: "g_g_"}}}, wantErr: ErrSelfOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRuleRejectsBadPattern(t *testing.T) {
	_, err := NewRule("broken", "(", "x")
	require.Error(t, err)
	_, err = NewRule(" ", "x", "y")
	require.Error(t, err)
}

func TestSymbolReplacementIsLiteral(t *testing.T) {
	rules, err := ForNamespace(Namespace{From: "osp", To: "ewss", Symbols: []Literal{{From: "GUARD", To: "$1_SENTRY"}}})
	require.NoError(t, err)
	assert.Equal(t, "$1_SENTRY", rules.Apply("guard"))
}
