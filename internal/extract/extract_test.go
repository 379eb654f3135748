package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSkipsUnterminatedFence(t *testing.T) {
	doc := "Here is the header:\n" +
		"```cpp\n#pragma once\nclass A{};\n```\n" +
		"and the source:\n" +
		"```cpp\nvoid A::run() {}\n```\n" +
		"one more, cut off:\n" +
		"```cpp\nvoid A::stop() {\n"
	got := New("cpp").Extract(doc)
	want := []Fragment{
		{Ordinal: 1, Body: "#pragma once\nclass A{};"},
		{Ordinal: 2, Body: "void A::run() {}"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractWithoutBlocksReturnsEmpty(t *testing.T) {
	for _, doc := range []string{"", "plain prose\nwith lines\n", "```python\nprint(1)\n```\n"} {
		got := New("cpp").Extract(doc)
		require.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestExtractIgnoresOtherLanguages(t *testing.T) {
	doc := "```go\nfunc main() {}\n```\n```cpp\nint x;\n```\n```\nuntagged\n```\n"
	got := New("cpp").Extract(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "int x;", got[0].Body)
	assert.Equal(t, 1, got[0].Ordinal)
}

func TestExtractDoesNotNest(t *testing.T) {
	doc := "```cpp\nouter\n```cpp\ninner\n```\ntrailing\n```\n"
	got := New("cpp").Extract(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "outer\n```cpp\ninner", got[0].Body)
}

func TestExtractHandlesCRLFAndTrailingSpaces(t *testing.T) {
	doc := "intro\r\n```cpp  \r\nint a;\r\nint b;\r\n```\t\r\n"
	got := New("cpp").Extract(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "int a;\nint b;", got[0].Body)
}

func TestExtractKeepsEmptyAndBlankLineBlocks(t *testing.T) {
	doc := "```cpp\n```\n```cpp\n\n  indented\n\n```"
	got := New("cpp").Extract(doc)
	want := []Fragment{
		{Ordinal: 1, Body: ""},
		{Ordinal: 2, Body: "\n  indented\n"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractRequiresFenceAtLineStart(t *testing.T) {
	doc := "inline ```cpp\nnot a block\n```\n"
	assert.Empty(t, New("cpp").Extract(doc))
}

func TestExtractAcceptsListIndentedFences(t *testing.T) {
	doc := "1. Header:\n" +
		"   ```cpp\n   namespace osp {\n     int x;\n   }\n  ```\n" +
		"2. Inline ```cpp is prose\n" +
		"    ```cpp\n    indented code, not a fence\n    ```\n"
	got := New("cpp").Extract(doc)
	want := []Fragment{{Ordinal: 1, Body: "namespace osp {\n  int x;\n}"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestFragmentPreview(t *testing.T) {
	f := Fragment{Ordinal: 1, Body: "line one\nline two\nline three"}
	assert.Equal(t, "line one line two line three", f.Preview(0))
	assert.Equal(t, "line one l", f.Preview(10))
	assert.Equal(t, "héllo", Fragment{Body: "héllo wörld"}.Preview(5))
}
