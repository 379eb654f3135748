// Package extract pulls fenced source blocks out of free-form task output.

package extract

import (
	"strings"
	"unicode/utf8"
)

const fence = "```"

// Fragment is the payload of one fenced block. Ordinal is 1-based in
// document order.
type Fragment struct {
	Ordinal int
	Body    string
}

// Preview collapses newlines to spaces and truncates to at most n runes.
func (f Fragment) Preview(n int) string {
	flat := strings.ReplaceAll(f.Body, "\n", " ")
	if n <= 0 || utf8.RuneCountInString(flat) <= n {
		return flat
	}
	runes := []rune(flat)
	return string(runes[:n])
}

// Extractor recognizes blocks opened by "```<lang>" and closed by a bare
// "```" line. Either fence may be indented by up to three spaces, as inside
// a Markdown list item; the opening indent is removed from payload lines.
type Extractor struct {
	lang string
}

// maxFenceIndent is the deepest indent at which a line is still a fence.
const maxFenceIndent = 3

// New returns an extractor for the given fence tag (for example "cpp").
func New(lang string) Extractor {
	return Extractor{lang: strings.TrimSpace(lang)}
}

// Lang reports the fence tag this extractor accepts.
func (e Extractor) Lang() string {
	return e.lang
}

// Extract returns the payloads of every well-formed block in doc, in order.
// Blocks do not nest: an opening fence inside an open block is payload. A
// block still open at the end of the document is dropped. The result is
// empty, never nil, when nothing matches.
func (e Extractor) Extract(doc string) []Fragment {
	fragments := []Fragment{}
	opener := fence + e.lang
	lines := strings.Split(normalizeNewlines(doc), "\n")

	var (
		open   bool
		indent int
		body   []string
	)
	for _, line := range lines {
		n, trimmed := fenceLine(line)
		if !open {
			if n >= 0 && trimmed == opener {
				open = true
				indent = n
				body = body[:0]
			}
			continue
		}
		if n >= 0 && trimmed == fence {
			fragments = append(fragments, Fragment{
				Ordinal: len(fragments) + 1,
				Body:    strings.Join(body, "\n"),
			})
			open = false
			continue
		}
		body = append(body, dedent(line, indent))
	}
	return fragments
}

// fenceLine strips up to three leading spaces and trailing blanks. It
// returns -1 when the line is indented too deeply to be a fence.
func fenceLine(line string) (int, string) {
	n := len(line) - len(strings.TrimLeft(line, " "))
	if n > maxFenceIndent {
		return -1, ""
	}
	return n, strings.TrimRight(line[n:], " \t")
}

// dedent removes at most n leading spaces.
func dedent(line string, n int) string {
	for i := 0; i < n && strings.HasPrefix(line, " "); i++ {
		line = line[1:]
	}
	return line
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
