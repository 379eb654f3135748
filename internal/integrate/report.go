package integrate

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/graft/internal/artifact"
	"github.com/kingrea/graft/internal/extract"
	"github.com/kingrea/graft/internal/task"
)

const (
	ruleWidth    = 70
	previewRunes = 80
)

// printer renders the human-readable run report. The text is not a stable
// contract. Colors are dropped automatically when out is not a terminal.
type printer struct {
	out   io.Writer
	title lipgloss.Style
	box   lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	dim   lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out: out,
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 2),
		ok:   r.NewStyle().Foreground(lipgloss.Color("#5FD068")),
		warn: r.NewStyle().Foreground(lipgloss.Color("#F2C94C")),
		fail: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		dim:  r.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) banner(title string) {
	p.line("%s", p.box.Render(p.title.Render(title)))
	p.line("")
}

func (p *printer) statusList(statuses []artifact.Status) {
	p.line("Checking task completion status:")
	for _, st := range statuses {
		switch st.State {
		case artifact.StateCompleted:
			p.line("  %s %s: %s", p.ok.Render("✓"), st.Task.ID, st.Task.Label())
		case artifact.StateError:
			p.line("  %s %s: %s (error: %v)", p.fail.Render("✗"), st.Task.ID, st.Task.Label(), st.Err)
		default:
			p.line("  %s %s: %s %s", p.warn.Render("⏳"), st.Task.ID, st.Task.Label(), p.dim.Render("(pending)"))
		}
	}
}

func (p *printer) totals(sum artifact.Summary) {
	p.line("")
	if sum.Errored > 0 {
		p.line("Status: %d/%d tasks completed, %d pending, %d errored", sum.Completed, sum.Total, sum.Pending, sum.Errored)
		return
	}
	p.line("Status: %d/%d tasks completed, %d pending", sum.Completed, sum.Total, sum.Pending)
}

func (p *printer) waiting(statuses []artifact.Status) {
	p.line("")
	p.line("%s Waiting for tasks to complete...", p.warn.Render("⏳"))
	p.line("")
	p.line("Monitor progress:")
	for _, st := range statuses {
		p.line("  tail -f %s", st.Path)
	}
}

func (p *printer) section(title string) {
	rule := strings.Repeat("=", ruleWidth)
	p.line("")
	p.line("%s", rule)
	p.line("%s", p.title.Render(title))
	p.line("%s", rule)
}

func (p *printer) taskHeader(st artifact.Status) {
	p.line("")
	p.line("[%s] %s", st.Task.ID, st.Task.Label())
	p.line("  Reading: %s", st.Path)
}

func (p *printer) found(n int) {
	p.line("  Found %d code block(s)", n)
}

func (p *printer) taskResult(res TaskResult) {
	switch res.Outcome {
	case OutcomeReadError:
		p.line("  %s Error reading file: %v", p.fail.Render("✗"), res.Err)
	case OutcomeNoFragments:
		p.line("  %s No code blocks found in output", p.warn.Render("⚠"))
	case OutcomeApplyError:
		p.line("  %s Apply failed: %v", p.fail.Render("✗"), res.Err)
	}
}

func (p *printer) fragments(fragments []extract.Fragment) {
	for _, f := range fragments {
		p.line("    Block %d: %s...", f.Ordinal, p.dim.Render(f.Preview(previewRunes)))
	}
}

func (p *printer) nextSteps(steps []string) {
	if len(steps) == 0 {
		return
	}
	p.line("")
	p.line("Next steps:")
	for i, step := range steps {
		p.line("  %d. %s", i+1, step)
	}
}

// PreviewApplier prints a one-line preview per fragment and writes nothing
// to disk. It is the only Applier graft ships; merging fragments into the
// target tree needs conflict and overwrite rules that are not defined yet.
type PreviewApplier struct {
	printer *printer
}

// NewPreviewApplier returns a PreviewApplier writing to out.
func NewPreviewApplier(out io.Writer) *PreviewApplier {
	return &PreviewApplier{printer: newPrinter(out)}
}

// Apply implements Applier.
func (a *PreviewApplier) Apply(_ task.Descriptor, fragments []extract.Fragment) error {
	a.printer.fragments(fragments)
	return nil
}
