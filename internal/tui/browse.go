// internal/tui/browse.go
//
// The browser is a read-only bubbletea view over one evaluation. It never
// re-checks the artifacts: what you see is the state at launch.
//
// Screens:
// 1. Task list: one row per task with its outcome
// 2. Fragments: the rewritten fragments of the selected task

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/graft/internal/integrate"
)

// screen represents which view is active
type screen int

const (
	screenTasks screen = iota
	screenFragments
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	blockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AAAAAA"))
)

// taskItem implements list.Item for one task result
type taskItem struct {
	result integrate.TaskResult
}

func (i taskItem) Title() string {
	return fmt.Sprintf("%s %s", marker(i.result.Outcome), i.result.Task().ID)
}

func (i taskItem) Description() string {
	label := i.result.Task().Label()
	switch {
	case i.result.Err != nil:
		return fmt.Sprintf("%s · %s: %v", label, i.result.Outcome, i.result.Err)
	case len(i.result.Fragments) > 0:
		return fmt.Sprintf("%s · %d fragment(s)", label, len(i.result.Fragments))
	default:
		return fmt.Sprintf("%s · %s", label, i.result.Outcome)
	}
}

func (i taskItem) FilterValue() string {
	return i.result.Task().ID + " " + i.result.Task().Label()
}

func marker(o integrate.Outcome) string {
	switch o {
	case integrate.OutcomeApplied, integrate.OutcomeExtracted:
		return "✓"
	case integrate.OutcomeNoFragments:
		return "⚠"
	case integrate.OutcomePending:
		return "⏳"
	default:
		return "✗"
	}
}

// Browser is the bubbletea model.
type Browser struct {
	screen   screen
	tasks    list.Model
	viewport viewport.Model
	summary  integrate.Summary
	current  integrate.TaskResult
}

// NewBrowser builds the browser for an evaluated summary.
func NewBrowser(summary integrate.Summary, title string) *Browser {
	items := make([]list.Item, 0, len(summary.Results))
	for _, res := range summary.Results {
		items = append(items, taskItem{result: res})
	}
	tasks := list.New(items, list.NewDefaultDelegate(), 0, 0)
	tasks.Title = title
	tasks.SetShowStatusBar(false)
	return &Browser{
		screen:   screenTasks,
		tasks:    tasks,
		viewport: viewport.New(0, 0),
		summary:  summary,
	}
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case tea.KeyMsg:
		if b.screen == screenFragments {
			switch msg.String() {
			case "esc", "backspace":
				b.screen = screenTasks
				return b, nil
			case "q", "ctrl+c":
				return b, tea.Quit
			}
			var cmd tea.Cmd
			b.viewport, cmd = b.viewport.Update(msg)
			return b, cmd
		}
		if b.tasks.FilterState() != list.Filtering {
			switch msg.String() {
			case "q", "ctrl+c":
				return b, tea.Quit
			case "enter":
				b.open()
				return b, nil
			}
		}
	}
	if b.screen == screenFragments {
		var cmd tea.Cmd
		b.viewport, cmd = b.viewport.Update(msg)
		return b, cmd
	}
	var cmd tea.Cmd
	b.tasks, cmd = b.tasks.Update(msg)
	return b, cmd
}

func (b *Browser) resize(width, height int) {
	b.tasks.SetSize(width, max(1, height-2))
	b.viewport.Width = width
	b.viewport.Height = max(1, height-4)
}

func (b *Browser) open() {
	item, ok := b.tasks.SelectedItem().(taskItem)
	if !ok {
		return
	}
	b.current = item.result
	b.viewport.SetContent(renderFragments(item.result))
	b.viewport.GotoTop()
	b.screen = screenFragments
}

// View implements tea.Model.
func (b *Browser) View() string {
	if b.screen == screenFragments {
		header := titleStyle.Render(fmt.Sprintf("[%s] %s", b.current.Task().ID, b.current.Task().Label()))
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			b.viewport.View(),
			hintStyle.Render("esc back · ↑/↓ scroll · q quit"),
		)
	}
	sum := b.summary.Artifacts
	footer := hintStyle.Render(fmt.Sprintf("%d/%d completed · enter view fragments · q quit", sum.Completed, sum.Total))
	return lipgloss.JoinVertical(lipgloss.Left, b.tasks.View(), footer)
}

func renderFragments(res integrate.TaskResult) string {
	if len(res.Fragments) == 0 {
		if res.Err != nil {
			return fmt.Sprintf("No fragments (%s): %v", res.Outcome, res.Err)
		}
		return fmt.Sprintf("No fragments (%s).", res.Outcome)
	}
	var sb strings.Builder
	for i, f := range res.Fragments {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(blockStyle.Render(fmt.Sprintf("── Block %d ──", f.Ordinal)))
		sb.WriteString("\n")
		sb.WriteString(f.Body)
		sb.WriteString("\n")
	}
	return sb.String()
}
