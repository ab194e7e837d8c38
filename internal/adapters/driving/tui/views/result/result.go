// Package result provides the view that shows one search result in full.
package result

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/highlight"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// View shows a chunk's metadata and text with the best matching sentence highlighted.
type View struct {
	styles *styles.Styles

	result       *domain.SearchResult
	query        string
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new result view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// SetResult sets the result to display and the query it answered.
func (v *View) SetResult(query string, result domain.SearchResult) {
	v.query = query
	v.result = &result
	v.scrollOffset = 0
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles scrolling and navigation back to the results.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.scrollOffset > 0 {
				v.scrollOffset--
			}
		case "down", "j":
			if v.scrollOffset < v.maxScrollOffset() {
				v.scrollOffset++
			}
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewSearch}
			}
		}
	}
	return v, nil
}

// visibleLines is the number of body lines that fit under the header.
func (v *View) visibleLines() int {
	return max(v.height-10, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.body())-v.visibleLines(), 0)
}

// body renders the chunk text wrapped to the view width.
func (v *View) body() []string {
	if v.result == nil {
		return nil
	}

	text := strings.Join(strings.Fields(v.result.Text), " ")
	span := highlight.BestSentence(text, v.query)
	before, match, after := highlight.Split(text, span)

	var rendered string
	if span.Matches > 0 {
		rendered = v.styles.Normal.Render(before) + v.styles.Highlight.Render(match) + v.styles.Normal.Render(after)
	} else {
		rendered = v.styles.Normal.Render(text)
	}

	wrapped := lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(rendered)
	return strings.Split(wrapped, "\n")
}

func (v *View) field(label, value string) string {
	return v.styles.Subtitle.Render(fmt.Sprintf("%-12s", label+":")) + " " + v.styles.Normal.Render(value)
}

// View renders the result view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Result"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n\n")

	if v.result == nil {
		b.WriteString(v.styles.Muted.Render("No result selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	r := v.result
	for _, line := range []string{
		v.field("Company", r.Company),
		v.field("Period", r.Period),
		v.field("Source", fmt.Sprintf("%s, chunk %d", r.SourceFile, r.Position)),
		v.field("Similarity", fmt.Sprintf("%.4f", r.Similarity)),
		v.field("ID", r.ID),
	} {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	lines := v.body()
	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(lines))
	for _, line := range lines[v.scrollOffset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(lines) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]", v.scrollOffset+1, end, len(lines))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back to results")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// Result returns the displayed result, or nil.
func (v *View) Result() *domain.SearchResult {
	return v.result
}

// ScrollOffset returns the first visible body line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
