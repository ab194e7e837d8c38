// Package companies provides the view listing the indexed companies.
package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
)

// ErrNoIndexService is returned when the view has no index to read from.
var ErrNoIndexService = errors.New("index service not available")

// View lists the companies in the store along with store totals.
type View struct {
	styles *styles.Styles
	index  driving.IndexService

	stats    domain.Stats
	selected int
	width    int
	height   int
	err      error
	loading  bool
}

// NewView creates a new companies view.
func NewView(s *styles.Styles, index driving.IndexService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		index:  index,
	}
}

// Init loads the store statistics.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadStats()
}

func (v *View) loadStats() tea.Cmd {
	index := v.index
	return func() tea.Msg {
		if index == nil {
			return messages.StatsLoaded{Err: ErrNoIndexService}
		}
		stats, err := index.Stats(context.Background())
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// Update handles messages for the companies view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.StatsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.stats = msg.Stats
		if v.selected >= len(v.stats.Companies) {
			v.selected = max(len(v.stats.Companies)-1, 0)
		}

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.stats.Companies)-1 {
			v.selected++
		}
	case "enter":
		if v.selected < len(v.stats.Companies) {
			company := v.stats.Companies[v.selected]
			return v, func() tea.Msg {
				return messages.CompanySelected{Company: company}
			}
		}
	case "r":
		v.loading = true
		return v, v.loadStats()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// View renders the companies view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Companies"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.stats.Companies) == 0:
		b.WriteString(v.styles.Muted.Render("No companies indexed. Run 'filingvec ingest' to add filings."))
	default:
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%d chunks across %d companies (%d dimensions)",
			v.stats.TotalChunks, v.stats.CompanyCount, v.stats.Dimensions)))
		b.WriteString("\n\n")
		for i, company := range v.stats.Companies {
			b.WriteString(v.renderCompany(i, company))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] search company  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderCompany(index int, company string) string {
	maxLen := max(v.width-6, 10)
	if len(company) > maxLen {
		company = company[:maxLen-3] + "..."
	}
	if index == v.selected {
		return v.styles.Selected.Render("> " + company)
	}
	return v.styles.Normal.Render("  " + company)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Companies returns the listed companies.
func (v *View) Companies() []string {
	return v.stats.Companies
}

// Stats returns the last loaded statistics.
func (v *View) Stats() domain.Stats {
	return v.stats
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Loading reports whether statistics are being fetched.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
