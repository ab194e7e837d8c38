// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
)

// companiesLoaded carries the companies the filter cycles through.
type companiesLoaded struct {
	companies []string
	err       error
}

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.TextInput
	list      *list.ResultList
	statusbar *status.Bar

	index driving.IndexService
	topK  int
	ctx   context.Context

	// companies and filter drive the company filter; filter -1 means none.
	companies []string
	filter    int

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a query, false = navigating results
}

// NewView creates a new search view returning topK results per query.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	index driving.IndexService,
	topK int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		index:      index,
		topK:       topK,
		ctx:        context.Background(),
		filter:     -1,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blink and loads the companies for the filter.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadCompanies())
}

func (v *View) loadCompanies() tea.Cmd {
	return func() tea.Msg {
		if v.index == nil {
			return companiesLoaded{err: ErrNoIndexService}
		}
		companies, err := v.index.Companies(v.ctx)
		return companiesLoaded{companies: companies, err: err}
	}
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case companiesLoaded:
		if msg.err != nil {
			v.statusbar.SetMessage("companies: " + msg.err.Error())
			return v, nil
		}
		current := v.Company()
		v.companies = msg.companies
		v.SetCompany(current)
		return v, nil

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only keys with a meaning in every mode
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case tea.KeyTab:
		v.cycleFilter()
		return v, nil
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := v.input.Value()
			if query == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateSearching)
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "enter":
		if result := v.list.SelectedResult(); result != nil {
			selected := messages.ResultSelected{Query: v.list.Query(), Result: *result}
			return v, func() tea.Msg { return selected }
		}
	case "up", "k":
		v.list.MoveUp()
	case "down", "j":
		v.list.MoveDown()
	case "n":
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

// cycleFilter advances the company filter; after the last company it turns off.
func (v *View) cycleFilter() {
	if len(v.companies) == 0 {
		v.filter = -1
	} else if v.filter >= len(v.companies)-1 {
		v.filter = -1
	} else {
		v.filter++
	}
	v.statusbar.SetFilter(v.Company())
}

func (v *View) performSearch(query string) tea.Cmd {
	filter, _ := domain.SingleFilter(v.Company(), "", "")
	opts := domain.SearchOptions{TopK: v.topK, Filter: filter}

	return func() tea.Msg {
		if v.index == nil {
			return messages.ErrorOccurred{Err: ErrNoIndexService}
		}
		results, err := v.index.Search(v.ctx, query, opts)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.list.SetResults(msg.Query, msg.Results)
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))

	if len(msg.Results) > 0 {
		v.focusInput = false
		v.input.Blur()
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("filingvec"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// SetCompany narrows searches to company, adding it to the filter cycle if unknown.
func (v *View) SetCompany(company string) {
	if company != "" && !slices.Contains(v.companies, company) {
		v.companies = append(v.companies, company)
	}
	v.setCompany(company)
}

func (v *View) setCompany(company string) {
	v.filter = -1
	for i, c := range v.companies {
		if c == company {
			v.filter = i
			break
		}
	}
	v.statusbar.SetFilter(v.Company())
}

// Company returns the company filter, or "" when searches are unfiltered.
func (v *View) Company() string {
	if v.filter < 0 || v.filter >= len(v.companies) {
		return ""
	}
	return v.companies[v.filter]
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to an empty query. The company filter is kept.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults("", nil)
	v.err = nil
	v.statusbar.Clear()
}
