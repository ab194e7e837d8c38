package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/views/companies"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/views/result"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	menuView      *menu.View
	searchView    *search.View
	resultView    *result.View
	companiesView *companies.View

	// settingsView is nil when no settings service was provided.
	settingsView *settings.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	items := menu.DefaultItems()
	topK := 0
	var settingsView *settings.View
	if ports.Settings != nil {
		settingsView = settings.NewView(s, ports.Settings)
		if current, err := ports.Settings.Get(); err == nil {
			topK = current.Search.TopK
		}
	} else {
		items = withoutView(items, messages.ViewSettings)
	}

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		help:          help.New(),
		menuView:      menu.NewView(s, items...),
		searchView:    search.NewView(s, km, ports.Index, topK),
		resultView:    result.NewView(s),
		companiesView: companies.NewView(s, ports.Index),
		settingsView:  settingsView,
		currentView:   messages.ViewMenu,
	}, nil
}

func withoutView(items []menu.Item, view messages.ViewType) []menu.Item {
	kept := items[:0:0]
	for _, item := range items {
		if item.Quit || item.View != view {
			kept = append(kept, item)
		}
	}
	return kept
}

// WithContext sets the context used for searches.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("filingvec")
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateActive(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ResultSelected:
		a.resultView.SetResult(msg.Query, msg.Result)
		a.currentView = messages.ViewResult
		return a, nil

	case messages.CompanySelected:
		a.searchView.Reset()
		a.searchView.SetCompany(msg.Company)
		a.currentView = messages.ViewSearch
		return a, a.searchView.Init()

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.StatsLoaded:
		a.companiesView, cmd = a.companiesView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingSaved:
		if a.settingsView != nil {
			a.settingsView, cmd = a.settingsView.Update(msg)
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a.updateActive(msg)
}

// updateActive forwards msg to the active view.
func (a *App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	case messages.ViewResult:
		a.resultView, cmd = a.resultView.Update(msg)
	case messages.ViewCompanies:
		a.companiesView, cmd = a.companiesView.Update(msg)
	case messages.ViewSettings:
		if a.settingsView != nil {
			a.settingsView, cmd = a.settingsView.Update(msg)
		}
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}

	return a, cmd
}

// switchTo activates view and runs its initialisation.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	previous := a.currentView
	a.currentView = view

	switch view {
	case messages.ViewSearch:
		// Coming back from a result keeps the result list.
		if previous == messages.ViewResult {
			return nil
		}
		a.searchView.Reset()
		return a.searchView.Init()
	case messages.ViewCompanies:
		return a.companiesView.Init()
	case messages.ViewSettings:
		if a.settingsView == nil {
			a.currentView = previous
			return nil
		}
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp, messages.ViewResult:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewResult:
		return a.resultView.View()
	case messages.ViewCompanies:
		return a.companiesView.View()
	case messages.ViewSettings:
		if a.settingsView != nil {
			return a.settingsView.View()
		}
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
	}
	return a.menuView.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("Search ranks chunks by cosine similarity to the query."))
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("The company filter narrows results to one company."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu  [ctrl+c] quit"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.searchView.SelectedIndex()
}

// Company returns the active company filter.
func (a *App) Company() string {
	return a.searchView.Company()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width

	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.resultView.SetDimensions(width, height)
	a.companiesView.SetDimensions(width, height)
	if a.settingsView != nil {
		a.settingsView.SetDimensions(width, height)
	}
}
