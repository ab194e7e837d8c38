// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// ResultSelected is sent when a search result is opened.
type ResultSelected struct {
	Query  string
	Result domain.SearchResult
}

// CompanySelected starts a search narrowed to one company.
type CompanySelected struct {
	Company string
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewCompanies lists indexed companies and store statistics.
	ViewCompanies
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewResult shows one search result in full.
	ViewResult
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewCompanies:
		return "companies"
	case ViewHelp:
		return "help"
	case ViewResult:
		return "result"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// StatsLoaded carries store statistics.
type StatsLoaded struct {
	Stats domain.Stats
	Err   error
}

// SettingsLoaded carries the displayed value of every setting.
type SettingsLoaded struct {
	Keys   []string
	Values map[string]string

	// Warning is the validation failure of the loaded settings, if any.
	Warning error
	Err     error
}

// SettingSaved signals a single setting was written.
type SettingSaved struct {
	Key string
	Err error
}
