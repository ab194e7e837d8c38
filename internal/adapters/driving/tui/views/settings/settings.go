// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
)

// ErrNoSettingsService is returned when the view has no settings to edit.
var ErrNoSettingsService = errors.New("settings service not available")

const (
	keyProvider = "embedding.provider"
	keyAPIKey   = "embedding.api_key"
)

// Mode tracks what the view is currently doing.
type Mode int

const (
	// ModeList shows every setting.
	ModeList Mode = iota
	// ModeEdit edits the selected setting as text.
	ModeEdit
	// ModeProvider picks an embedding provider.
	ModeProvider
	// ModeProviderKey asks for the API key of the picked provider.
	ModeProviderKey
)

// View is the settings configuration view.
type View struct {
	styles   *styles.Styles
	settings driving.SettingsService

	keys    []string
	values  map[string]string
	warning error
	err     error
	notice  string

	mode      Mode
	selected  int
	providers []domain.EmbeddingProvider
	provider  int
	input     *input.TextInput

	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settings driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		settings:  settings,
		values:    map[string]string{},
		providers: domain.AllEmbeddingProviders(),
		input:     input.New(s, "Value: ", ""),
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settings
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		values, err := svc.Display()
		if err != nil {
			return messages.SettingsLoaded{Err: err}
		}
		return messages.SettingsLoaded{
			Keys:    svc.Keys(),
			Values:  values,
			Warning: svc.Validate(),
		}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.keys = msg.Keys
		v.values = msg.Values
		v.warning = msg.Warning
		if v.selected >= len(v.keys) {
			v.selected = max(len(v.keys)-1, 0)
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Saved %s", msg.Key)
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	if v.mode == ModeEdit || v.mode == ModeProviderKey {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case ModeEdit, ModeProviderKey:
		return v.handleInputKeys(msg)
	case ModeProvider:
		return v.handleProviderKeys(msg)
	default:
		return v.handleListKeys(msg)
	}
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case "enter":
		if v.selected < len(v.keys) {
			return v, v.startEdit(v.keys[v.selected])
		}
	case "r":
		return v, v.loadSettings()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// startEdit opens the editor suited to key.
func (v *View) startEdit(key string) tea.Cmd {
	v.notice = ""
	v.err = nil

	if key == keyProvider {
		v.mode = ModeProvider
		v.provider = 0
		for i, p := range v.providers {
			if string(p) == v.values[key] {
				v.provider = i
			}
		}
		return nil
	}

	v.mode = ModeEdit
	v.input.Reset()
	v.input.SetLabel(key + ": ")
	v.input.SetSecret(key == keyAPIKey)
	if key != keyAPIKey {
		v.input.SetValue(v.values[key])
	}
	v.input.SetWidth(v.width)
	return v.input.Focus()
}

func (v *View) handleProviderKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.provider > 0 {
			v.provider--
		}
	case "down", "j":
		if v.provider < len(v.providers)-1 {
			v.provider++
		}
	case "enter":
		provider := v.providers[v.provider]
		if provider.RequiresAPIKey() {
			v.mode = ModeProviderKey
			v.input.Reset()
			v.input.SetLabel(provider.Description() + " API key: ")
			v.input.SetSecret(true)
			v.input.SetWidth(v.width)
			return v, v.input.Focus()
		}
		v.mode = ModeList
		return v, v.setProvider(provider, "")
	case "esc":
		v.mode = ModeList
	}
	return v, nil
}

func (v *View) handleInputKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.input.Blur()
		if v.mode == ModeProviderKey {
			v.mode = ModeProvider
		} else {
			v.mode = ModeList
		}
		return v, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(v.input.Value())
		v.input.Blur()

		if v.mode == ModeProviderKey {
			v.mode = ModeList
			return v, v.setProvider(v.providers[v.provider], value)
		}
		v.mode = ModeList
		return v, v.set(v.keys[v.selected], value)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) set(key, value string) tea.Cmd {
	svc := v.settings
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// setProvider switches provider and resets the model to the provider default.
func (v *View) setProvider(provider domain.EmbeddingProvider, apiKey string) tea.Cmd {
	svc := v.settings
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingSaved{Key: keyProvider, Err: ErrNoSettingsService}
		}
		return messages.SettingSaved{Key: keyProvider, Err: svc.SetEmbeddingProvider(provider, "", apiKey)}
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	switch v.mode {
	case ModeProvider, ModeProviderKey:
		b.WriteString(v.renderProviders())
	default:
		b.WriteString(v.renderList())
	}

	if v.mode == ModeEdit || v.mode == ModeProviderKey {
		b.WriteString("\n")
		b.WriteString(v.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if v.warning != nil {
		b.WriteString(v.styles.Warning.Render("Warning: " + v.warning.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderList() string {
	if len(v.keys) == 0 {
		return v.styles.Muted.Render("No settings loaded")
	}

	width := 0
	for _, k := range v.keys {
		width = max(width, len(k))
	}

	var b strings.Builder
	for i, key := range v.keys {
		value := v.values[key]
		if value == "" {
			value = "(not set)"
		}
		line := fmt.Sprintf("%-*s  %s", width, key, value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderProviders() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Embedding provider"))
	b.WriteString("\n\n")
	for i, p := range v.providers {
		line := fmt.Sprintf("%-12s %s", p, p.Description())
		if p.RequiresAPIKey() {
			line += " (API key)"
		}
		if i == v.provider {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderHelp() string {
	switch v.mode {
	case ModeEdit, ModeProviderKey:
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	case ModeProvider:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] cancel")
	default:
		return v.styles.Help.Render("[enter] edit  [r] reload  [esc] back")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
}

// Reset returns to the settings list.
func (v *View) Reset() {
	v.mode = ModeList
	v.notice = ""
	v.input.Blur()
	v.input.Reset()
}

// Mode returns the current mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Keys returns the listed setting keys.
func (v *View) Keys() []string {
	return v.keys
}

// Value returns the displayed value of key.
func (v *View) Value(key string) string {
	return v.values[key]
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Warning returns the validation warning of the loaded settings.
func (v *View) Warning() error {
	return v.warning
}
