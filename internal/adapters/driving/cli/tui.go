package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

The TUI searches the indexed filings, narrows results to one company,
shows each chunk with the best matching sentence highlighted, and edits
the settings.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Search / Open
  Tab      - Cycle company filter
  n        - New search
  Esc      - Back
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the TUI from the bootstrapped services.
func newTUIApp(cmd *cobra.Command) (*tui.App, error) {
	index, err := requireIndex()
	if err != nil {
		return nil, err
	}

	ports := &tui.Ports{Index: index}
	if app.Settings != nil {
		ports.Settings = app.Settings
	}

	a, err := tui.NewApp(ports)
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return a.WithContext(cmd.Context()), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	a, err := newTUIApp(cmd)
	if err != nil {
		return err
	}

	if err := a.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
