// Package tui provides an interactive terminal user interface for filingvec.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Index searches the store and reports statistics.
	Index driving.IndexService

	// Settings reads and updates configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Index == nil {
		return ErrMissingIndexService
	}
	return nil
}
