package tui

import (
	"errors"

	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
)

// ErrNoRetrieverService is returned when the retriever service is not provided.
var ErrNoRetrieverService = errors.New("tui: retriever service is required")

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Retriever answers search queries.
	Retriever driving.RetrieverService

	// Settings supplies the retrieval defaults. Optional; without it
	// the engine defaults apply.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrNoRetrieverService
	}
	return nil
}
