package ports

import (
	"context"

	"go.trai.ch/thesaurus/internal/core/domain"
)

// DictionaryRegistry is the read and admin surface over all configured sources.
//
//go:generate mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type DictionaryRegistry interface {
	// Names lists the configured sources in configuration order.
	Names() []string
	// State returns a copy of the reload state of source.
	State(source string) (domain.ReloadState, error)
	// States returns a copy of every reload state.
	States() []domain.ReloadState
	// Lookup returns the synonyms of term in the current dictionary of source.
	Lookup(source, term string) ([]string, error)
	// Reload runs one cycle for source. force skips the change detector.
	Reload(ctx context.Context, source string, force bool) (domain.CycleOutcome, error)
}
