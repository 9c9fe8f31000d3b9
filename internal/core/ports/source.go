package ports

import (
	"context"

	"go.trai.ch/thesaurus/internal/core/domain"
)

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// SourceClient reads synonym rules and change markers from an external store.
// Implementations own their connection and are safe for sequential use by one reloader.
type SourceClient interface {
	// FetchAll returns every raw entry. It never returns partial results.
	FetchAll(ctx context.Context) ([]domain.RawEntry, error)
	// FetchChangeMarker returns the current marker, or domain.UnknownMarker for no signal.
	FetchChangeMarker(ctx context.Context) (domain.ChangeMarker, error)
	// Close releases the connection.
	Close() error
}

// SourceFactory opens a SourceClient for a configured source.
type SourceFactory interface {
	Open(spec domain.SourceSpec) (SourceClient, error)
}
