package ports

import "go.trai.ch/thesaurus/internal/core/domain"

// SnapshotStore persists the last-known-good entries per source.
//
//go:generate mockgen -source=snapshot.go -destination=mocks/mock_snapshot.go -package=mocks
type SnapshotStore interface {
	// Get returns the snapshot of source, or nil if none was saved.
	Get(path, source string) (*domain.Snapshot, error)
	// Put replaces the snapshot of snap.Source.
	Put(path string, snap domain.Snapshot) error
	// Close releases every open database.
	Close() error
}
