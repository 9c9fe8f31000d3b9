package domain

import (
	"path/filepath"
	"time"
)

const (
	// ThesaurusDirName is the name of the internal state directory.
	ThesaurusDirName = ".thesaurus"

	// SnapshotFileName is the name of the snapshot database inside ThesaurusDirName.
	SnapshotFileName = "snapshots.db"

	// DefaultConfigFileName is the configuration file read when --config is not given.
	DefaultConfigFileName = "thesaurus.yaml"

	// DefaultHealthAddr is the listen address of the diagnostics server.
	DefaultHealthAddr = "127.0.0.1:9464"

	// DefaultEntriesColumn is the entries column read when the query returns several columns.
	DefaultEntriesColumn = "words"

	// DefaultInterval is the time between two reload cycles.
	DefaultInterval = 60 * time.Second

	// DefaultFetchTimeout bounds the checking and fetching phases.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultBuildTimeout bounds the building phase.
	DefaultBuildTimeout = 30 * time.Second

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultSnapshotPath returns the default path of the snapshot database.
// It joins .thesaurus and snapshots.db.
func DefaultSnapshotPath() string {
	return filepath.Join(ThesaurusDirName, SnapshotFileName)
}
