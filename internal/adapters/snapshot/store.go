// Package snapshot persists last-known-good source entries in a bbolt database.
package snapshot

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	bucketSnapshots = "snapshots"
	openTimeout     = time.Second
)

var _ ports.SnapshotStore = (*Store)(nil)

// Store implements ports.SnapshotStore. Databases are opened on first use and kept open.
type Store struct {
	mu  sync.Mutex
	dbs map[string]*bbolt.DB
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{dbs: make(map[string]*bbolt.DB)}
}

// Get returns the snapshot saved for source, or nil if there is none.
// A database that does not exist yet is not created.
func (s *Store) Get(path, source string) (*domain.Snapshot, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	db, err := s.open(path)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(source)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSnapshotReadFailed.Error()), "source", source)
	}
	if data == nil {
		return nil, nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSnapshotReadFailed.Error()), "source", source)
	}
	return &snap, nil
}

// Put replaces the snapshot of snap.Source.
func (s *Store) Put(path string, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error())
	}

	db, err := s.open(path)
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		if err != nil {
			return err
		}
		return b.Put([]byte(snap.Source), data)
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error()), "source", snap.Source)
	}
	return nil
}

// Close closes every open database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs error
	for path, db := range s.dbs {
		errs = errors.Join(errs, db.Close())
		delete(s.dbs, path)
	}
	return errs
}

func (s *Store) open(path string) (*bbolt.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[path]; ok {
		return db, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSnapshotOpenFailed.Error()), "path", path)
	}
	db, err := bbolt.Open(path, domain.PrivateFilePerm, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSnapshotOpenFailed.Error()), "path", path)
	}

	s.dbs[path] = db
	return db, nil
}
