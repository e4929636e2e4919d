/*
Package catalog
File: store.go
Description:
    Holds the current catalog snapshot behind a ready/not-ready gate.
    Readers never block: before the first load they are told the catalog is
    not ready and decide for themselves how to present that (loading state,
    503, empty result). Reloads swap the snapshot atomically.
*/

package catalog

import (
	"errors"
	"sync/atomic"
)

// ErrNotReady is returned by helpers that need a loaded catalog.
var ErrNotReady = errors.New("catalog not ready")

// Store is the shared holder for the active catalog snapshot.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns an empty, not-ready store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the active catalog and whether one has been loaded.
func (s *Store) Snapshot() (*Catalog, bool) {
	c := s.current.Load()
	return c, c != nil
}

// Current returns the active catalog, or ErrNotReady before the first load.
func (s *Store) Current() (*Catalog, error) {
	c := s.current.Load()
	if c == nil {
		return nil, ErrNotReady
	}
	return c, nil
}

// Ready reports whether a catalog has been loaded.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Set installs a catalog snapshot. A nil catalog puts the store back into the not-ready state.
func (s *Store) Set(c *Catalog) {
	s.current.Store(c)
}

// Load reads the catalog at path (embedded default when empty) and installs it.
// On failure the previous snapshot, if any, stays active.
func (s *Store) Load(path string) (*Catalog, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.current.Store(c)
	return c, nil
}
