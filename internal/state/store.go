// Package state holds the latest snapshot pushed by the server.
package state

import "github.com/OCAP2/radar/pkg/core"

// Store keeps the most recent snapshot. Snapshots are replaced wholesale,
// never merged. It is owned by the UI goroutine and takes no locks.
type Store struct {
	snap    core.Snapshot
	version uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new snapshot.
func (s *Store) Replace(snap core.Snapshot) {
	s.snap = snap
	s.version++
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() core.Snapshot {
	return s.snap
}

// Version increments on every Replace; zero means nothing was received yet.
func (s *Store) Version() uint64 {
	return s.version
}

// Reference returns the ship with the reference id in the current snapshot.
func (s *Store) Reference(refID string) (core.Ship, bool) {
	return s.snap.Ship(refID)
}
