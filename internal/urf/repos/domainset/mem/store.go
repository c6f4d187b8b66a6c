// Package mem provides an in-memory domainset.Store for policies whose
// domain lists arrive inline in configuration and need no persistence.
package mem

import (
	"sync"

	"github.com/haukened/rr-urf/internal/urf/repos/domainset"
)

// store implements domainset.Store over a plain map guarded by a RWMutex.
type store struct {
	mu          sync.RWMutex
	entries     map[string]struct{}
	version     uint64
	updatedUnix int64
}

// New returns an empty in-memory Store.
func New() domainset.Store {
	return &store{entries: make(map[string]struct{})}
}

func (s *store) Exists(name string) (bool, error) {
	s.mu.RLock()
	_, ok := s.entries[name]
	s.mu.RUnlock()
	return ok, nil
}

func (s *store) RebuildAll(names []string, version uint64, updatedUnix int64) error {
	entries := make(map[string]struct{}, len(names))
	for _, name := range names {
		entries[name] = struct{}{}
	}
	s.mu.Lock()
	s.entries = entries
	s.version = version
	s.updatedUnix = updatedUnix
	s.mu.Unlock()
	return nil
}

func (s *store) Stats() domainset.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domainset.StoreStats{
		Entries:     uint64(len(s.entries)),
		Version:     s.version,
		UpdatedUnix: s.updatedUnix,
	}
}

func (s *store) Close() error { return nil }

var _ domainset.Store = (*store)(nil)
