package domainset

import (
	"sync"

	"github.com/haukened/rr-urf/internal/urf/common/utils"
)

// repository implements Set by composing a Store, a Bloom filter (via
// factory), and a DecisionCache. Reads follow a cache → bloom → store
// pipeline; UpdateAll swaps a whole snapshot atomically.
type repository struct {
	mu      sync.RWMutex
	store   Store
	cache   DecisionCache
	bloom   BloomFilter
	factory BloomFactory
	fpRate  float64
}

// NewRepository constructs a Set.
// fpRate is the target false-positive rate for Bloom rebuilds.
func NewRepository(store Store, cache DecisionCache, factory BloomFactory, fpRate float64) Set {
	return &repository{store: store, cache: cache, factory: factory, fpRate: fpRate}
}

// Lookup returns the Match for host, consulting the cache first.
// Policy: on internal store errors, prefer no-match (not blocked).
func (r *repository) Lookup(host string) Match {
	cn := utils.CanonicalHost(host)
	if cn == "" {
		return Match{}
	}
	if m, ok := r.checkCache(cn); ok {
		return m
	}
	m := r.checkStore(cn)
	r.updateCache(cn, m)
	return m
}

// Contains is a convenience wrapper over Lookup.
func (r *repository) Contains(host string) bool {
	return r.Lookup(host).Matched
}

// UpdateAll performs an atomic snapshot update across store, bloom, and cache.
func (r *repository) UpdateAll(names []string, version uint64, updatedUnix int64) error {
	canonical := canonicalize(names)

	// 1) Rebuild the authoritative store first.
	if err := r.store.RebuildAll(canonical, version, updatedUnix); err != nil {
		return err
	}

	// 2) Build a fresh Bloom filter sized for the dataset.
	bf := r.factory.New(uint64(len(canonical)), r.fpRate)
	for _, name := range canonical {
		bf.Add([]byte(name))
	}

	// 3) Swap bloom and purge the decision cache under lock.
	r.mu.Lock()
	r.bloom = bf
	r.cache.Purge()
	r.mu.Unlock()
	return nil
}

// Stats returns repository counters and the store snapshot metadata.
func (r *repository) Stats() RepoStats {
	hits, misses, evictions := r.cache.Stats()
	return RepoStats{
		Hits:      hits,
		Misses:    misses,
		Evictions: evictions,
		Store:     r.store.Stats(),
	}
}

// checkCache returns a cached match when present.
func (r *repository) checkCache(cn string) (Match, bool) {
	r.mu.RLock()
	m, ok := r.cache.Get(cn)
	r.mu.RUnlock()
	return m, ok
}

// checkStore walks cn and each of its parent domains, most-specific
// first. The Bloom filter screens each candidate; only maybe-positives
// reach the store. With no filter loaded every candidate is checked
// authoritatively.
func (r *repository) checkStore(cn string) Match {
	r.mu.RLock()
	bf := r.bloom
	r.mu.RUnlock()

	for _, candidate := range utils.Ancestors(cn) {
		if bf != nil && !bf.MightContain([]byte(candidate)) {
			continue
		}
		ok, err := r.store.Exists(candidate)
		if err == nil && ok {
			return Match{Matched: true, Entry: candidate}
		}
	}
	return Match{}
}

// updateCache writes the final match.
func (r *repository) updateCache(cn string, m Match) {
	r.mu.Lock()
	r.cache.Put(cn, m)
	r.mu.Unlock()
}

// canonicalize lowercases, trims, and de-duplicates names, dropping
// empties while preserving first-seen order.
func canonicalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		cn := utils.CanonicalHost(name)
		if cn == "" {
			continue
		}
		if _, ok := seen[cn]; ok {
			continue
		}
		seen[cn] = struct{}{}
		out = append(out, cn)
	}
	return out
}
