// Package domainset answers ancestor-inclusive domain membership: a host
// matches a set entry when it equals the entry or is a subdomain of it.
// The repository composes a decision cache, a Bloom pre-filter, and an
// authoritative store so that large threat feeds stay off the hot path.
package domainset

// Match is the outcome of testing one host against the set.
type Match struct {
	Matched bool
	Entry   string // the set entry that matched: the host itself or an ancestor
}

// Set is what the reputation engine consumes.
// Lookup returns a value-type Match for the canonicalized host.
// UpdateAll atomically replaces the whole set: store first, then a fresh
// Bloom filter, then a cache purge.
type Set interface {
	Lookup(host string) Match
	Contains(host string) bool
	UpdateAll(names []string, version uint64, updatedUnix int64) error
	Stats() RepoStats
}

// Store abstracts the authoritative index of canonical entries.
type Store interface {
	Exists(name string) (bool, error)
	RebuildAll(names []string, version uint64, updatedUnix int64) error
	Stats() StoreStats
	Close() error
}

// StoreStats captures counts and snapshot metadata for a store.
type StoreStats struct {
	Entries     uint64
	Version     uint64
	UpdatedUnix int64 // seconds since epoch
}

// DecisionCache caches membership decisions by canonical host.
type DecisionCache interface {
	Get(host string) (Match, bool)
	Put(host string, m Match)
	Len() int
	Purge()
	Stats() (hits, misses, evictions uint64)
}

// BloomFilter is the minimal pre-filter interface the repository needs.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// BloomFactory builds a filter sized for capacity entries at the target
// false-positive rate.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// RepoStats exposes repository counters plus the underlying store stats.
type RepoStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Store     StoreStats
}
