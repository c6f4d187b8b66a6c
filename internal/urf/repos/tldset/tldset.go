// Package tldset holds the registered-TLD table used by the heuristic
// battery. The IANA registry dump is embedded at build time and parsed
// once per process; the resulting Set is immutable and safe to share
// across all goroutines.
package tldset

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/haukened/rr-urf/internal/urf/common/utils"
)

//go:embed data/tlds-alpha-by-domain.txt
var embedded embed.FS

var (
	defaultOnce sync.Once
	defaultSet  *Set
	defaultErr  error
)

// Set is an immutable collection of registered top-level domains.
type Set struct {
	members map[string]struct{}
}

// Default returns the process-wide Set parsed from the embedded IANA
// registry dump. Parsing happens once; subsequent calls are lookups.
func Default() (*Set, error) {
	defaultOnce.Do(func() {
		f, err := embedded.Open("data/tlds-alpha-by-domain.txt")
		if err != nil {
			defaultErr = fmt.Errorf("opening embedded TLD table: %w", err)
			return
		}
		defer f.Close()
		defaultSet, defaultErr = Parse(f)
	})
	return defaultSet, defaultErr
}

// Parse reads a registry dump in IANA's published format: one TLD per
// line, uppercase, with '#' comment lines. Returns an error when the
// input yields no entries, since an empty table would block every domain.
func Parse(r io.Reader) (*Set, error) {
	members := make(map[string]struct{}, 1500)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		members[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TLD table: %w", err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("TLD table is empty")
	}
	return &Set{members: members}, nil
}

// New builds a Set from explicit entries. Intended for tests that need a
// table smaller than the embedded registry.
func New(tlds ...string) *Set {
	members := make(map[string]struct{}, len(tlds))
	for _, t := range tlds {
		members[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &Set{members: members}
}

// Contains reports whether tld (lowercased) is a registered TLD.
func (s *Set) Contains(tld string) bool {
	_, ok := s.members[strings.ToLower(tld)]
	return ok
}

// Legal reports whether the final dot-separated label of domain is a
// registered TLD.
func (s *Set) Legal(domain string) bool {
	domain = utils.CanonicalHost(domain)
	tld := domain
	if i := strings.LastIndexByte(domain, '.'); i >= 0 {
		tld = domain[i+1:]
	}
	return s.Contains(tld)
}

// Len returns the number of registered TLDs in the set.
func (s *Set) Len() int { return len(s.members) }
