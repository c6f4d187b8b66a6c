package domain

import "fmt"

// maxByteEntropy is the ceiling of Shannon entropy over byte frequencies.
const maxByteEntropy = 8.0

// Policy is the immutable reputation configuration the engine evaluates
// URLs against. Build it once and hand it to the engine; it is never
// mutated afterwards, which is what makes the engine safe to share across
// concurrent callers.
type Policy struct {
	// WhitelistDomains always allow a host, exactly or as an ancestor of it.
	WhitelistDomains []string `koanf:"whitelist_domains"`

	// AllowedPatterns are regular expressions that allow a URL outright.
	AllowedPatterns []string `koanf:"allowed_patterns"`

	// BlockedDomains block a host, same ancestor semantics as the whitelist.
	BlockedDomains []string `koanf:"blocked_domains"`

	// BlockedPatterns are regular expressions that block a URL.
	BlockedPatterns []string `koanf:"blocked_patterns"`

	// UseHeuristicCheck gates the entropy/TLD/unicode battery.
	UseHeuristicCheck bool `koanf:"use_heuristic_check"`

	// EntropyThreshold marks hosts scoring above it as suspicious.
	EntropyThreshold float64 `koanf:"entropy_threshold"`

	// BlockNonSecureHTTP blocks any URL whose scheme is not https.
	BlockNonSecureHTTP bool `koanf:"block_non_secure_http"`
}

// DefaultPolicy returns the stock policy: heuristics off, plain http
// blocked, entropy threshold tuned for typical DGA output.
func DefaultPolicy() Policy {
	return Policy{
		EntropyThreshold:   3.65,
		BlockNonSecureHTTP: true,
	}
}

// Validate checks the policy for structurally invalid values. Pattern
// compilability is deliberately not checked here; bad patterns are dropped
// at engine construction instead of failing it.
func (p Policy) Validate() error {
	if p.EntropyThreshold < 0 {
		return fmt.Errorf("entropy threshold must not be negative: %v", p.EntropyThreshold)
	}
	if p.EntropyThreshold > maxByteEntropy {
		return fmt.Errorf("entropy threshold exceeds maximum byte entropy (%v): %v", maxByteEntropy, p.EntropyThreshold)
	}
	return nil
}
