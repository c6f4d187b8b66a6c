// Package lexical scores domain strings for algorithmic randomness.
// Domain generation algorithms (DGAs) emit names whose character
// distribution is far flatter than anything a human would register, which
// shows up directly in Shannon entropy.
package lexical

import "math"

// MinSampleLen is the shortest host worth scoring. Anything below this is
// too short for the distribution to mean anything, so it always passes.
const MinSampleLen = 8

// Entropy returns the Shannon entropy of s in bits, computed over the
// observed byte frequency distribution. Empty input yields 0.
func Entropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	var freq [256]int
	for i := 0; i < len(s); i++ {
		freq[s[i]]++
	}
	n := float64(len(s))
	var entropy float64
	for _, count := range freq {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// Random reports whether host looks algorithmically generated: at least
// MinSampleLen bytes long with entropy strictly above threshold.
func Random(host string, threshold float64) bool {
	if len(host) < MinSampleLen {
		return false
	}
	return Entropy(host) > threshold
}
