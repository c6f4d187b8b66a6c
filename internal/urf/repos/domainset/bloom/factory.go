package bloom

import (
	"math"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/rr-urf/internal/urf/repos/domainset"
)

// factory implements domainset.BloomFactory using standard sizing
// formulas:
//
//	m = - (n * ln p) / (ln 2)^2
//	k = (m / n) * ln 2
//
// Results are clamped to at least 1.
type factory struct{}

// NewFactory returns a BloomFactory that sizes filters from capacity and
// target false-positive rate.
func NewFactory() domainset.BloomFactory { return factory{} }

// New constructs a BloomFilter sized for the given dataset capacity and
// target false-positive rate.
func (factory) New(capacity uint64, fpRate float64) domainset.BloomFilter {
	m, k := size(capacity, fpRate)
	return &filter{bf: bitsbloom.New(uint(m), uint(k))}
}

// size computes the bit count m and hash count k.
func size(n uint64, p float64) (uint64, uint8) {
	if n == 0 {
		n = 1
	}
	if !(p > 0 && p < 1) {
		p = 0.01 // default 1% if invalid
	}
	ln2 := math.Ln2
	m := uint64(math.Ceil(-float64(n) * math.Log(p) / (ln2 * ln2)))
	if m == 0 {
		m = 1
	}
	k := uint8(math.Max(1, math.Round((float64(m)/float64(n))*ln2)))
	return m, k
}
