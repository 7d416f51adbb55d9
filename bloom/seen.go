// Package bloom provides probabilistic URL deduplication for bulk harvest
// runs using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenSet tracks URLs already harvested within a run. False positives are
// possible (a new URL reported as seen); false negatives are not, so a URL
// is never harvested twice in one run.
type SeenSet struct {
	f *bloom.BloomFilter
}

// NewSeenSet creates a SeenSet sized for n expected URLs with the given
// false positive rate.
func NewSeenSet(n uint, fpRate float64) *SeenSet {
	return &SeenSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen records url and reports whether it had been recorded before.
func (s *SeenSet) Seen(url string) bool {
	return s.f.TestAndAddString(url)
}

// Count returns the approximate number of recorded URLs.
func (s *SeenSet) Count() uint {
	return uint(s.f.ApproximatedSize())
}
