// Package filter wraps the probabilistic set used by the unique keys tracker.
package filter

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter interface consumed by trackers so they don't depend on the concrete
// bloom implementation
type Filter interface {
	Add(data string)
	Contains(data string) bool
	Clear()
}

// BloomFilter mutex-guarded bloom filter; the underlying structure is not safe
// for concurrent use
type BloomFilter struct {
	filter *bloom.BloomFilter
	mutex  sync.Mutex
}

// NewBloomFilter builds a filter sized for the expected number of elements and
// the tolerated false-positive probability
func NewBloomFilter(expectedElements uint, falsePositiveProbability float64) *BloomFilter {
	return &BloomFilter{
		filter: bloom.NewWithEstimates(expectedElements, falsePositiveProbability),
	}
}

// Add inserts data into the filter
func (b *BloomFilter) Add(data string) {
	b.mutex.Lock()
	b.filter.AddString(data)
	b.mutex.Unlock()
}

// Contains reports whether data was (probably) added before
func (b *BloomFilter) Contains(data string) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.filter.TestString(data)
}

// Clear empties the filter
func (b *BloomFilter) Clear() {
	b.mutex.Lock()
	b.filter.ClearAll()
	b.mutex.Unlock()
}
