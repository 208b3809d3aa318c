package strategy

import (
	"sync"

	"github.com/splitio/go-impressions/util"
)

// Key identifies a feature within an aggregation time frame
type Key struct {
	FeatureName string
	TimeFrame   int64
}

// ImpressionsCounter aggregates how many impressions were suppressed per
// feature and time frame between flushes.
type ImpressionsCounter struct {
	counts map[Key]int64
	mutex  sync.Mutex
}

// NewImpressionsCounter builds an empty counter
func NewImpressionsCounter() *ImpressionsCounter {
	return &ImpressionsCounter{counts: make(map[Key]int64)}
}

// Inc adds amount to the bucket owning the supplied timestamp
func (i *ImpressionsCounter) Inc(featureName string, timestampMs int64, amount int64) {
	key := Key{FeatureName: featureName, TimeFrame: util.TruncateTimeFrame(timestampMs)}
	i.mutex.Lock()
	i.counts[key] += amount
	i.mutex.Unlock()
}

// PopAll atomically snapshots the accumulated counts and resets the counter.
// No increment is lost or double counted across the swap.
func (i *ImpressionsCounter) PopAll() map[Key]int64 {
	i.mutex.Lock()
	popped := i.counts
	i.counts = make(map[Key]int64)
	i.mutex.Unlock()
	return popped
}

// Size returns the number of non-empty buckets
func (i *ImpressionsCounter) Size() int {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return len(i.counts)
}
