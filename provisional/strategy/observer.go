package strategy

import (
	"errors"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/splitio/go-impressions/dtos"
)

const observerShards = 32

// ErrInvalidObserverSize returned when the requested cache size is not positive
var ErrInvalidObserverSize = errors.New("observer size must be a positive number")

type observerShard struct {
	mutex sync.Mutex
	cache *simplelru.LRU[int64, int64]
}

// ImpressionObserver remembers the last time each impression fingerprint was
// seen. Entries are spread over sharded LRU caches so concurrent lookups on
// different fingerprints do not serialize on a single lock; within a shard the
// read-old/write-new pair is atomic. The total entry count never exceeds the
// size given at construction, evicting the least recently written first.
type ImpressionObserver struct {
	shards []observerShard
	hasher ImpressionHasher
}

// NewImpressionObserver builds an observer holding at most size entries
func NewImpressionObserver(size int) (*ImpressionObserver, error) {
	if size <= 0 {
		return nil, ErrInvalidObserverSize
	}

	shardCount := observerShards
	if size < shardCount {
		shardCount = size
	}

	observer := &ImpressionObserver{shards: make([]observerShard, shardCount)}
	for index := range observer.shards {
		cache, err := simplelru.NewLRU[int64, int64](size/shardCount, nil)
		if err != nil {
			return nil, err
		}
		observer.shards[index].cache = cache
	}
	return observer, nil
}

// TestAndSet stores the impression's time as the new last-seen value for its
// fingerprint and returns the previous one. Zero means the fingerprint was
// never seen, or its entry was already evicted.
func (o *ImpressionObserver) TestAndSet(featureName string, impression *dtos.Impression) (int64, error) {
	hash, err := o.hasher.Process(featureName, impression)
	if err != nil {
		return 0, err
	}

	shard := &o.shards[uint64(hash)%uint64(len(o.shards))]
	shard.mutex.Lock()
	defer shard.mutex.Unlock()
	previous, _ := shard.cache.Get(hash)
	shard.cache.Add(hash, impression.Time)
	return previous, nil
}

// Size returns the number of fingerprints currently remembered
func (o *ImpressionObserver) Size() int {
	total := 0
	for index := range o.shards {
		o.shards[index].mutex.Lock()
		total += o.shards[index].cache.Len()
		o.shards[index].mutex.Unlock()
	}
	return total
}
