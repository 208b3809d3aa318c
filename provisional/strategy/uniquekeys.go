package strategy

import (
	"sync"

	"github.com/splitio/go-impressions/dtos"
	"github.com/splitio/go-impressions/storage/filter"
)

// UniqueKeysTracker tracks the distinct keys evaluated per feature. A bloom
// filter keeps the memory cost of repeated keys flat; the exact key is only
// retained the first time the filter misses.
type UniqueKeysTracker struct {
	filter filter.Filter
	keys   map[string]map[string]struct{}
	mutex  sync.Mutex
}

// NewUniqueKeysTracker builds a tracker on top of the given filter
func NewUniqueKeysTracker(f filter.Filter) *UniqueKeysTracker {
	return &UniqueKeysTracker{
		filter: f,
		keys:   make(map[string]map[string]struct{}),
	}
}

// Track records that key was evaluated for featureName. Returns false when the
// pair was already tracked.
func (t *UniqueKeysTracker) Track(featureName string, key string) bool {
	fKey := featureName + "::" + key
	if t.filter.Contains(fKey) {
		return false
	}
	t.filter.Add(fKey)

	t.mutex.Lock()
	defer t.mutex.Unlock()
	featureKeys, ok := t.keys[featureName]
	if !ok {
		featureKeys = make(map[string]struct{})
		t.keys[featureName] = featureKeys
	}
	featureKeys[key] = struct{}{}
	return true
}

// PopAll atomically snapshots the tracked keys and resets the tracker. The
// bloom filter is left untouched; it is cleared on its own cadence.
func (t *UniqueKeysTracker) PopAll() dtos.UniquesDTO {
	t.mutex.Lock()
	popped := t.keys
	t.keys = make(map[string]map[string]struct{})
	t.mutex.Unlock()

	uniques := dtos.UniquesDTO{Keys: make([]dtos.UniqueKeysDTO, 0, len(popped))}
	for feature, featureKeys := range popped {
		keys := make([]string, 0, len(featureKeys))
		for key := range featureKeys {
			keys = append(keys, key)
		}
		uniques.Keys = append(uniques.Keys, dtos.UniqueKeysDTO{Feature: feature, Keys: keys})
	}
	return uniques
}
