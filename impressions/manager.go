// Package impressions contains the pipeline manager: it receives impression
// batches from the evaluation path, routes them through the configured
// processing strategy, and flushes queued impressions and aggregated counts
// toward the backend on demand.
package impressions

import (
	"sync"

	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/splitio/go-impressions/dtos"
	"github.com/splitio/go-impressions/listener"
	"github.com/splitio/go-impressions/provisional"
	"github.com/splitio/go-impressions/provisional/strategy"
	"github.com/splitio/go-impressions/service"
	"github.com/splitio/go-impressions/storage"
	"github.com/splitio/go-impressions/storage/filter"
)

// Manager orchestrates the impressions pipeline. Track is safe to call from
// any number of evaluation goroutines and never blocks on I/O; the Flush
// methods perform the network calls and are meant to be driven by external
// periodic tasks (and manually at shutdown).
type Manager struct {
	impressionManager provisional.ImpressionManager
	impressionStorage storage.ImpressionStorage
	counter           *strategy.ImpressionsCounter
	uniqueKeysTracker *strategy.UniqueKeysTracker
	uniqueKeysFilter  filter.Filter
	recorder          service.ImpressionsRecorder
	listener          *listener.WrapperImpressionListener
	metadata          dtos.Metadata
	logger            logging.LoggerInterface
	flushMutex        sync.Mutex
	countsMutex       sync.Mutex
	uniquesMutex      sync.Mutex
}

// Track routes a batch through the processing strategy, queues the surviving
// impressions and hands the listener its copy. Queue overflow is accounted by
// the storage; it is never surfaced to the caller.
func (m *Manager) Track(impressions []dtos.Impression) {
	forLog, forListener := m.impressionManager.ProcessImpressions(impressions)

	if len(forLog) > 0 {
		if err := m.impressionStorage.LogImpressions(forLog); err != nil {
			m.logger.Warning("Impressions queue is full, dropping impressions: ", err.Error())
		}
	}

	if m.listener != nil && len(forListener) > 0 {
		go m.listener.SendDataToClient(forListener, nil)
	}
}

// FlushImpressions drains the queue, groups the result by feature preserving
// first-seen order, and posts it. An empty drain makes no network call. A
// failed post is logged and the data dropped; nothing is re-buffered.
func (m *Manager) FlushImpressions() error {
	m.flushMutex.Lock()
	defer m.flushMutex.Unlock()

	queued := m.impressionStorage.PopAll()
	if len(queued) == 0 {
		return nil
	}

	if err := m.recorder.Record(groupByFeature(queued), m.metadata); err != nil {
		m.logger.Error("Error posting impressions, data will be discarded: ", err.Error())
		return err
	}
	return nil
}

// FlushCounts drains the deduped-impression counter and posts it when non-empty
func (m *Manager) FlushCounts() error {
	m.countsMutex.Lock()
	defer m.countsMutex.Unlock()

	counts := m.counter.PopAll()
	if len(counts) == 0 {
		return nil
	}

	pf := dtos.ImpressionsCountDTO{PerFeature: make([]dtos.ImpressionCountPerFeature, 0, len(counts))}
	for key, count := range counts {
		pf.PerFeature = append(pf.PerFeature, dtos.ImpressionCountPerFeature{
			FeatureName: key.FeatureName,
			TimeFrame:   key.TimeFrame,
			RawCount:    count,
		})
	}

	if err := m.recorder.RecordImpressionsCount(pf, m.metadata); err != nil {
		m.logger.Error("Error posting impression counts, data will be discarded: ", err.Error())
		return err
	}
	return nil
}

// FlushUniqueKeys drains the unique keys tracker and posts it when non-empty.
// It is a no-op outside count-only mode.
func (m *Manager) FlushUniqueKeys() error {
	if m.uniqueKeysTracker == nil {
		return nil
	}

	m.uniquesMutex.Lock()
	defer m.uniquesMutex.Unlock()

	uniques := m.uniqueKeysTracker.PopAll()
	if len(uniques.Keys) == 0 {
		return nil
	}

	if err := m.recorder.RecordUniqueKeys(uniques, m.metadata); err != nil {
		m.logger.Error("Error posting unique keys, data will be discarded: ", err.Error())
		return err
	}
	return nil
}

// UniqueKeysFilter returns the filter backing the unique keys tracker, nil
// outside count-only mode. Exposed so the periodic cleaning task can reach it.
func (m *Manager) UniqueKeysFilter() filter.Filter {
	return m.uniqueKeysFilter
}

// groupByFeature builds the wire-ready bulk: group order is the first sighting
// of each feature, impression order within a group is queue order.
func groupByFeature(impressions []dtos.Impression) []dtos.ImpressionsDTO {
	grouped := make(map[string][]dtos.ImpressionRecord)
	order := make([]string, 0)

	for _, impression := range impressions {
		if _, seen := grouped[impression.FeatureName]; !seen {
			order = append(order, impression.FeatureName)
		}
		grouped[impression.FeatureName] = append(grouped[impression.FeatureName], dtos.ImpressionRecord{
			KeyName:      impression.KeyName,
			Treatment:    impression.Treatment,
			Time:         impression.Time,
			ChangeNumber: impression.ChangeNumber,
			Label:        impression.Label,
			BucketingKey: impression.BucketingKey,
			Pt:           impression.Pt,
		})
	}

	bulk := make([]dtos.ImpressionsDTO, 0, len(order))
	for _, feature := range order {
		bulk = append(bulk, dtos.ImpressionsDTO{TestName: feature, KeyImpressions: grouped[feature]})
	}
	return bulk
}
