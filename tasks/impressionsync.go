// Package tasks wires the pipeline's flush operations to periodic async tasks.
// The manager does not own any timer; these tasks do.
package tasks

import (
	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/splitio/go-impressions/impressions"
)

// NewRecordImpressionsTask creates a task that periodically flushes queued
// impressions. A final flush runs on stop so shutdown does not strand data.
func NewRecordImpressionsTask(manager *impressions.Manager, period int, logger logging.LoggerInterface) *asynctask.AsyncTask {
	record := func(logger logging.LoggerInterface) error {
		return manager.FlushImpressions()
	}

	onStop := func(logger logging.LoggerInterface) {
		manager.FlushImpressions()
	}

	return asynctask.NewAsyncTask("SubmitImpressions", record, period, nil, onStop, logger)
}

// NewRecordImpressionsCountTask creates a task that periodically flushes
// deduped-impression counts, with a final flush on stop
func NewRecordImpressionsCountTask(manager *impressions.Manager, period int, logger logging.LoggerInterface) *asynctask.AsyncTask {
	record := func(logger logging.LoggerInterface) error {
		return manager.FlushCounts()
	}

	onStop := func(logger logging.LoggerInterface) {
		manager.FlushCounts()
	}

	return asynctask.NewAsyncTask("SubmitImpressionsCount", record, period, nil, onStop, logger)
}

// NewRecordUniqueKeysTask creates a task that periodically flushes the unique
// keys tracked in count-only mode, with a final flush on stop
func NewRecordUniqueKeysTask(manager *impressions.Manager, period int, logger logging.LoggerInterface) *asynctask.AsyncTask {
	record := func(logger logging.LoggerInterface) error {
		return manager.FlushUniqueKeys()
	}

	onStop := func(logger logging.LoggerInterface) {
		manager.FlushUniqueKeys()
	}

	return asynctask.NewAsyncTask("SubmitUniqueKeys", record, period, nil, onStop, logger)
}
