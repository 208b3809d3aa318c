package tasks

import (
	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/splitio/go-impressions/storage/filter"
)

// NewCleanFilterTask creates a task that periodically clears the unique keys
// bloom filter, so long-lived processes start tracking keys afresh instead of
// saturating the filter
func NewCleanFilterTask(filterToClean filter.Filter, period int, logger logging.LoggerInterface) *asynctask.AsyncTask {
	clean := func(logger logging.LoggerInterface) error {
		logger.Debug("Cleaning unique keys filter")
		filterToClean.Clear()
		return nil
	}

	return asynctask.NewAsyncTask("CleanFilter", clean, period, nil, nil, logger)
}
