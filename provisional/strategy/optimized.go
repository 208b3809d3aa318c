package strategy

import (
	"time"

	"github.com/splitio/go-impressions/dtos"
	"github.com/splitio/go-impressions/telemetry"
	"github.com/splitio/go-impressions/util"
)

// OptimizedImpl queues the first sighting of each fingerprint per dedup window
// and collapses in-window repeats into aggregated counts. Queued impressions
// carry no previous-time annotation; the listener copy does.
type OptimizedImpl struct {
	impressionObserver *ImpressionObserver
	impressionsCounter *ImpressionsCounter
	runtimeTelemetry   telemetry.RuntimeProducer
	dedupWindow        time.Duration
	listenerEnabled    bool
}

// NewOptimizedImpl builds an optimized-mode strategy. A non-positive window
// falls back to the default time frame.
func NewOptimizedImpl(
	impressionObserver *ImpressionObserver,
	impressionsCounter *ImpressionsCounter,
	runtimeTelemetry telemetry.RuntimeProducer,
	dedupWindow time.Duration,
	listenerEnabled bool,
) *OptimizedImpl {
	if dedupWindow <= 0 {
		dedupWindow = util.DefaultTimeFrame
	}
	return &OptimizedImpl{
		impressionObserver: impressionObserver,
		impressionsCounter: impressionsCounter,
		runtimeTelemetry:   runtimeTelemetry,
		dedupWindow:        dedupWindow,
		listenerEnabled:    listenerEnabled,
	}
}

// Apply implements ProcessStrategyInterface
func (s *OptimizedImpl) Apply(impressions []dtos.Impression) ([]dtos.Impression, []dtos.Impression) {
	forLog := make([]dtos.Impression, 0, len(impressions))
	forListener := make([]dtos.Impression, 0, len(impressions))
	windowStart := util.TruncateTimeFrameWindow(time.Now().UTC().UnixMilli(), s.dedupWindow)

	for _, impression := range impressions {
		impression.Pt, _ = s.impressionObserver.TestAndSet(impression.FeatureName, &impression)
		if impression.Pt != 0 && impression.Pt >= windowStart {
			// Repeat within the current window. Count it instead of queueing.
			s.impressionsCounter.Inc(impression.FeatureName, impression.Time, 1)
			s.runtimeTelemetry.RecordImpressionsStats(telemetry.ImpressionsDeduped, 1)
		} else {
			toQueue := impression
			toQueue.Pt = 0
			forLog = append(forLog, toQueue)
		}
		forListener = append(forListener, impression)
	}

	if s.listenerEnabled {
		return forLog, forListener
	}
	return forLog, nil
}
