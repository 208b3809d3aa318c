package strategy

import "github.com/splitio/go-impressions/dtos"

// NoneImpl never queues an impression. Every impression is counted and its key
// tracked per feature; the observer is still consulted so the listener receives
// the same annotated batch debug mode would produce.
type NoneImpl struct {
	impressionObserver *ImpressionObserver
	impressionsCounter *ImpressionsCounter
	uniqueKeysTracker  *UniqueKeysTracker
	listenerEnabled    bool
}

// NewNoneImpl builds a count-only strategy
func NewNoneImpl(
	impressionObserver *ImpressionObserver,
	impressionsCounter *ImpressionsCounter,
	uniqueKeysTracker *UniqueKeysTracker,
	listenerEnabled bool,
) *NoneImpl {
	return &NoneImpl{
		impressionObserver: impressionObserver,
		impressionsCounter: impressionsCounter,
		uniqueKeysTracker:  uniqueKeysTracker,
		listenerEnabled:    listenerEnabled,
	}
}

// Apply implements ProcessStrategyInterface
func (s *NoneImpl) Apply(impressions []dtos.Impression) ([]dtos.Impression, []dtos.Impression) {
	forListener := make([]dtos.Impression, 0, len(impressions))

	for _, impression := range impressions {
		impression.Pt, _ = s.impressionObserver.TestAndSet(impression.FeatureName, &impression)
		s.impressionsCounter.Inc(impression.FeatureName, impression.Time, 1)
		s.uniqueKeysTracker.Track(impression.FeatureName, impression.KeyName)
		forListener = append(forListener, impression)
	}

	if s.listenerEnabled {
		return nil, forListener
	}
	return nil, nil
}
