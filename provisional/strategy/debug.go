package strategy

import "github.com/splitio/go-impressions/dtos"

// DebugImpl forwards every impression, annotated with the previous time its
// fingerprint was seen. Nothing is ever suppressed in this mode.
type DebugImpl struct {
	impressionObserver *ImpressionObserver
	listenerEnabled    bool
}

// NewDebugImpl builds a debug-mode strategy
func NewDebugImpl(impressionObserver *ImpressionObserver, listenerEnabled bool) *DebugImpl {
	return &DebugImpl{
		impressionObserver: impressionObserver,
		listenerEnabled:    listenerEnabled,
	}
}

// Apply implements ProcessStrategyInterface
func (s *DebugImpl) Apply(impressions []dtos.Impression) ([]dtos.Impression, []dtos.Impression) {
	forLog := make([]dtos.Impression, 0, len(impressions))

	for _, impression := range impressions {
		impression.Pt, _ = s.impressionObserver.TestAndSet(impression.FeatureName, &impression)
		forLog = append(forLog, impression)
	}

	if s.listenerEnabled {
		return forLog, forLog
	}
	return forLog, nil
}
