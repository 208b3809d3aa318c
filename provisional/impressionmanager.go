// Package provisional glues the impression processing strategies behind a
// stable interface consumed by the pipeline manager.
package provisional

import (
	"github.com/splitio/go-impressions/dtos"
	"github.com/splitio/go-impressions/provisional/strategy"
)

// ImpressionManager routes impression batches through the strategy configured
// at construction time
type ImpressionManager interface {
	ProcessImpressions(impressions []dtos.Impression) ([]dtos.Impression, []dtos.Impression)
}

// ImpressionManagerImpl implements ImpressionManager
type ImpressionManagerImpl struct {
	processStrategy strategy.ProcessStrategyInterface
}

// NewImpressionManager builds a manager around the given strategy
func NewImpressionManager(processStrategy strategy.ProcessStrategyInterface) *ImpressionManagerImpl {
	return &ImpressionManagerImpl{processStrategy: processStrategy}
}

// ProcessImpressions returns the impressions to queue for posting and the ones
// for the impression listener
func (m *ImpressionManagerImpl) ProcessImpressions(impressions []dtos.Impression) ([]dtos.Impression, []dtos.Impression) {
	return m.processStrategy.Apply(impressions)
}
