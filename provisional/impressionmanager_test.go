package provisional

import (
	"testing"

	"github.com/splitio/go-impressions/dtos"
	"github.com/splitio/go-impressions/provisional/strategy"
)

func TestImpressionManagerDispatch(t *testing.T) {
	observer, err := strategy.NewImpressionObserver(5000)
	if err != nil {
		t.Error("Observer should be built: ", err)
		return
	}
	manager := NewImpressionManager(strategy.NewDebugImpl(observer, true))

	batch := []dtos.Impression{
		{KeyName: "adil", FeatureName: "feature1", Treatment: "on", Time: 1},
		{KeyName: "adil", FeatureName: "feature1", Treatment: "on", Time: 2},
	}

	forLog, forListener := manager.ProcessImpressions(batch)
	if len(forLog) != 2 || len(forListener) != 2 {
		t.Error("Debug dispatch should forward everything")
	}
	if forLog[1].Pt != 1 {
		t.Error("Repeat should carry the previous time")
	}
}
