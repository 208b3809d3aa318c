package inmemory

import (
	"strconv"
	"sync"
	"testing"

	"github.com/splitio/go-impressions/dtos"
	"github.com/splitio/go-impressions/telemetry"
)

func makeImpressions(count int) []dtos.Impression {
	impressions := make([]dtos.Impression, 0, count)
	for i := 0; i < count; i++ {
		impressions = append(impressions, dtos.Impression{
			KeyName:     "k" + strconv.Itoa(i),
			FeatureName: "feature" + strconv.Itoa(i),
			Treatment:   "on",
			Time:        int64(i + 1),
		})
	}
	return impressions
}

func TestMQImpressionsStorageConstruction(t *testing.T) {
	runtimeTelemetry := telemetry.NewRuntimeFacade()

	if _, err := NewMQImpressionsStorage(0, nil, runtimeTelemetry); err != ErrInvalidQueueSize {
		t.Error("Queue size 0 should be rejected")
	}
	if _, err := NewMQImpressionsStorage(-1, nil, runtimeTelemetry); err != ErrInvalidQueueSize {
		t.Error("Negative queue size should be rejected")
	}
	if _, err := NewMQImpressionsStorage(10, nil, nil); err != ErrNilTelemetry {
		t.Error("Nil telemetry should be rejected")
	}
	if _, err := NewMQImpressionsStorage(10, nil, runtimeTelemetry); err != nil {
		t.Error("Valid construction should succeed: ", err)
	}
}

func TestMQImpressionsStorageOrder(t *testing.T) {
	runtimeTelemetry := telemetry.NewRuntimeFacade()
	queue, _ := NewMQImpressionsStorage(20, nil, runtimeTelemetry)

	if queue.Count() != 0 || !queue.Empty() {
		t.Error("New queue should be empty")
	}

	impressions := makeImpressions(10)
	queue.LogImpressions(impressions[:5])
	if queue.Count() != 5 || queue.Empty() {
		t.Error("Queue count error")
	}
	queue.LogImpressions(impressions[5:])

	popped, _ := queue.PopN(25)
	for i := 0; i < len(popped); i++ {
		if popped[i].KeyName != "k"+strconv.Itoa(i) {
			t.Error("KeyName order error at ", i)
		}
	}
	if !queue.Empty() {
		t.Error("Queue should be empty after PopN")
	}
}

func TestMQImpressionsStorageCapacityBound(t *testing.T) {
	runtimeTelemetry := telemetry.NewRuntimeFacade()
	isFull := make(chan bool, 1)
	queue, _ := NewMQImpressionsStorage(10, isFull, runtimeTelemetry)

	// 15 pushes into a queue of capacity 10: 10 accepted, 5 dropped
	err := queue.LogImpressions(makeImpressions(15))
	if err != ErrMaxSizeReached {
		t.Error("Overflow should be reported")
	}
	if queue.Count() != 10 {
		t.Error("Queue should hold exactly its capacity, got ", queue.Count())
	}
	if runtimeTelemetry.GetImpressionsStats(telemetry.ImpressionsQueued) != 10 {
		t.Error("Wrong queued telemetry")
	}
	if runtimeTelemetry.GetImpressionsStats(telemetry.ImpressionsDropped) != 5 {
		t.Error("Wrong dropped telemetry")
	}

	select {
	case <-isFull:
	default:
		t.Error("Full signal should have been emitted")
	}

	// Drop-newest: the queue still holds the first 10 in order
	popped := queue.PopAll()
	for i := 0; i < len(popped); i++ {
		if popped[i].KeyName != "k"+strconv.Itoa(i) {
			t.Error("Dropped the wrong end of the queue")
		}
	}
}

func TestMQImpressionsStoragePopAllLeavesQueueUsable(t *testing.T) {
	runtimeTelemetry := telemetry.NewRuntimeFacade()
	queue, _ := NewMQImpressionsStorage(10, nil, runtimeTelemetry)

	queue.LogImpressions(makeImpressions(10))
	if len(queue.PopAll()) != 10 {
		t.Error("PopAll should drain everything")
	}
	if len(queue.PopAll()) != 0 {
		t.Error("Second PopAll should be empty")
	}

	// Room was freed: new impressions are accepted again
	if err := queue.LogImpressions(makeImpressions(3)); err != nil {
		t.Error("Queue should accept impressions after drain: ", err)
	}
	if queue.Count() != 3 {
		t.Error("Queue count error after drain")
	}
}

func TestMQImpressionsStorageConcurrency(t *testing.T) {
	runtimeTelemetry := telemetry.NewRuntimeFacade()
	queue, _ := NewMQImpressionsStorage(100000, nil, runtimeTelemetry)

	var wg sync.WaitGroup
	drained := make(chan int, 20)

	for worker := 0; worker < 10; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				queue.LogImpressions(makeImpressions(5))
			}
		}()
	}
	for drainer := 0; drainer < 2; drainer++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			total := 0
			for i := 0; i < 100; i++ {
				total += len(queue.PopAll())
			}
			drained <- total
		}()
	}
	wg.Wait()
	close(drained)

	totalDrained := 0
	for count := range drained {
		totalDrained += count
	}
	remaining := int(queue.Count())

	// Every push landed either in a drain or in the queue, never lost
	if totalDrained+remaining != 10*100*5 {
		t.Error("Impressions were lost or duplicated: drained ", totalDrained, " remaining ", remaining)
	}
	if runtimeTelemetry.GetImpressionsStats(telemetry.ImpressionsQueued) != 10*100*5 {
		t.Error("Wrong queued telemetry under concurrency")
	}
}
