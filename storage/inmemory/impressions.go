// Package inmemory contains the bounded in-process impressions queue.
package inmemory

import (
	"container/list"
	"errors"
	"sync"

	"github.com/splitio/go-impressions/dtos"
	"github.com/splitio/go-impressions/telemetry"
)

// ErrMaxSizeReached returned when at least one impression was dropped because
// the queue was full. Dropping is an accounted outcome, not a failure.
var ErrMaxSizeReached = errors.New("maximum queue size has been reached")

// ErrInvalidQueueSize returned when the requested capacity is not positive
var ErrInvalidQueueSize = errors.New("queue size must be a positive number")

// ErrNilTelemetry returned when no runtime telemetry producer is supplied
var ErrNilTelemetry = errors.New("runtime telemetry producer cannot be nil")

// MQImpressionsStorage in-memory impressions queue. Capacity is fixed at
// construction; when full, incoming impressions are dropped (never existing
// ones) and counted as such. All operations are safe for concurrent use and
// none of them blocks.
type MQImpressionsStorage struct {
	queue            *list.List
	size             int
	mutexQueue       *sync.Mutex
	fullChan         chan<- bool
	runtimeTelemetry telemetry.RuntimeProducer
}

// NewMQImpressionsStorage returns a queue of the given capacity. isFull may be
// nil; when supplied, a non-blocking signal is emitted every time the queue
// reaches capacity so the embedding application can trigger an eager flush.
func NewMQImpressionsStorage(queueSize int, isFull chan<- bool, runtimeTelemetry telemetry.RuntimeProducer) (*MQImpressionsStorage, error) {
	if queueSize <= 0 {
		return nil, ErrInvalidQueueSize
	}
	if runtimeTelemetry == nil {
		return nil, ErrNilTelemetry
	}
	return &MQImpressionsStorage{
		queue:            list.New(),
		size:             queueSize,
		mutexQueue:       &sync.Mutex{},
		fullChan:         isFull,
		runtimeTelemetry: runtimeTelemetry,
	}, nil
}

func (s *MQImpressionsStorage) sendSignalIsFull() {
	// Non-blocking select, and a nil channel never hits the send case
	select {
	case s.fullChan <- true:
	default:
	}
}

// LogImpressions appends as many impressions as capacity allows, recording
// QUEUED for each accepted one and DROPPED for the rest. Relative order of the
// accepted impressions is the order of the input.
func (s *MQImpressionsStorage) LogImpressions(impressions []dtos.Impression) error {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	var dropped int64
	for _, impression := range impressions {
		if s.queue.Len() >= s.size {
			dropped++
			continue
		}
		s.queue.PushBack(impression)
		s.runtimeTelemetry.RecordImpressionsStats(telemetry.ImpressionsQueued, 1)
		if s.queue.Len() == s.size {
			s.sendSignalIsFull()
		}
	}

	if dropped > 0 {
		s.runtimeTelemetry.RecordImpressionsStats(telemetry.ImpressionsDropped, dropped)
		return ErrMaxSizeReached
	}
	return nil
}

// PopN removes and returns up to n impressions from the front of the queue
func (s *MQImpressionsStorage) PopN(n int64) ([]dtos.Impression, error) {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	totalItems := int(n)
	if s.queue.Len() < totalItems {
		totalItems = s.queue.Len()
	}

	toReturn := make([]dtos.Impression, 0, totalItems)
	for i := 0; i < totalItems; i++ {
		toReturn = append(toReturn, s.queue.Remove(s.queue.Front()).(dtos.Impression))
	}
	return toReturn, nil
}

// PopAll drains the whole queue in one step. A concurrent push either lands in
// the returned slice or in the now-empty queue, never in both, never in neither.
func (s *MQImpressionsStorage) PopAll() []dtos.Impression {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	toReturn := make([]dtos.Impression, 0, s.queue.Len())
	for s.queue.Len() > 0 {
		toReturn = append(toReturn, s.queue.Remove(s.queue.Front()).(dtos.Impression))
	}
	return toReturn
}

// Empty returns whether the queue has no impressions
func (s *MQImpressionsStorage) Empty() bool {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()
	return s.queue.Len() == 0
}

// Count returns the number of queued impressions
func (s *MQImpressionsStorage) Count() int64 {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()
	return int64(s.queue.Len())
}
