package impressions

import (
	"errors"

	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/splitio/go-impressions/conf"
	"github.com/splitio/go-impressions/dtos"
	"github.com/splitio/go-impressions/listener"
	"github.com/splitio/go-impressions/provisional"
	"github.com/splitio/go-impressions/provisional/strategy"
	"github.com/splitio/go-impressions/service"
	"github.com/splitio/go-impressions/storage"
	"github.com/splitio/go-impressions/storage/filter"
	"github.com/splitio/go-impressions/storage/inmemory"
	"github.com/splitio/go-impressions/telemetry"
)

const (
	bfExpectedElements         = 10000000
	bfFalsePositiveProbability = 0.01
)

// ErrNilRecorder returned when no impressions recorder is supplied
var ErrNilRecorder = errors.New("impressions recorder cannot be nil")

// NewManager validates cfg and wires a manager over an in-memory queue.
// impressionListener may be nil. isFull may be nil; when supplied it receives a
// non-blocking signal whenever the queue fills up.
func NewManager(
	cfg conf.ManagerConfig,
	recorder service.ImpressionsRecorder,
	runtimeTelemetry telemetry.RuntimeProducer,
	metadata dtos.Metadata,
	impressionListener listener.ImpressionListener,
	isFull chan<- bool,
	logger logging.LoggerInterface,
) (*Manager, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if runtimeTelemetry == nil {
		return nil, inmemory.ErrNilTelemetry
	}

	impressionStorage, err := inmemory.NewMQImpressionsStorage(cfg.QueueSize, isFull, runtimeTelemetry)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStorage(cfg, impressionStorage, recorder, runtimeTelemetry, metadata, impressionListener, logger)
}

// NewManagerWithStorage is like NewManager but accepts a caller-provided
// impression storage, e.g. a redis-backed one for multi-process deployments.
func NewManagerWithStorage(
	cfg conf.ManagerConfig,
	impressionStorage storage.ImpressionStorage,
	recorder service.ImpressionsRecorder,
	runtimeTelemetry telemetry.RuntimeProducer,
	metadata dtos.Metadata,
	impressionListener listener.ImpressionListener,
	logger logging.LoggerInterface,
) (*Manager, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if recorder == nil {
		return nil, ErrNilRecorder
	}
	if runtimeTelemetry == nil {
		return nil, inmemory.ErrNilTelemetry
	}
	if logger == nil {
		logger = logging.NewLogger(nil)
	}

	observer, err := strategy.NewImpressionObserver(cfg.ObserverSize)
	if err != nil {
		return nil, err
	}
	counter := strategy.NewImpressionsCounter()
	listenerEnabled := impressionListener != nil

	manager := &Manager{
		impressionStorage: impressionStorage,
		counter:           counter,
		recorder:          recorder,
		metadata:          metadata,
		logger:            logger,
	}
	if listenerEnabled {
		manager.listener = listener.NewImpressionListenerWrapper(impressionListener, metadata)
	}

	var processStrategy strategy.ProcessStrategyInterface
	switch cfg.Mode {
	case conf.ImpressionsModeDebug:
		processStrategy = strategy.NewDebugImpl(observer, listenerEnabled)
	case conf.ImpressionsModeNone:
		bloomFilter := filter.NewBloomFilter(bfExpectedElements, bfFalsePositiveProbability)
		tracker := strategy.NewUniqueKeysTracker(bloomFilter)
		manager.uniqueKeysTracker = tracker
		manager.uniqueKeysFilter = bloomFilter
		processStrategy = strategy.NewNoneImpl(observer, counter, tracker, listenerEnabled)
	default:
		processStrategy = strategy.NewOptimizedImpl(observer, counter, runtimeTelemetry, cfg.DedupWindow, listenerEnabled)
	}

	manager.impressionManager = provisional.NewImpressionManager(processStrategy)
	return manager, nil
}
