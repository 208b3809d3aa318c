// Package telemetry keeps track of impression-pipeline metrics.
package telemetry

import "sync/atomic"

// Impression data types
const (
	// ImpressionsDropped impressions rejected by a full queue
	ImpressionsDropped = iota
	// ImpressionsDeduped impressions suppressed as duplicates
	ImpressionsDeduped
	// ImpressionsQueued impressions accepted into the queue
	ImpressionsQueued
)

// RuntimeProducer records impression-pipeline stats
type RuntimeProducer interface {
	RecordImpressionsStats(dataType int, count int64)
}

// RuntimeConsumer reads impression-pipeline stats
type RuntimeConsumer interface {
	GetImpressionsStats(dataType int) int64
}

// Runtime producer + consumer
type Runtime interface {
	RuntimeProducer
	RuntimeConsumer
}

// RuntimeFacade in-memory implementation of Runtime
type RuntimeFacade struct {
	impressionsQueued  int64
	impressionsDropped int64
	impressionsDeduped int64
}

// NewRuntimeFacade builds a zeroed runtime telemetry facade
func NewRuntimeFacade() *RuntimeFacade {
	return &RuntimeFacade{}
}

// RecordImpressionsStats adds count to the given data type
func (r *RuntimeFacade) RecordImpressionsStats(dataType int, count int64) {
	switch dataType {
	case ImpressionsDropped:
		atomic.AddInt64(&r.impressionsDropped, count)
	case ImpressionsDeduped:
		atomic.AddInt64(&r.impressionsDeduped, count)
	case ImpressionsQueued:
		atomic.AddInt64(&r.impressionsQueued, count)
	}
}

// GetImpressionsStats returns the accumulated value for the given data type
func (r *RuntimeFacade) GetImpressionsStats(dataType int) int64 {
	switch dataType {
	case ImpressionsDropped:
		return atomic.LoadInt64(&r.impressionsDropped)
	case ImpressionsDeduped:
		return atomic.LoadInt64(&r.impressionsDeduped)
	case ImpressionsQueued:
		return atomic.LoadInt64(&r.impressionsQueued)
	}
	return 0
}
