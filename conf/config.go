// Package conf contains the configuration surface consumed when building an
// impressions manager.
package conf

import (
	"fmt"
	"time"
)

// Impressions modes
const (
	// ImpressionsModeOptimized queues the first sighting of each impression per
	// dedup window and aggregates the rest into counts.
	ImpressionsModeOptimized = "optimized"
	// ImpressionsModeDebug queues every impression, annotated with the previous
	// time its fingerprint was seen.
	ImpressionsModeDebug = "debug"
	// ImpressionsModeNone queues nothing and only tracks counts and unique keys.
	ImpressionsModeNone = "none"
)

// Defaults
const (
	DefaultQueueSize            = 10000
	DefaultObserverSize         = 500000
	DefaultDedupWindow          = time.Hour
	DefaultImpressionSyncPeriod = 300  // seconds
	DefaultCountSyncPeriod      = 1800 // seconds
	DefaultUniqueKeysSyncPeriod = 900  // seconds
)

// ManagerConfig is the set of values consumed at construction time. The zero
// value is not usable; start from Default() and override.
type ManagerConfig struct {
	// Mode is one of the ImpressionsMode* constants.
	Mode string

	// QueueSize caps the in-memory admission queue. Pushes beyond it are dropped.
	QueueSize int

	// ObserverSize caps the dedup cache (last-seen times per fingerprint).
	ObserverSize int

	// DedupWindow is the span within which a repeated fingerprint counts as a
	// duplicate in optimized mode. Zero selects the default.
	DedupWindow time.Duration

	// ImpressionSyncPeriod / CountSyncPeriod / UniqueKeysSyncPeriod are the
	// cadences, in seconds, of the flush tasks that own the timers.
	ImpressionSyncPeriod int
	CountSyncPeriod      int
	UniqueKeysSyncPeriod int
}

// Default returns a config with production defaults and optimized mode selected.
func Default() ManagerConfig {
	return ManagerConfig{
		Mode:                 ImpressionsModeOptimized,
		QueueSize:            DefaultQueueSize,
		ObserverSize:         DefaultObserverSize,
		DedupWindow:          DefaultDedupWindow,
		ImpressionSyncPeriod: DefaultImpressionSyncPeriod,
		CountSyncPeriod:      DefaultCountSyncPeriod,
		UniqueKeysSyncPeriod: DefaultUniqueKeysSyncPeriod,
	}
}

// Normalize fills unset optional values with their defaults.
func (c *ManagerConfig) Normalize() {
	if c.DedupWindow == 0 {
		c.DedupWindow = DefaultDedupWindow
	}
	if c.ImpressionSyncPeriod == 0 {
		c.ImpressionSyncPeriod = DefaultImpressionSyncPeriod
	}
	if c.CountSyncPeriod == 0 {
		c.CountSyncPeriod = DefaultCountSyncPeriod
	}
	if c.UniqueKeysSyncPeriod == 0 {
		c.UniqueKeysSyncPeriod = DefaultUniqueKeysSyncPeriod
	}
}

// Validate rejects configs that cannot yield a working manager. It is called
// by the builder before anything is constructed.
func (c ManagerConfig) Validate() error {
	switch c.Mode {
	case ImpressionsModeOptimized, ImpressionsModeDebug, ImpressionsModeNone:
	default:
		return fmt.Errorf("invalid impressions mode %q", c.Mode)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("impressions queue size must be a positive number, got %d", c.QueueSize)
	}
	if c.ObserverSize <= 0 {
		return fmt.Errorf("impressions observer size must be a positive number, got %d", c.ObserverSize)
	}
	if c.DedupWindow < 0 {
		return fmt.Errorf("dedup window cannot be negative, got %v", c.DedupWindow)
	}
	return nil
}
