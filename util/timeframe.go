// Package util contains time-frame helpers shared by the counting and
// deduplication layers.
package util

import "time"

// DefaultTimeFrame is the bucket width used to aggregate deduped impression counts.
const DefaultTimeFrame = time.Hour

// TruncateTimeFrame truncates an epoch-millisecond timestamp to the default time frame.
func TruncateTimeFrame(timestampMs int64) int64 {
	return TruncateTimeFrameWindow(timestampMs, DefaultTimeFrame)
}

// TruncateTimeFrameWindow truncates an epoch-millisecond timestamp to an
// arbitrary window. Non-positive windows leave the timestamp untouched.
func TruncateTimeFrameWindow(timestampMs int64, window time.Duration) int64 {
	ms := window.Milliseconds()
	if ms <= 0 {
		return timestampMs
	}
	return timestampMs - (timestampMs % ms)
}
