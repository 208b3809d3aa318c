// Package storage defines the interfaces between the impressions pipeline and
// its buffering backends.
package storage

import "github.com/splitio/go-impressions/dtos"

// ImpressionStorageProducer accepts impressions on the hot evaluation path.
// Implementations must never block.
type ImpressionStorageProducer interface {
	LogImpressions(impressions []dtos.Impression) error
}

// ImpressionStorageConsumer drains buffered impressions for posting
type ImpressionStorageConsumer interface {
	PopN(n int64) ([]dtos.Impression, error)
	PopAll() []dtos.Impression
	Empty() bool
	Count() int64
}

// ImpressionStorage both ends of an impressions buffer
type ImpressionStorage interface {
	ImpressionStorageProducer
	ImpressionStorageConsumer
}

// ImpressionsCountProducer stores deduped-impression counts, used when counts
// are posted by a different process than the one accumulating them
type ImpressionsCountProducer interface {
	RecordImpressionsCount(pf dtos.ImpressionsCountDTO) error
}
