package strategy

import (
	"errors"

	"github.com/cespare/xxhash/v2"

	"github.com/splitio/go-impressions/dtos"
)

// ErrNilImpression returned when a nil impression reaches the hasher
var ErrNilImpression = errors.New("impression cannot be nil")

const unknown = "UNKNOWN"

// ImpressionHasher computes the dedup fingerprint of an impression: two
// impressions hash equal when they share feature, bucketing key (falling back
// to the matching key) and treatment, regardless of timestamp.
type ImpressionHasher struct{}

// Process hashes the impression's fingerprint for the supplied feature
func (h *ImpressionHasher) Process(featureName string, impression *dtos.Impression) (int64, error) {
	if impression == nil {
		return 0, ErrNilImpression
	}

	key := impression.BucketingKey
	if key == "" {
		key = impression.KeyName
	}

	digest := xxhash.New()
	digest.WriteString(orUnknown(key))
	digest.WriteString(":")
	digest.WriteString(orUnknown(featureName))
	digest.WriteString(":")
	digest.WriteString(orUnknown(impression.Treatment))
	return int64(digest.Sum64()), nil
}

func orUnknown(value string) string {
	if value == "" {
		return unknown
	}
	return value
}
