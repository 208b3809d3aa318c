// Package redisdb contains redis-backed impression storages, used when
// impressions are produced by a different process than the one that posts them.
package redisdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/splitio/go-impressions/dtos"
)

const (
	redisImpressions      = "SPLITIO.impressions"
	redisImpressionsCount = "SPLITIO.impressions.count"
	redisImpressionsTTL   = 60 * time.Minute
)

// ErrNilRedisClient returned when no redis client is supplied
var ErrNilRedisClient = errors.New("redis client cannot be nil")

// ImpressionStorage stores impressions and deduped-impression counts in redis.
// Impressions are appended to a shared list wrapped with the producer's
// metadata; counts accumulate in a hash keyed by feature and time frame.
type ImpressionStorage struct {
	client   *redis.Client
	prefix   string
	metadata dtos.Metadata
	logger   logging.LoggerInterface
}

// NewImpressionStorage builds a redis impression storage. prefix may be empty.
func NewImpressionStorage(client *redis.Client, prefix string, metadata dtos.Metadata, logger logging.LoggerInterface) (*ImpressionStorage, error) {
	if client == nil {
		return nil, ErrNilRedisClient
	}
	return &ImpressionStorage{
		client:   client,
		prefix:   prefix,
		metadata: metadata,
		logger:   logger,
	}, nil
}

func (r *ImpressionStorage) withPrefix(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + "." + key
}

// LogImpressions wraps each impression with the SDK metadata and pushes the
// bulk to the shared list. The TTL is (re)set when this push created the list,
// so an abandoned queue does not grow stale forever.
func (r *ImpressionStorage) LogImpressions(impressions []dtos.Impression) error {
	if len(impressions) == 0 {
		return nil
	}

	toStore := make([]interface{}, 0, len(impressions))
	for _, impression := range impressions {
		encoded, err := json.Marshal(dtos.ImpressionQueueObject{Metadata: r.metadata, Impression: impression})
		if err != nil {
			r.logger.Error("Error encoding impression in json for feature ", impression.FeatureName, ": ", err.Error())
			continue
		}
		toStore = append(toStore, string(encoded))
	}
	if len(toStore) == 0 {
		return nil
	}

	ctx := context.Background()
	key := r.withPrefix(redisImpressions)
	inserted, err := r.client.RPush(ctx, key, toStore...).Result()
	if err != nil {
		r.logger.Error("Error storing impressions in redis: ", err.Error())
		return err
	}
	if inserted == int64(len(toStore)) {
		// The list did not exist before this push
		r.client.Expire(ctx, key, redisImpressionsTTL)
	}
	return nil
}

// PopN atomically removes and returns up to n impressions from the shared list
func (r *ImpressionStorage) PopN(n int64) ([]dtos.Impression, error) {
	ctx := context.Background()
	key := r.withPrefix(redisImpressions)

	pipe := r.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, n-1)
	pipe.LTrim(ctx, key, n, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Error fetching impressions from redis: ", err.Error())
		return nil, err
	}

	raw := rangeCmd.Val()
	toReturn := make([]dtos.Impression, 0, len(raw))
	for _, stored := range raw {
		var queueObj dtos.ImpressionQueueObject
		if err := json.Unmarshal([]byte(stored), &queueObj); err != nil {
			r.logger.Error("Could not decode json-stored impression: ", err.Error())
			continue
		}
		toReturn = append(toReturn, queueObj.Impression)
	}
	return toReturn, nil
}

// PopAll drains the whole shared list
func (r *ImpressionStorage) PopAll() []dtos.Impression {
	count := r.Count()
	if count == 0 {
		return nil
	}
	impressions, err := r.PopN(count)
	if err != nil {
		return nil
	}
	return impressions
}

// Empty returns whether the shared list has no impressions
func (r *ImpressionStorage) Empty() bool {
	return r.Count() == 0
}

// Count returns the length of the shared list
func (r *ImpressionStorage) Count() int64 {
	count, err := r.client.LLen(context.Background(), r.withPrefix(redisImpressions)).Result()
	if err != nil {
		r.logger.Error("Error getting impression count from redis: ", err.Error())
		return 0
	}
	return count
}

// RecordImpressionsCount accumulates deduped-impression counts in a shared
// hash, one field per feature and time frame
func (r *ImpressionStorage) RecordImpressionsCount(pf dtos.ImpressionsCountDTO) error {
	if len(pf.PerFeature) == 0 {
		return nil
	}

	ctx := context.Background()
	key := r.withPrefix(redisImpressionsCount)
	pipe := r.client.Pipeline()
	for _, value := range pf.PerFeature {
		pipe.HIncrBy(ctx, key, fmt.Sprintf("%s::%d", value.FeatureName, value.TimeFrame), value.RawCount)
	}
	pipe.Expire(ctx, key, redisImpressionsTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Error storing impression counts in redis: ", err.Error())
		return err
	}
	return nil
}
