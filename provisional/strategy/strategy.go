// Package strategy implements the decision layer of the impressions pipeline:
// given a batch of tracked impressions, each strategy decides which ones are
// queued for posting, which ones collapse into counts, and what the optional
// listener gets to see.
package strategy

import "github.com/splitio/go-impressions/dtos"

// ProcessStrategyInterface splits a batch of impressions into the subsequence
// to queue for posting and the subsequence handed to the impression listener.
// The mode is chosen once at construction time; there is no runtime switch.
type ProcessStrategyInterface interface {
	Apply(impressions []dtos.Impression) ([]dtos.Impression, []dtos.Impression)
}
