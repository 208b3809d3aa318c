// Package service defines the interfaces toward the collection backend.
package service

import "github.com/splitio/go-impressions/dtos"

// ImpressionsRecorder posts impression payloads to the collection backend.
// Implementations own their transport timeouts; calls may block and are only
// ever made off the evaluation path.
type ImpressionsRecorder interface {
	Record(impressions []dtos.ImpressionsDTO, metadata dtos.Metadata) error
	RecordImpressionsCount(pf dtos.ImpressionsCountDTO, metadata dtos.Metadata) error
	RecordUniqueKeys(uniques dtos.UniquesDTO, metadata dtos.Metadata) error
}
