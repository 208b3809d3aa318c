package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/splitio/go-impressions/dtos"
)

// HTTPImpressionRecorder submits impression bulks, deduped-impression counts
// and unique keys to the backend
type HTTPImpressionRecorder struct {
	client *HTTPClient
	logger logging.LoggerInterface
}

// NewHTTPImpressionRecorder instantiates an HTTPImpressionRecorder. endpoint
// and timeout follow NewHTTPClient's defaulting rules.
func NewHTTPImpressionRecorder(apikey string, endpoint string, timeout time.Duration, logger logging.LoggerInterface) *HTTPImpressionRecorder {
	return &HTTPImpressionRecorder{
		client: NewHTTPClient(apikey, endpoint, timeout, logger),
		logger: logger,
	}
}

func (i *HTTPImpressionRecorder) recordRaw(url string, data []byte, metadata dtos.Metadata) error {
	headers := make(map[string]string)
	headers["SplitSDKVersion"] = metadata.SDKVersion
	headers["SplitSDKMachineIP"] = metadata.MachineIP
	if metadata.MachineName == "" && metadata.MachineIP != "" {
		headers["SplitSDKMachineName"] = fmt.Sprintf("ip-%s", strings.Replace(metadata.MachineIP, ".", "-", -1))
	} else {
		headers["SplitSDKMachineName"] = metadata.MachineName
	}
	return i.client.Post(url, data, headers)
}

// Record posts a bulk of impressions grouped by feature
func (i *HTTPImpressionRecorder) Record(impressions []dtos.ImpressionsDTO, metadata dtos.Metadata) error {
	data, err := json.Marshal(impressions)
	if err != nil {
		i.logger.Error("Error marshaling JSON: ", err.Error())
		return err
	}

	if err := i.recordRaw("/testImpressions/bulk", data, metadata); err != nil {
		i.logger.Error("Error posting impressions: ", err.Error())
		return err
	}
	return nil
}

// RecordImpressionsCount posts deduped-impression counts
func (i *HTTPImpressionRecorder) RecordImpressionsCount(pf dtos.ImpressionsCountDTO, metadata dtos.Metadata) error {
	data, err := json.Marshal(pf)
	if err != nil {
		i.logger.Error("Error marshaling JSON: ", err.Error())
		return err
	}

	if err := i.recordRaw("/testImpressions/count", data, metadata); err != nil {
		i.logger.Error("Error posting impression counts: ", err.Error())
		return err
	}
	return nil
}

// RecordUniqueKeys posts the unique keys tracked in count-only mode
func (i *HTTPImpressionRecorder) RecordUniqueKeys(uniques dtos.UniquesDTO, metadata dtos.Metadata) error {
	data, err := json.Marshal(uniques)
	if err != nil {
		i.logger.Error("Error marshaling JSON: ", err.Error())
		return err
	}

	if err := i.recordRaw("/keys/ss", data, metadata); err != nil {
		i.logger.Error("Error posting unique keys: ", err.Error())
		return err
	}
	return nil
}
