// Package listener contains the optional impression listener hook. The
// listener is a passthrough sink: it receives every impression the pipeline
// saw, annotated, regardless of queueing outcome.
package listener

import "github.com/splitio/go-impressions/dtos"

// ILObject the data handed to the listener for each impression
type ILObject struct {
	Impression         dtos.Impression
	Attributes         map[string]interface{}
	InstanceID         string
	SDKLanguageVersion string
}

// ImpressionListener is implemented by applications that want a copy of every
// impression. Implementations should return quickly; notifications run on
// their own goroutine but are not buffered.
type ImpressionListener interface {
	LogImpression(data ILObject)
}

// WrapperImpressionListener decorates user listeners with the SDK metadata
type WrapperImpressionListener struct {
	listener ImpressionListener
	metadata dtos.Metadata
}

// NewImpressionListenerWrapper instantiates a new WrapperImpressionListener
func NewImpressionListenerWrapper(impressionListener ImpressionListener, metadata dtos.Metadata) *WrapperImpressionListener {
	return &WrapperImpressionListener{
		listener: impressionListener,
		metadata: metadata,
	}
}

// SendDataToClient delivers each impression to the wrapped listener
func (i *WrapperImpressionListener) SendDataToClient(impressions []dtos.Impression, attributes map[string]interface{}) {
	for _, impression := range impressions {
		i.listener.LogImpression(ILObject{
			Impression:         impression,
			Attributes:         attributes,
			InstanceID:         i.metadata.MachineName,
			SDKLanguageVersion: "go-" + i.metadata.SDKVersion,
		})
	}
}
