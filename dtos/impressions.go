package dtos

// Impression maps a single occurrence of a key receiving a treatment for a feature.
// The short json tags are the storage-queue encoding shared with other SDKs.
type Impression struct {
	KeyName      string `json:"k"`
	BucketingKey string `json:"b"`
	FeatureName  string `json:"f"`
	Treatment    string `json:"t"`
	Label        string `json:"r"`
	ChangeNumber int64  `json:"c"`
	Time         int64  `json:"m"`
	Pt           int64  `json:"pt,omitempty"`
}

// ImpressionRecord wire representation of a single impression within a test
type ImpressionRecord struct {
	KeyName      string `json:"keyName"`
	Treatment    string `json:"treatment"`
	Time         int64  `json:"time"`
	ChangeNumber int64  `json:"changeNumber"`
	Label        string `json:"label"`
	BucketingKey string `json:"bucketingKey,omitempty"`
	Pt           int64  `json:"pt,omitempty"`
}

// ImpressionsDTO groups the impressions of a single feature for posting
type ImpressionsDTO struct {
	TestName       string             `json:"testName"`
	KeyImpressions []ImpressionRecord `json:"keyImpressions"`
}

// ImpressionCountPerFeature deduped-impression count for a feature within a time frame
type ImpressionCountPerFeature struct {
	FeatureName string `json:"f"`
	TimeFrame   int64  `json:"m"`
	RawCount    int64  `json:"rc"`
}

// ImpressionsCountDTO wire representation of deduped-impression counts
type ImpressionsCountDTO struct {
	PerFeature []ImpressionCountPerFeature `json:"pf"`
}

// UniqueKeysDTO the distinct keys evaluated for a single feature
type UniqueKeysDTO struct {
	Feature string   `json:"f"`
	Keys    []string `json:"ks"`
}

// UniquesDTO wire representation of unique keys tracked in count-only mode
type UniquesDTO struct {
	Keys []UniqueKeysDTO `json:"keys"`
}

// Metadata identity of the SDK instance that produced an impression
type Metadata struct {
	SDKVersion  string `json:"s"`
	MachineIP   string `json:"i"`
	MachineName string `json:"n"`
}

// ImpressionQueueObject impression wrapped with its producer's metadata, as
// stored in a shared queue when producing and posting happen in different processes
type ImpressionQueueObject struct {
	Metadata   Metadata   `json:"m"`
	Impression Impression `json:"i"`
}
