package store

import "time"

// Page is one entry of an extracted pages artifact.
type Page struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

type Evidence struct {
	Page    int    `json:"page"`
	Snippet string `json:"snippet"`
}

// MetricsArtifact is the persisted output of the metrics extractor. Metric
// values are kept as decoded so that numeric coercion happens once, when the
// artifact is turned into a snapshot.
type MetricsArtifact struct {
	UploadID string               `json:"upload_id"`
	Metrics  map[string]any       `json:"metrics"`
	Evidence map[string]*Evidence `json:"evidence,omitempty"`
}

type VarianceRun struct {
	ID              string
	BaseUploadID    string
	CompareUploadID string
	NetIncomeChange float64
	ExplainedTotal  float64
	Residual        float64
	ExplainedPct    *float64
	DriverCount     int
	Payload         []byte
	CreatedAt       time.Time
}
