package domain

// Question asks about one upload, or about a pair when CompareUploadID is set.
type Question struct {
	Text            string
	CompareUploadID string
}

// Citation is a chunk of page text offered as support for an answer.
type Citation struct {
	UploadID    string
	ChunkID     string
	PageStart   int
	PageEnd     int
	TextPreview string
}

// Answer is a numbers-first reply. Computed is set for single upload questions,
// CompareMetrics and Variance for comparisons.
type Answer struct {
	UploadID        string
	CompareUploadID string
	Question        string
	Text            string
	Metrics         MetricSnapshot
	CompareMetrics  MetricSnapshot
	Computed        MetricSnapshot
	Variance        *VarianceResult
	Citations       []Citation
}
