package api

type AskRequest struct {
	Question        string `json:"question"`
	CompareUploadID string `json:"compare_upload_id,omitempty"`
	MaxTokens       *int   `json:"max_tokens,omitempty"`
	OverlapTokens   *int   `json:"overlap_tokens,omitempty"`
}

type Citation struct {
	UploadID    string `json:"upload_id"`
	ChunkID     string `json:"chunk_id"`
	PageStart   int    `json:"page_start"`
	PageEnd     int    `json:"page_end"`
	TextPreview string `json:"text_preview"`
}

// NumbersFirst carries the stored metrics an answer was built from: Metrics
// for a single upload, BaseMetrics and CompareMetrics for a comparison.
type NumbersFirst struct {
	Metrics        map[string]*float64 `json:"metrics,omitempty"`
	BaseMetrics    map[string]*float64 `json:"base_metrics,omitempty"`
	CompareMetrics map[string]*float64 `json:"compare_metrics,omitempty"`
}

type AskResponse struct {
	UploadID        string              `json:"upload_id"`
	CompareUploadID string              `json:"compare_upload_id,omitempty"`
	Question        string              `json:"question"`
	NumbersFirst    NumbersFirst        `json:"numbers_first"`
	Answer          string              `json:"answer"`
	Computed        map[string]*float64 `json:"computed,omitempty"`
	Variance        *VarianceResponse   `json:"variance,omitempty"`
	Citations       []Citation          `json:"citations"`
}
