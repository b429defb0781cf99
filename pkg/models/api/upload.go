package api

type Page struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

type PagesResponse struct {
	UploadID  string `json:"upload_id"`
	PageCount int    `json:"page_count"`
	SavedAs   string `json:"saved_as"`
}

type Evidence struct {
	Page    int    `json:"page"`
	Snippet string `json:"snippet"`
}

type MetricsResponse struct {
	UploadID string               `json:"upload_id"`
	SavedAs  string               `json:"saved_as,omitempty"`
	Metrics  map[string]*float64  `json:"metrics"`
	Evidence map[string]*Evidence `json:"evidence,omitempty"`
}

type ChunkSummary struct {
	ChunkID     string            `json:"chunk_id"`
	PageStart   int               `json:"page_start"`
	PageEnd     int               `json:"page_end"`
	TokenCount  int               `json:"token_count"`
	TextPreview string            `json:"text_preview"`
	Meta        map[string]string `json:"meta,omitempty"`
}

type ChunksResponse struct {
	UploadID   string         `json:"upload_id"`
	ChunkCount int            `json:"chunk_count"`
	Chunks     []ChunkSummary `json:"chunks"`
}
