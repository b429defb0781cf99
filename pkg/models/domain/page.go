package domain

// Page is the text of a single PDF page as produced by the extraction collaborator.
type Page struct {
	Number int
	Text   string
}

type Chunk struct {
	ID         string
	UploadID   string
	PageStart  int
	PageEnd    int
	TokenCount int
	Text       string
	Meta       map[string]string
}
