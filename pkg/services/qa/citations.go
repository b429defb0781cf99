package qa

import (
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/chunking"
)

const (
	citationPreviewLen = 300

	// DefaultTopK is the number of citations a single upload answer carries.
	DefaultTopK = 3

	comparePoolSize = 10
	compareCap      = 5
)

// incomeStatementKeywords pin comparison citations to the statements of operations.
var incomeStatementKeywords = []string{
	"other income/(expense), net",
	"provision for income taxes",
	"income before provision for income taxes",
	"income before income taxes",
	"operating income",
	"net income",
	"condensed consolidated statements of operations",
	"statements of operations",
}

var cashFlowMarkers = []string{
	"cash flow",
	"cash generated",
	"cash used",
	"operating activities",
	"investing activities",
	"financing activities",
	"payments for",
	"net cash",
}

var balanceSheetMarkers = []string{
	"liabilities and shareholders",
	"shareholders’ equity",
	"shareholders' equity",
	"total assets",
	"total liabilities",
	"current liabilities",
	"accounts payable",
	"deferred revenue",
	"commercial paper",
}

// CitationsForKeywords chunks the pages and cites the topK chunks that best
// match keywords.
func CitationsForKeywords(
	uploadID string,
	pages []domain.Page,
	keywords []string,
	opts chunking.Options,
	topK int,
) []domain.Citation {
	best := RankChunks(chunking.ChunkPages(uploadID, pages, opts), keywords, topK)

	out := make([]domain.Citation, 0, len(best))
	for _, c := range best {
		preview := []rune(c.Text)
		if len(preview) > citationPreviewLen {
			preview = preview[:citationPreviewLen]
		}
		out = append(out, domain.Citation{
			UploadID:    uploadID,
			ChunkID:     c.ID,
			PageStart:   c.PageStart,
			PageEnd:     c.PageEnd,
			TextPreview: string(preview),
		})
	}
	return out
}

// IncomeStatementOnly drops citations whose preview reads like a cash flow
// statement or a balance sheet. Order is kept.
func IncomeStatementOnly(citations []domain.Citation) []domain.Citation {
	out := make([]domain.Citation, 0, len(citations))
	for _, c := range citations {
		preview := strings.ToLower(c.TextPreview)
		if containsAny(preview, cashFlowMarkers) || containsAny(preview, balanceSheetMarkers) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
