package qa

import (
	"fmt"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/chunking"
	"github.com/de-tools/report-atlas/pkg/services/narrative"
)

// Document is one upload's stored metrics and page text.
type Document struct {
	UploadID string
	Metrics  domain.MetricSnapshot
	Pages    []domain.Page
}

// AnswerSingle answers a question about one upload from its stored metrics,
// citing the chunks that mention the metric asked about.
func AnswerSingle(question string, doc Document, opts chunking.Options) *domain.Answer {
	pick, picked := PickMetric(question, doc.Metrics)

	answer := &domain.Answer{
		UploadID:  doc.UploadID,
		Question:  question,
		Metrics:   doc.Metrics,
		Computed:  domain.MetricSnapshot{},
		Citations: CitationsForKeywords(doc.UploadID, doc.Pages, pick.Keywords, opts, DefaultTopK),
	}
	if picked {
		answer.Computed[pick.Metric] = pick.Value
		answer.Text = BuildSingleDocNarrative(question, doc.Metrics, &pick)
	} else {
		answer.Text = BuildSingleDocNarrative(question, doc.Metrics, nil)
	}
	return answer
}

// CompareInput is a question about the change between two uploads together
// with the variance already computed for them.
type CompareInput struct {
	Question string
	Base     Document
	Compare  Document
	Result   *domain.VarianceResult
	TopN     int
}

// AnswerCompare explains the variance between two uploads and cites income
// statement chunks from both, at most five per upload.
func AnswerCompare(in CompareInput, opts chunking.Options) *domain.Answer {
	topN := in.TopN
	if topN <= 0 {
		topN = narrative.DefaultTopN
	}

	cite := func(doc Document) []domain.Citation {
		c := IncomeStatementOnly(CitationsForKeywords(doc.UploadID, doc.Pages, incomeStatementKeywords, opts, comparePoolSize))
		return c[:min(compareCap, len(c))]
	}

	return &domain.Answer{
		UploadID:        in.Base.UploadID,
		CompareUploadID: in.Compare.UploadID,
		Question:        in.Question,
		Text: narrative.BuildVarianceNarrative(narrative.Input{
			BaseID:    in.Base.UploadID,
			CompareID: in.Compare.UploadID,
			Result:    in.Result,
			TopN:      topN,
		}),
		Metrics:        in.Base.Metrics,
		CompareMetrics: in.Compare.Metrics,
		Variance:       in.Result,
		Citations:      append(cite(in.Base), cite(in.Compare)...),
	}
}

// BuildSingleDocNarrative echoes the question, summarizes the headline
// metrics and margins, then answers with the picked metric when there is one.
func BuildSingleDocNarrative(question string, metrics domain.MetricSnapshot, pick *Pick) string {
	var lines []string
	if question != "" {
		lines = append(lines, "Question: "+question)
	}

	if len(metrics) > 0 {
		lines = append(lines, "Numbers-first snapshot (from stored metrics):")

		revenue, hasRevenue := metrics.Get(domain.MetricRevenue)
		line := func(label, metric, marginLabel string) {
			v, ok := metrics.Get(metric)
			if !ok {
				return
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", label, narrative.FormatCurrency(v)))
			if marginLabel != "" && hasRevenue && revenue != 0 {
				lines = append(lines, fmt.Sprintf("- %s: %s", marginLabel, narrative.FormatPercent(v/revenue)))
			}
		}
		line("Revenue", domain.MetricRevenue, "")
		line("Gross profit", domain.MetricGrossProfit, "Gross margin")
		line("Operating income", domain.MetricOperatingIncome, "Operating margin")
		line("Net income", domain.MetricNetIncome, "Net margin")
	}

	if pick != nil {
		name := narrative.TitleCase(pick.Metric)
		if pick.Value != nil {
			lines = append(lines, fmt.Sprintf("Direct answer: %s is %s.", name, narrative.FormatCurrency(*pick.Value)))
		} else {
			lines = append(lines, fmt.Sprintf("Direct answer: I couldn’t find a numeric value for %s.", name))
		}
	}

	if len(lines) == 0 {
		return "No narrative available yet."
	}
	return strings.Join(lines, "\n")
}
