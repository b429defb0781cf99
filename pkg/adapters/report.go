package adapters

import (
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/metrics"
	"github.com/de-tools/report-atlas/pkg/services/narrative"
)

const notAvailable = "n/a"

// MapVarianceReportToTerminal lays out a variance result for the terminal reporter.
func MapVarianceReportToTerminal(report *domain.VarianceReport) *domain.Report {
	r := report.Result

	pct := notAvailable
	if r.ExplainedPct != nil {
		pct = narrative.FormatAmount(*r.ExplainedPct) + "%"
	}

	drivers := domain.ReportSection{
		Title: "Drivers",
		Summary: map[string]interface{}{
			"Explained total": narrative.FormatSigned(r.ExplainedTotal),
			"Residual":        narrative.FormatSigned(r.Residual),
			"Explained":       pct,
		},
	}
	for _, d := range r.DriversList {
		desc := "share of change unavailable"
		if d.PctOfChange != nil {
			desc = fmt.Sprintf("%s%% of the change", narrative.FormatAmount(*d.PctOfChange))
		}
		drivers.Details = append(drivers.Details, domain.ReportDetail{
			Name:        narrative.Label(d.Name),
			Value:       narrative.FormatSigned(d.Impact),
			Description: desc,
		})
	}

	out := &domain.Report{
		Title:       "Net income variance",
		Comparison:  domain.Comparison{Base: report.BaseUploadID, Compare: report.CompareUploadID},
		Sections:    []domain.ReportSection{drivers},
		TotalChange: r.NetIncomeChange,
	}

	if b := r.OtherBreakdown; b != nil {
		breakdown := domain.ReportSection{Title: "Breakdown of " + narrative.Label(domain.DriverOther)}
		breakdown.Details = append(breakdown.Details,
			optionalDetail("Tax impact", b.TaxImpact, "positive when taxes fell"),
			optionalDetail("Other income/(expense), net impact", b.OtherIncomeExpenseImpact, ""),
			domain.ReportDetail{
				Name:        "Remaining",
				Value:       narrative.FormatSigned(b.RemainingOtherImpact),
				Description: "interest, one-offs and other items",
			},
		)
		out.Sections = append(out.Sections, breakdown)
	}
	return out
}

// MapExtractedMetricsToTerminal lists extracted statement lines with their evidence.
func MapExtractedMetricsToTerminal(uploadID string, extracted domain.ExtractedMetrics) *domain.Report {
	section := domain.ReportSection{Title: "Extracted metrics"}

	found := 0
	for _, name := range metrics.MetricNames() {
		detail := domain.ReportDetail{Name: name, Value: notAvailable}
		if v, ok := extracted.Metrics.Get(name); ok {
			detail.Value = narrative.FormatAmount(v)
			found++
		}
		if ev := extracted.Evidence[name]; ev != nil {
			detail.Description = fmt.Sprintf("p.%d %s", ev.Page, ev.Snippet)
		}
		section.Details = append(section.Details, detail)
	}
	section.Summary = map[string]interface{}{
		"Found": fmt.Sprintf("%d of %d", found, len(section.Details)),
	}

	return &domain.Report{
		Title:      "Statement metrics",
		Comparison: domain.Comparison{Base: uploadID},
		Sections:   []domain.ReportSection{section},
	}
}

func optionalDetail(name string, v *float64, desc string) domain.ReportDetail {
	d := domain.ReportDetail{Name: name, Value: notAvailable, Description: desc}
	if v != nil {
		d.Value = narrative.FormatSigned(*v)
	}
	return d
}
