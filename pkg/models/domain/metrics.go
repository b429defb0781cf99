package domain

// Metric names produced by the extractor and consumed by the variance engine.
const (
	MetricRevenue               = "revenue"
	MetricGrossProfit           = "gross_profit"
	MetricOperatingIncome       = "operating_income"
	MetricOtherIncomeExpenseNet = "other_income_expense_net"
	MetricPreTaxIncome          = "pre_tax_income"
	MetricIncomeTaxes           = "income_taxes"
	MetricNetIncome             = "net_income"
	MetricTotalAssets           = "total_assets"
	MetricTotalLiabilities      = "total_liabilities"
)

// MetricSnapshot holds the extracted line items of one reporting period.
// A nil or missing value means the metric is unknown, never zero.
type MetricSnapshot map[string]*float64

// Get returns the value of a metric and whether it is known.
func (s MetricSnapshot) Get(name string) (float64, bool) {
	v, ok := s[name]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Evidence points at the page text a metric was extracted from.
type Evidence struct {
	Page    int
	Snippet string
}

type ExtractedMetrics struct {
	Metrics  MetricSnapshot
	Evidence map[string]*Evidence
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// MetricsReport is the extraction result of one upload.
type MetricsReport struct {
	UploadID  string
	SavedAs   string
	Extracted ExtractedMetrics
}
