package qa

import (
	"regexp"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

var whitespace = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

type metricRule struct {
	triggers []string
	metric   string
	// keywords locate the line item in page text
	keywords []string
}

var metricRules = []metricRule{
	{
		triggers: []string{"net income", "profit", "net earnings"},
		metric:   domain.MetricNetIncome,
		keywords: []string{"net income", "net earnings"},
	},
	{
		triggers: []string{"revenue", "sales"},
		metric:   domain.MetricRevenue,
		keywords: []string{"revenue", "net sales", "total net sales"},
	},
	{
		triggers: []string{"gross profit", "gross margin"},
		metric:   domain.MetricGrossProfit,
		keywords: []string{"gross profit", "gross margin"},
	},
	{
		triggers: []string{"operating income", "operating profit"},
		metric:   domain.MetricOperatingIncome,
		keywords: []string{"operating income"},
	},
	{
		triggers: []string{"income taxes", "tax expense", "provision for income taxes", "tax"},
		metric:   domain.MetricIncomeTaxes,
		keywords: []string{"provision for income taxes", "income taxes"},
	},
	{
		triggers: []string{"other income", "other expense", "other income/expense"},
		metric:   domain.MetricOtherIncomeExpenseNet,
		keywords: []string{"other income/(expense), net", "other income/(expense)"},
	},
	{
		triggers: []string{"income before taxes", "pre tax", "pretax", "pre-tax"},
		metric:   domain.MetricPreTaxIncome,
		keywords: []string{"income before provision for income taxes", "income before income taxes"},
	},
}

// Pick is the metric a question asks about. Value is nil when the metric is
// not known for the upload.
type Pick struct {
	Metric   string
	Value    *float64
	Keywords []string
}

// PickMetric maps a question to a metric by trigger phrases. The rule with
// the longest matching trigger wins, so "gross profit" beats "profit" and
// "pre-tax" beats "tax". It returns false when no trigger matches.
func PickMetric(question string, metrics domain.MetricSnapshot) (Pick, bool) {
	q := normalize(question)

	best, bestLen := -1, 0
	for i, rule := range metricRules {
		for _, t := range rule.triggers {
			if len(t) > bestLen && strings.Contains(q, t) {
				best, bestLen = i, len(t)
			}
		}
	}
	if best < 0 {
		return Pick{}, false
	}

	rule := metricRules[best]
	pick := Pick{Metric: rule.metric, Keywords: rule.keywords}
	if v, ok := metrics.Get(rule.metric); ok {
		pick.Value = domain.Float(v)
	}
	return pick, true
}
