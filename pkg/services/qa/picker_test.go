package qa

import (
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickMetric(t *testing.T) {
	metrics := domain.MetricSnapshot{
		domain.MetricNetIncome:       domain.Float(200),
		domain.MetricRevenue:         domain.Float(1000),
		domain.MetricGrossProfit:     domain.Float(600),
		domain.MetricOperatingIncome: nil,
		domain.MetricPreTaxIncome:    domain.Float(260),
	}

	tests := []struct {
		name      string
		question  string
		expected  string
		wantValue *float64
	}{
		{name: "net income", question: "What is net income?", expected: domain.MetricNetIncome, wantValue: domain.Float(200)},
		{name: "case and spacing", question: "  How much   REVENUE\tdid they book?", expected: domain.MetricRevenue, wantValue: domain.Float(1000)},
		{name: "sales", question: "total sales this quarter", expected: domain.MetricRevenue, wantValue: domain.Float(1000)},
		{name: "gross profit beats profit", question: "what was gross profit", expected: domain.MetricGrossProfit, wantValue: domain.Float(600)},
		{name: "operating profit beats profit", question: "operating profit?", expected: domain.MetricOperatingIncome},
		{name: "pre-tax beats tax", question: "pre-tax income please", expected: domain.MetricPreTaxIncome, wantValue: domain.Float(260)},
		{name: "tax", question: "how much tax was paid", expected: domain.MetricIncomeTaxes},
		{name: "other income", question: "other income this year", expected: domain.MetricOtherIncomeExpenseNet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pick, ok := PickMetric(tt.question, metrics)
			require.True(t, ok)
			assert.Equal(t, tt.expected, pick.Metric)
			assert.Equal(t, tt.wantValue, pick.Value)
			assert.NotEmpty(t, pick.Keywords)
		})
	}

	t.Run("no trigger", func(t *testing.T) {
		pick, ok := PickMetric("who is the auditor?", metrics)
		assert.False(t, ok)
		assert.Empty(t, pick.Metric)
		assert.Empty(t, pick.Keywords)
	})
}
