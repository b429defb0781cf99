package narrative

import (
	"fmt"
	"math"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

const DefaultTopN = 3

var driverLabels = map[domain.DriverName]string{
	domain.DriverRevenueImpact: "Revenue impact",
	domain.DriverMarginImpact:  "Margin impact",
	domain.DriverOpexImpact:    "OpEx impact",
	domain.DriverOther:         "Other (below-the-line)",
	domain.DriverResidual:      "Residual",
}

// Label returns the display name of a driver. Unknown names are title-cased
// from snake case.
func Label(name domain.DriverName) string {
	if l, ok := driverLabels[name]; ok {
		return l
	}
	return TitleCase(string(name))
}

type Input struct {
	BaseID    string
	CompareID string
	Result    *domain.VarianceResult
	TopN      int
}

// BuildVarianceNarrative explains a variance result in plain text, listing the
// largest drivers first.
func BuildVarianceNarrative(in Input) string {
	r := in.Result
	var lines []string

	switch {
	case r.NetIncomeChange > 0:
		lines = append(lines, fmt.Sprintf("Net income increased by %s when comparing %s vs %s.",
			FormatAmount(r.NetIncomeChange), in.BaseID, in.CompareID))
	case r.NetIncomeChange < 0:
		lines = append(lines, fmt.Sprintf("Net income decreased by %s when comparing %s vs %s.",
			FormatAmount(math.Abs(r.NetIncomeChange)), in.BaseID, in.CompareID))
	default:
		lines = append(lines, fmt.Sprintf("Net income was flat (%s) when comparing %s vs %s.",
			FormatAmount(r.NetIncomeChange), in.BaseID, in.CompareID))
	}

	if r.ExplainedPct != nil {
		lines = append(lines, fmt.Sprintf("Drivers explain about %s%% of the change.", FormatAmount(*r.ExplainedPct)))
	}

	top := r.DriversList[:min(max(in.TopN, 0), len(r.DriversList))]
	if len(top) > 0 {
		lines = append(lines, "Top drivers:")
		for _, d := range top {
			lines = append(lines, fmt.Sprintf("- %s: %s", Label(d.Name), FormatSigned(d.Impact)))
		}
	}

	if b := r.OtherBreakdown; b != nil && r.Drivers.Other != nil {
		lines = append(lines, "",
			fmt.Sprintf("Breakdown of %s (%s):", Label(domain.DriverOther), FormatSigned(*r.Drivers.Other)))
		if b.TaxImpact != nil {
			lines = append(lines, "- Taxes impact: "+FormatSigned(*b.TaxImpact))
		}
		if b.OtherIncomeExpenseImpact != nil {
			lines = append(lines, "- Other income/(expense), net impact: "+FormatSigned(*b.OtherIncomeExpenseImpact))
		}
		lines = append(lines, "- Remaining (interest/one-offs/other): "+FormatSigned(b.RemainingOtherImpact))
	}

	lines = append(lines, "", fmt.Sprintf("Reconciliation: explained_total=%s, residual=%s.",
		FormatAmount(r.ExplainedTotal), FormatAmount(r.Residual)))

	return strings.Join(lines, "\n")
}
