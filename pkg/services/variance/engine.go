package variance

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

// ErrMissingRequiredMetric is returned when a snapshot has no numeric net income.
var ErrMissingRequiredMetric = errors.New("missing required metric")

// inputs are the metrics of one period the bridge reads.
type inputs struct {
	revenue, grossProfit, operatingIncome, netIncome *float64
	incomeTaxes, otherIncomeExpense                  *float64
}

func readInputs(period string, s domain.MetricSnapshot) (inputs, error) {
	in := inputs{
		revenue:            lookup(s, domain.MetricRevenue),
		grossProfit:        lookup(s, domain.MetricGrossProfit),
		operatingIncome:    lookup(s, domain.MetricOperatingIncome),
		netIncome:          lookup(s, domain.MetricNetIncome),
		incomeTaxes:        lookup(s, domain.MetricIncomeTaxes),
		otherIncomeExpense: lookup(s, domain.MetricOtherIncomeExpenseNet),
	}
	if in.netIncome == nil {
		return inputs{}, fmt.Errorf("%w: %s period has no numeric %s",
			ErrMissingRequiredMetric, period, domain.MetricNetIncome)
	}
	return in, nil
}

func lookup(s domain.MetricSnapshot, name string) *float64 {
	v, ok := s.Get(name)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ComputeVarianceDrivers decomposes the change in net income between base and
// compare into revenue, margin, opex and below-the-line drivers plus a residual
// that always reconciles to the total change.
func ComputeVarianceDrivers(base, compare domain.MetricSnapshot) (*domain.VarianceResult, error) {
	b, err := readInputs("base", base)
	if err != nil {
		return nil, err
	}
	c, err := readInputs("compare", compare)
	if err != nil {
		return nil, err
	}

	change := *c.netIncome - *b.netIncome
	drivers := rawDrivers(b, c)
	ranked := rankDrivers(drivers, change)

	return reconcile(change, drivers, ranked, otherBreakdown(b, c, drivers.Other)), nil
}

func rawDrivers(b, c inputs) domain.Drivers {
	var d domain.Drivers

	if present(b.revenue, b.grossProfit, c.revenue, c.grossProfit) && *b.revenue != 0 {
		baseMargin := *b.grossProfit / *b.revenue
		revenueImpact := (*c.revenue - *b.revenue) * baseMargin
		expectedGrossProfit := *b.grossProfit + revenueImpact
		d.RevenueImpact = domain.Float(revenueImpact)
		d.MarginImpact = domain.Float(*c.grossProfit - expectedGrossProfit)
	}

	if present(b.grossProfit, b.operatingIncome, c.grossProfit, c.operatingIncome) {
		baseOpex := *b.grossProfit - *b.operatingIncome
		compareOpex := *c.grossProfit - *c.operatingIncome
		// more opex reduces income
		d.OpexImpact = domain.Float(-(compareOpex - baseOpex))
	}

	if present(b.operatingIncome, c.operatingIncome) {
		baseBelow := *b.netIncome - *b.operatingIncome
		compareBelow := *c.netIncome - *c.operatingIncome
		d.Other = domain.Float(compareBelow - baseBelow)
	}

	return d
}

func otherBreakdown(b, c inputs, other *float64) *domain.OtherBreakdown {
	if other == nil {
		return nil
	}

	var taxImpact, otherIncomeExpenseImpact *float64
	if present(b.incomeTaxes, c.incomeTaxes) {
		// higher tax expense reduces income
		taxImpact = domain.Float(-(*c.incomeTaxes - *b.incomeTaxes))
	}
	if present(b.otherIncomeExpense, c.otherIncomeExpense) {
		otherIncomeExpenseImpact = domain.Float(*c.otherIncomeExpense - *b.otherIncomeExpense)
	}
	if taxImpact == nil && otherIncomeExpenseImpact == nil {
		return nil
	}

	return &domain.OtherBreakdown{
		TaxImpact:                taxImpact,
		OtherIncomeExpenseImpact: otherIncomeExpenseImpact,
		RemainingOtherImpact:     *other - valueOrZero(taxImpact) - valueOrZero(otherIncomeExpenseImpact),
	}
}

// rankDrivers lists the computable drivers by descending magnitude. The sort is
// stable so equal magnitudes keep enumeration order.
func rankDrivers(d domain.Drivers, change float64) []domain.DriverImpact {
	ranked := make([]domain.DriverImpact, 0, len(domain.DriverOrder))
	for _, name := range domain.DriverOrder {
		v := d.Get(name)
		if v == nil {
			continue
		}
		impact := domain.DriverImpact{Name: name, Impact: *v}
		if change != 0 {
			impact.PctOfChange = domain.Float(*v / change * 100)
		}
		ranked = append(ranked, impact)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Impact) > math.Abs(ranked[j].Impact)
	})
	return ranked
}

func reconcile(
	change float64,
	drivers domain.Drivers,
	ranked []domain.DriverImpact,
	breakdown *domain.OtherBreakdown,
) *domain.VarianceResult {
	explained := 0.0
	for _, d := range ranked {
		explained += d.Impact
	}
	residual := change - explained
	drivers.Residual = residual

	var explainedPct *float64
	if change != 0 && len(ranked) > 0 {
		explainedPct = domain.Float(round2(explained / change * 100))
	}

	return &domain.VarianceResult{
		NetIncomeChange: change,
		Drivers:         drivers,
		DriversList:     ranked,
		ExplainedTotal:  explained,
		Residual:        residual,
		ExplainedPct:    explainedPct,
		OtherBreakdown:  breakdown,
	}
}

func present(values ...*float64) bool {
	for _, v := range values {
		if v == nil {
			return false
		}
	}
	return true
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// round2 rounds the exact binary value to two decimals, so 2.675 (stored as
// 2.67499...) becomes 2.67.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
