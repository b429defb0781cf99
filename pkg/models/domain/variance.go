package domain

import "time"

type DriverName string

const (
	DriverRevenueImpact DriverName = "revenue_impact"
	DriverMarginImpact  DriverName = "margin_impact"
	DriverOpexImpact    DriverName = "opex_impact"
	DriverOther         DriverName = "other"
	DriverResidual      DriverName = "residual"
)

// DriverOrder is the enumeration order of the named drivers. Ties in the ranked
// driver list keep this order.
var DriverOrder = []DriverName{
	DriverRevenueImpact,
	DriverMarginImpact,
	DriverOpexImpact,
	DriverOther,
}

// DriverImpact is a signed contribution to the change in net income.
// Positive values increased net income.
type DriverImpact struct {
	Name        DriverName
	Impact      float64
	PctOfChange *float64 // nil when net income did not change
}

// Drivers holds every named driver, nil when it could not be computed.
type Drivers struct {
	RevenueImpact *float64
	MarginImpact  *float64
	OpexImpact    *float64
	Other         *float64
	Residual      float64
}

// Get returns the named driver value.
func (d Drivers) Get(name DriverName) *float64 {
	switch name {
	case DriverRevenueImpact:
		return d.RevenueImpact
	case DriverMarginImpact:
		return d.MarginImpact
	case DriverOpexImpact:
		return d.OpexImpact
	case DriverOther:
		return d.Other
	case DriverResidual:
		r := d.Residual
		return &r
	}
	return nil
}

// OtherBreakdown splits the below-the-line bucket.
type OtherBreakdown struct {
	TaxImpact                *float64
	OtherIncomeExpenseImpact *float64
	RemainingOtherImpact     float64
}

type VarianceResult struct {
	NetIncomeChange float64
	Drivers         Drivers
	DriversList     []DriverImpact
	ExplainedTotal  float64
	Residual        float64
	ExplainedPct    *float64
	OtherBreakdown  *OtherBreakdown
}

// VarianceReport is a variance result bound to the pair of uploads that produced it.
type VarianceReport struct {
	BaseUploadID    string
	CompareUploadID string
	SavedAs         string
	Result          *VarianceResult
}

// VarianceRun is a ledger entry of a past variance computation.
type VarianceRun struct {
	ID              string
	BaseUploadID    string
	CompareUploadID string
	NetIncomeChange float64
	ExplainedTotal  float64
	Residual        float64
	ExplainedPct    *float64
	DriverCount     int
	CreatedAt       time.Time
}
