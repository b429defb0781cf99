package api

import "time"

type DriverImpact struct {
	Name        string   `json:"name"`
	Impact      float64  `json:"impact"`
	PctOfChange *float64 `json:"pct_of_change"`
}

type Drivers struct {
	RevenueImpact *float64 `json:"revenue_impact"`
	MarginImpact  *float64 `json:"margin_impact"`
	OpexImpact    *float64 `json:"opex_impact"`
	Other         *float64 `json:"other"`
	Residual      float64  `json:"residual"`
}

type OtherBreakdown struct {
	TaxImpact                *float64 `json:"tax_impact"`
	OtherIncomeExpenseImpact *float64 `json:"other_income_expense_impact"`
	RemainingOtherImpact     float64  `json:"remaining_other_impact"`
}

// VarianceResponse is both the API response and the persisted variance artifact.
type VarianceResponse struct {
	BaseUploadID    string          `json:"base_upload_id"`
	CompareUploadID string          `json:"compare_upload_id"`
	SavedAs         string          `json:"saved_as,omitempty"`
	NetIncomeChange float64         `json:"net_income_change"`
	Drivers         Drivers         `json:"drivers"`
	ExplainedPct    *float64        `json:"explained_pct"`
	DriversList     []DriverImpact  `json:"drivers_list"`
	ExplainedTotal  float64         `json:"explained_total"`
	Residual        float64         `json:"residual"`
	OtherBreakdown  *OtherBreakdown `json:"other_breakdown"`
}

type NarrativeResponse struct {
	BaseUploadID    string `json:"base_upload_id"`
	CompareUploadID string `json:"compare_upload_id"`
	TopN            int    `json:"top_n"`
	Narrative       string `json:"narrative"`
}

type VarianceRun struct {
	ID              string    `json:"id"`
	NetIncomeChange float64   `json:"net_income_change"`
	ExplainedTotal  float64   `json:"explained_total"`
	Residual        float64   `json:"residual"`
	ExplainedPct    *float64  `json:"explained_pct"`
	DriverCount     int       `json:"driver_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type HistoryResponse struct {
	BaseUploadID    string        `json:"base_upload_id"`
	CompareUploadID string        `json:"compare_upload_id"`
	Runs            []VarianceRun `json:"runs"`
}
