package adapters

import (
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/store"
)

func MapVarianceReportToApi(report *domain.VarianceReport) api.VarianceResponse {
	r := report.Result
	resp := api.VarianceResponse{
		BaseUploadID:    report.BaseUploadID,
		CompareUploadID: report.CompareUploadID,
		SavedAs:         report.SavedAs,
		NetIncomeChange: r.NetIncomeChange,
		Drivers: api.Drivers{
			RevenueImpact: r.Drivers.RevenueImpact,
			MarginImpact:  r.Drivers.MarginImpact,
			OpexImpact:    r.Drivers.OpexImpact,
			Other:         r.Drivers.Other,
			Residual:      r.Drivers.Residual,
		},
		ExplainedPct:   r.ExplainedPct,
		DriversList:    make([]api.DriverImpact, 0, len(r.DriversList)),
		ExplainedTotal: r.ExplainedTotal,
		Residual:       r.Residual,
	}

	for _, d := range r.DriversList {
		resp.DriversList = append(resp.DriversList, api.DriverImpact{
			Name:        string(d.Name),
			Impact:      d.Impact,
			PctOfChange: d.PctOfChange,
		})
	}

	if b := r.OtherBreakdown; b != nil {
		resp.OtherBreakdown = &api.OtherBreakdown{
			TaxImpact:                b.TaxImpact,
			OtherIncomeExpenseImpact: b.OtherIncomeExpenseImpact,
			RemainingOtherImpact:     b.RemainingOtherImpact,
		}
	}
	return resp
}

// MapVarianceReportToStoreRun builds the ledger entry of a computation; payload
// is the persisted artifact document.
func MapVarianceReportToStoreRun(report *domain.VarianceReport, payload []byte) *store.VarianceRun {
	r := report.Result
	return &store.VarianceRun{
		BaseUploadID:    report.BaseUploadID,
		CompareUploadID: report.CompareUploadID,
		NetIncomeChange: r.NetIncomeChange,
		ExplainedTotal:  r.ExplainedTotal,
		Residual:        r.Residual,
		ExplainedPct:    r.ExplainedPct,
		DriverCount:     len(r.DriversList),
		Payload:         payload,
	}
}

func MapStoreVarianceRunToDomain(run *store.VarianceRun) domain.VarianceRun {
	return domain.VarianceRun{
		ID:              run.ID,
		BaseUploadID:    run.BaseUploadID,
		CompareUploadID: run.CompareUploadID,
		NetIncomeChange: run.NetIncomeChange,
		ExplainedTotal:  run.ExplainedTotal,
		Residual:        run.Residual,
		ExplainedPct:    run.ExplainedPct,
		DriverCount:     run.DriverCount,
		CreatedAt:       run.CreatedAt,
	}
}

func MapVarianceRunsToApi(baseUploadID, compareUploadID string, runs []domain.VarianceRun) api.HistoryResponse {
	resp := api.HistoryResponse{
		BaseUploadID:    baseUploadID,
		CompareUploadID: compareUploadID,
		Runs:            make([]api.VarianceRun, 0, len(runs)),
	}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, api.VarianceRun{
			ID:              run.ID,
			NetIncomeChange: run.NetIncomeChange,
			ExplainedTotal:  run.ExplainedTotal,
			Residual:        run.Residual,
			ExplainedPct:    run.ExplainedPct,
			DriverCount:     run.DriverCount,
			CreatedAt:       run.CreatedAt,
		})
	}
	return resp
}
