package adapters

import (
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
)

func MapAskRequestToDomain(req api.AskRequest) domain.Question {
	return domain.Question{
		Text:            strings.TrimSpace(req.Question),
		CompareUploadID: strings.TrimSpace(req.CompareUploadID),
	}
}

func MapAnswerToApi(answer *domain.Answer) api.AskResponse {
	resp := api.AskResponse{
		UploadID:        answer.UploadID,
		CompareUploadID: answer.CompareUploadID,
		Question:        answer.Question,
		Answer:          answer.Text,
		Computed:        answer.Computed,
		Citations:       make([]api.Citation, 0, len(answer.Citations)),
	}

	if answer.Variance != nil {
		v := MapVarianceReportToApi(&domain.VarianceReport{
			BaseUploadID:    answer.UploadID,
			CompareUploadID: answer.CompareUploadID,
			Result:          answer.Variance,
		})
		resp.Variance = &v
		resp.NumbersFirst = api.NumbersFirst{
			BaseMetrics:    answer.Metrics,
			CompareMetrics: answer.CompareMetrics,
		}
	} else {
		resp.NumbersFirst = api.NumbersFirst{Metrics: answer.Metrics}
	}

	for _, c := range answer.Citations {
		resp.Citations = append(resp.Citations, api.Citation{
			UploadID:    c.UploadID,
			ChunkID:     c.ChunkID,
			PageStart:   c.PageStart,
			PageEnd:     c.PageEnd,
			TextPreview: c.TextPreview,
		})
	}
	return resp
}
