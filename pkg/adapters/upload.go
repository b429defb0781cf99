package adapters

import (
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/services/metrics"
)

const chunkPreviewLen = 220

func MapStorePagesToDomain(pages []store.Page) []domain.Page {
	out := make([]domain.Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, domain.Page{Number: p.Page, Text: p.Text})
	}
	return out
}

func MapDomainPagesToStore(pages []domain.Page) []store.Page {
	out := make([]store.Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, store.Page{Page: p.Number, Text: p.Text})
	}
	return out
}

func MapApiPagesToDomain(pages []api.Page) []domain.Page {
	out := make([]domain.Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, domain.Page{Number: p.Page, Text: p.Text})
	}
	return out
}

func MapExtractedMetricsToStore(uploadID string, extracted domain.ExtractedMetrics) *store.MetricsArtifact {
	artifact := &store.MetricsArtifact{
		UploadID: uploadID,
		Metrics:  make(map[string]any, len(extracted.Metrics)),
		Evidence: make(map[string]*store.Evidence, len(extracted.Evidence)),
	}
	for name, v := range extracted.Metrics {
		if v == nil {
			artifact.Metrics[name] = nil
			continue
		}
		artifact.Metrics[name] = *v
	}
	for name, ev := range extracted.Evidence {
		if ev == nil {
			artifact.Evidence[name] = nil
			continue
		}
		artifact.Evidence[name] = &store.Evidence{Page: ev.Page, Snippet: ev.Snippet}
	}
	return artifact
}

// MapStoreMetricsToDomain coerces the raw artifact values into a snapshot.
func MapStoreMetricsToDomain(artifact *store.MetricsArtifact) domain.ExtractedMetrics {
	out := domain.ExtractedMetrics{
		Metrics:  metrics.SnapshotFromRaw(artifact.Metrics),
		Evidence: make(map[string]*domain.Evidence, len(artifact.Evidence)),
	}
	for name, ev := range artifact.Evidence {
		if ev == nil {
			out.Evidence[name] = nil
			continue
		}
		out.Evidence[name] = &domain.Evidence{Page: ev.Page, Snippet: ev.Snippet}
	}
	return out
}

func MapMetricsReportToApi(report *domain.MetricsReport) api.MetricsResponse {
	resp := api.MetricsResponse{
		UploadID: report.UploadID,
		SavedAs:  report.SavedAs,
		Metrics:  make(map[string]*float64, len(report.Extracted.Metrics)),
	}
	for name, v := range report.Extracted.Metrics {
		resp.Metrics[name] = v
	}
	if len(report.Extracted.Evidence) > 0 {
		resp.Evidence = make(map[string]*api.Evidence, len(report.Extracted.Evidence))
		for name, ev := range report.Extracted.Evidence {
			if ev == nil {
				resp.Evidence[name] = nil
				continue
			}
			resp.Evidence[name] = &api.Evidence{Page: ev.Page, Snippet: ev.Snippet}
		}
	}
	return resp
}

func MapChunksToApi(uploadID string, chunks []domain.Chunk) api.ChunksResponse {
	resp := api.ChunksResponse{
		UploadID:   uploadID,
		ChunkCount: len(chunks),
		Chunks:     make([]api.ChunkSummary, 0, len(chunks)),
	}
	for _, c := range chunks {
		preview := []rune(c.Text)
		if len(preview) > chunkPreviewLen {
			preview = preview[:chunkPreviewLen]
		}
		resp.Chunks = append(resp.Chunks, api.ChunkSummary{
			ChunkID:     c.ID,
			PageStart:   c.PageStart,
			PageEnd:     c.PageEnd,
			TokenCount:  c.TokenCount,
			TextPreview: string(preview),
			Meta:        c.Meta,
		})
	}
	return resp
}
