package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/chunking"
	"github.com/de-tools/report-atlas/pkg/services/metrics"
	"github.com/de-tools/report-atlas/pkg/services/narrative"
	"github.com/de-tools/report-atlas/pkg/services/qa"
	"github.com/de-tools/report-atlas/pkg/services/variance"
	"github.com/de-tools/report-atlas/pkg/store/artifact"
	"github.com/de-tools/report-atlas/pkg/store/duckdb/history"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrHistoryDisabled = errors.New("variance history is disabled")

// Service runs the report pipeline over stored artifacts.
type Service interface {
	SavePages(ctx context.Context, uploadID string, pages []domain.Page) (string, error)
	Chunks(ctx context.Context, uploadID string, opts chunking.Options) ([]domain.Chunk, error)
	BuildMetrics(ctx context.Context, uploadID string) (*domain.MetricsReport, error)
	GetMetrics(ctx context.Context, uploadID string) (*domain.MetricsReport, error)
	Variance(ctx context.Context, baseUploadID, compareUploadID string) (*domain.VarianceReport, error)
	StoredVariance(ctx context.Context, baseUploadID, compareUploadID string) (json.RawMessage, error)
	Narrative(ctx context.Context, baseUploadID, compareUploadID string, topN int) (string, error)
	History(ctx context.Context, baseUploadID, compareUploadID string, limit int) ([]domain.VarianceRun, error)
	Ask(ctx context.Context, uploadID string, q domain.Question, opts chunking.Options) (*domain.Answer, error)
}

type service struct {
	artifacts artifact.Store
	history   history.Store
}

// NewService wires the pipeline. history may be nil, which disables the ledger.
func NewService(artifacts artifact.Store, history history.Store) (Service, error) {
	if artifacts == nil {
		return nil, fmt.Errorf("artifact store is nil")
	}
	return &service{artifacts: artifacts, history: history}, nil
}

func (s *service) SavePages(ctx context.Context, uploadID string, pages []domain.Page) (string, error) {
	return s.artifacts.SavePages(ctx, uploadID, adapters.MapDomainPagesToStore(pages))
}

func (s *service) Chunks(ctx context.Context, uploadID string, opts chunking.Options) ([]domain.Chunk, error) {
	pages, err := s.artifacts.LoadPages(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	return chunking.ChunkPages(uploadID, adapters.MapStorePagesToDomain(pages), opts), nil
}

func (s *service) BuildMetrics(ctx context.Context, uploadID string) (*domain.MetricsReport, error) {
	logger := zerolog.Ctx(ctx)

	pages, err := s.artifacts.LoadPages(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	extracted := metrics.Extract(adapters.MapStorePagesToDomain(pages))
	savedAs, err := s.artifacts.SaveMetrics(ctx, adapters.MapExtractedMetricsToStore(uploadID, extracted))
	if err != nil {
		return nil, err
	}

	found := 0
	for _, v := range extracted.Metrics {
		if v != nil {
			found++
		}
	}
	logger.Debug().
		Str("upload_id", uploadID).
		Int("pages", len(pages)).
		Int("metrics_found", found).
		Msg("metrics extracted")

	return &domain.MetricsReport{UploadID: uploadID, SavedAs: savedAs, Extracted: extracted}, nil
}

func (s *service) GetMetrics(ctx context.Context, uploadID string) (*domain.MetricsReport, error) {
	a, err := s.artifacts.LoadMetrics(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	return &domain.MetricsReport{UploadID: uploadID, Extracted: adapters.MapStoreMetricsToDomain(a)}, nil
}

func (s *service) Variance(ctx context.Context, baseUploadID, compareUploadID string) (*domain.VarianceReport, error) {
	logger := zerolog.Ctx(ctx)

	report, err := s.compute(ctx, baseUploadID, compareUploadID)
	if err != nil {
		return nil, err
	}

	resp := adapters.MapVarianceReportToApi(report)
	savedAs, err := s.artifacts.SaveVariance(ctx, baseUploadID, compareUploadID, resp)
	if err != nil {
		return nil, err
	}
	report.SavedAs = savedAs

	if s.history != nil {
		payload, err := json.Marshal(resp)
		if err == nil {
			err = s.history.Add(ctx, adapters.MapVarianceReportToStoreRun(report, payload))
		}
		if err != nil {
			logger.Warn().
				Err(err).
				Str("base_upload_id", baseUploadID).
				Str("compare_upload_id", compareUploadID).
				Msg("failed to record variance run")
		}
	}

	logger.Debug().
		Str("base_upload_id", baseUploadID).
		Str("compare_upload_id", compareUploadID).
		Float64("net_income_change", report.Result.NetIncomeChange).
		Int("drivers", len(report.Result.DriversList)).
		Msg("variance computed")

	return report, nil
}

// StoredVariance returns the artifact written by the last Variance call for the pair.
func (s *service) StoredVariance(ctx context.Context, baseUploadID, compareUploadID string) (json.RawMessage, error) {
	return s.artifacts.LoadVariance(ctx, baseUploadID, compareUploadID)
}

func (s *service) Narrative(ctx context.Context, baseUploadID, compareUploadID string, topN int) (string, error) {
	report, err := s.compute(ctx, baseUploadID, compareUploadID)
	if err != nil {
		return "", err
	}
	return narrative.BuildVarianceNarrative(narrative.Input{
		BaseID:    baseUploadID,
		CompareID: compareUploadID,
		Result:    report.Result,
		TopN:      topN,
	}), nil
}

func (s *service) History(
	ctx context.Context,
	baseUploadID, compareUploadID string,
	limit int,
) ([]domain.VarianceRun, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if err := artifact.ValidateID(baseUploadID); err != nil {
		return nil, err
	}
	if err := artifact.ValidateID(compareUploadID); err != nil {
		return nil, err
	}

	runs, err := s.history.List(ctx, baseUploadID, compareUploadID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.VarianceRun, 0, len(runs))
	for _, run := range runs {
		out = append(out, adapters.MapStoreVarianceRunToDomain(run))
	}
	return out, nil
}

// Ask answers from stored metrics first. A question with a compare upload is
// answered with the variance between the two uploads; nothing is persisted.
func (s *service) Ask(
	ctx context.Context,
	uploadID string,
	q domain.Question,
	opts chunking.Options,
) (*domain.Answer, error) {
	logger := zerolog.Ctx(ctx)

	base, err := s.document(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	var answer *domain.Answer
	if q.CompareUploadID == "" {
		answer = qa.AnswerSingle(q.Text, base, opts)
	} else {
		compare, err := s.document(ctx, q.CompareUploadID)
		if err != nil {
			return nil, err
		}
		result, err := variance.ComputeVarianceDrivers(base.Metrics, compare.Metrics)
		if err != nil {
			return nil, err
		}
		answer = qa.AnswerCompare(qa.CompareInput{
			Question: q.Text,
			Base:     base,
			Compare:  compare,
			Result:   result,
		}, opts)
	}

	logger.Debug().
		Str("upload_id", uploadID).
		Str("compare_upload_id", q.CompareUploadID).
		Int("citations", len(answer.Citations)).
		Msg("question answered")

	return answer, nil
}

// document loads the stored metrics and pages of one upload.
func (s *service) document(ctx context.Context, uploadID string) (qa.Document, error) {
	doc := qa.Document{UploadID: uploadID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.artifacts.LoadMetrics(gctx, uploadID)
		if err != nil {
			return err
		}
		doc.Metrics = adapters.MapStoreMetricsToDomain(a).Metrics
		return nil
	})
	g.Go(func() error {
		pages, err := s.artifacts.LoadPages(gctx, uploadID)
		if err != nil {
			return err
		}
		doc.Pages = adapters.MapStorePagesToDomain(pages)
		return nil
	})
	if err := g.Wait(); err != nil {
		return qa.Document{}, err
	}
	return doc, nil
}

// compute loads both metric artifacts and runs the decomposition without
// persisting anything.
func (s *service) compute(ctx context.Context, baseUploadID, compareUploadID string) (*domain.VarianceReport, error) {
	var base, compare domain.MetricSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.artifacts.LoadMetrics(gctx, baseUploadID)
		if err != nil {
			return err
		}
		base = adapters.MapStoreMetricsToDomain(a).Metrics
		return nil
	})
	g.Go(func() error {
		a, err := s.artifacts.LoadMetrics(gctx, compareUploadID)
		if err != nil {
			return err
		}
		compare = adapters.MapStoreMetricsToDomain(a).Metrics
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := variance.ComputeVarianceDrivers(base, compare)
	if err != nil {
		return nil, err
	}
	return &domain.VarianceReport{
		BaseUploadID:    baseUploadID,
		CompareUploadID: compareUploadID,
		Result:          result,
	}, nil
}
