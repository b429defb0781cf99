package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/services/chunking"
	"github.com/de-tools/report-atlas/pkg/services/narrative"
	"github.com/de-tools/report-atlas/pkg/services/report"
	"github.com/de-tools/report-atlas/pkg/services/variance"
	"github.com/de-tools/report-atlas/pkg/store/artifact"
	"github.com/de-tools/report-atlas/pkg/store/duckdb/history"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	maxPagesBody = 64 << 20
	maxAskBody   = 1 << 20
)

type Handler struct {
	svc      report.Service
	chunking chunking.Options
	topN     int
}

// NewHandler builds the upload and variance handlers. Zero chunking options
// and topN fall back to the package defaults.
func NewHandler(svc report.Service, chunkOpts chunking.Options, topN int) *Handler {
	if chunkOpts.MaxTokens <= 0 {
		chunkOpts.MaxTokens = chunking.DefaultMaxTokens
	}
	if chunkOpts.Meta == nil {
		chunkOpts.Meta = chunking.DefaultMeta()
	}
	if chunkOpts.OverlapTokens < 0 {
		chunkOpts.OverlapTokens = chunking.DefaultOverlapTokens
	}
	if topN <= 0 {
		topN = narrative.DefaultTopN
	}
	return &Handler{svc: svc, chunking: chunkOpts, topN: topN}
}

func (h *Handler) PutPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	upload := chi.URLParam(r, "upload")

	var pages []api.Page
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPagesBody)).Decode(&pages); err != nil {
		writeError(w, r, http.StatusBadRequest, api.ErrorTypeHTTP, "expected a JSON array of {page, text} objects")
		return
	}
	if len(pages) == 0 {
		writeError(w, r, http.StatusUnprocessableEntity, api.ErrorTypeUnprocessable, "no pages provided")
		return
	}

	savedAs, err := h.svc.SavePages(ctx, upload, adapters.MapApiPagesToDomain(pages))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	logger.Info().
		Str("upload_id", upload).
		Int("pages", len(pages)).
		Msg("pages stored")

	writeJSON(w, r, http.StatusOK, api.PagesResponse{
		UploadID:  upload,
		PageCount: len(pages),
		SavedAs:   savedAs,
	})
}

func (h *Handler) GetChunks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	upload := chi.URLParam(r, "upload")

	opts := h.chunking
	var err error
	if opts.MaxTokens, err = intParam(r, "max_tokens", opts.MaxTokens, 1); err != nil {
		writeError(w, r, http.StatusBadRequest, api.ErrorTypeHTTP, err.Error())
		return
	}
	if opts.OverlapTokens, err = intParam(r, "overlap_tokens", opts.OverlapTokens, 0); err != nil {
		writeError(w, r, http.StatusBadRequest, api.ErrorTypeHTTP, err.Error())
		return
	}

	chunks, err := h.svc.Chunks(ctx, upload, opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapChunksToApi(upload, chunks))
}

func (h *Handler) BuildMetrics(w http.ResponseWriter, r *http.Request) {
	upload := chi.URLParam(r, "upload")

	res, err := h.svc.BuildMetrics(r.Context(), upload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapMetricsReportToApi(res))
}

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	upload := chi.URLParam(r, "upload")

	res, err := h.svc.GetMetrics(r.Context(), upload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapMetricsReportToApi(res))
}

func (h *Handler) Variance(w http.ResponseWriter, r *http.Request) {
	base := chi.URLParam(r, "base")
	compare := chi.URLParam(r, "compare")

	res, err := h.svc.Variance(r.Context(), base, compare)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapVarianceReportToApi(res))
}

// GetVariance serves the artifact stored by the last POST for the pair.
func (h *Handler) GetVariance(w http.ResponseWriter, r *http.Request) {
	base := chi.URLParam(r, "base")
	compare := chi.URLParam(r, "compare")

	raw, err := h.svc.StoredVariance(r.Context(), base, compare)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, raw)
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	upload := chi.URLParam(r, "upload")

	var req api.AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBody)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, api.ErrorTypeHTTP, "expected a JSON object with a question")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, r, http.StatusUnprocessableEntity, api.ErrorTypeUnprocessable, "question is required")
		return
	}

	opts := h.chunking
	if req.MaxTokens != nil {
		if *req.MaxTokens < 1 {
			writeError(w, r, http.StatusUnprocessableEntity, api.ErrorTypeUnprocessable, "max_tokens must be >= 1")
			return
		}
		opts.MaxTokens = *req.MaxTokens
	}
	if req.OverlapTokens != nil {
		if *req.OverlapTokens < 0 {
			writeError(w, r, http.StatusUnprocessableEntity, api.ErrorTypeUnprocessable, "overlap_tokens must be >= 0")
			return
		}
		opts.OverlapTokens = *req.OverlapTokens
	}

	answer, err := h.svc.Ask(r.Context(), upload, adapters.MapAskRequestToDomain(req), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAnswerToApi(answer))
}

func (h *Handler) Narrative(w http.ResponseWriter, r *http.Request) {
	base := chi.URLParam(r, "base")
	compare := chi.URLParam(r, "compare")

	topN, err := intParam(r, "top_n", h.topN, 1)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, api.ErrorTypeHTTP, err.Error())
		return
	}

	text, err := h.svc.Narrative(r.Context(), base, compare, topN)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.NarrativeResponse{
		BaseUploadID:    base,
		CompareUploadID: compare,
		TopN:            topN,
		Narrative:       text,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	base := chi.URLParam(r, "base")
	compare := chi.URLParam(r, "compare")

	limit, err := intParam(r, "limit", history.DefaultListLimit, 1)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, api.ErrorTypeHTTP, err.Error())
		return
	}

	runs, err := h.svc.History(r.Context(), base, compare, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapVarianceRunsToApi(base, compare, runs))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, artifact.ErrNotFound), errors.Is(err, report.ErrHistoryDisabled):
		writeError(w, r, http.StatusNotFound, api.ErrorTypeHTTP, err.Error())
	case errors.Is(err, artifact.ErrInvalidID),
		errors.Is(err, artifact.ErrInvalidArtifact),
		errors.Is(err, variance.ErrMissingRequiredMetric):
		writeError(w, r, http.StatusUnprocessableEntity, api.ErrorTypeUnprocessable, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, api.ErrorTypeServer, "internal server error")
	}
}

func intParam(r *http.Request, name string, fallback, minimum int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < minimum {
		return 0, fmt.Errorf("invalid '%s' value %q: expected an integer >= %d", name, raw, minimum)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, r *http.Request, status int, errType, msg string) {
	writeJSON(w, r, status, api.ErrorResponse{Error: api.ErrorBody{Message: msg, Type: errType}})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
