package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/store"
)

var (
	ErrNotFound        = errors.New("artifact not found")
	ErrInvalidArtifact = errors.New("invalid artifact")
	ErrInvalidID       = errors.New("invalid upload id")
)

// Backend persists raw artifact documents under slash separated keys.
type Backend interface {
	// Put writes data under key and returns where it was stored.
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Get returns ErrNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Store reads and writes the JSON artifacts of the ingestion pipeline.
type Store interface {
	SavePages(ctx context.Context, uploadID string, pages []store.Page) (string, error)
	LoadPages(ctx context.Context, uploadID string) ([]store.Page, error)
	SaveMetrics(ctx context.Context, artifact *store.MetricsArtifact) (string, error)
	LoadMetrics(ctx context.Context, uploadID string) (*store.MetricsArtifact, error)
	SaveVariance(ctx context.Context, baseUploadID, compareUploadID string, payload any) (string, error)
	LoadVariance(ctx context.Context, baseUploadID, compareUploadID string) (json.RawMessage, error)
}

type jsonStore struct {
	backend Backend
}

func NewStore(backend Backend) (Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("artifact backend is nil")
	}
	return &jsonStore{backend: backend}, nil
}

func PagesKey(uploadID string) string {
	return path.Join("extracted", uploadID+".json")
}

func MetricsKey(uploadID string) string {
	return path.Join("metrics", uploadID+".json")
}

func VarianceKey(baseUploadID, compareUploadID string) string {
	return path.Join("variance", baseUploadID+"__vs__"+compareUploadID+".json")
}

// ValidateID rejects ids that would escape the artifact layout.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func (s *jsonStore) SavePages(ctx context.Context, uploadID string, pages []store.Page) (string, error) {
	if err := ValidateID(uploadID); err != nil {
		return "", err
	}
	if pages == nil {
		pages = []store.Page{}
	}
	return s.put(ctx, PagesKey(uploadID), pages)
}

func (s *jsonStore) LoadPages(ctx context.Context, uploadID string) ([]store.Page, error) {
	if err := ValidateID(uploadID); err != nil {
		return nil, err
	}
	data, err := s.backend.Get(ctx, PagesKey(uploadID))
	if err != nil {
		return nil, fmt.Errorf("extracted pages for %s: %w", uploadID, err)
	}

	var raw []struct {
		Page *int    `json:"page"`
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: extracted pages: expected a list: %v", ErrInvalidArtifact, err)
	}

	pages := make([]store.Page, 0, len(raw))
	for i, p := range raw {
		if p.Page == nil || p.Text == nil {
			return nil, fmt.Errorf("%w: page object at index %d: expected keys 'page' and 'text'",
				ErrInvalidArtifact, i)
		}
		pages = append(pages, store.Page{Page: *p.Page, Text: *p.Text})
	}
	return pages, nil
}

func (s *jsonStore) SaveMetrics(ctx context.Context, artifact *store.MetricsArtifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("%w: metrics artifact is nil", ErrInvalidArtifact)
	}
	if err := ValidateID(artifact.UploadID); err != nil {
		return "", err
	}
	return s.put(ctx, MetricsKey(artifact.UploadID), artifact)
}

func (s *jsonStore) LoadMetrics(ctx context.Context, uploadID string) (*store.MetricsArtifact, error) {
	if err := ValidateID(uploadID); err != nil {
		return nil, err
	}
	data, err := s.backend.Get(ctx, MetricsKey(uploadID))
	if err != nil {
		return nil, fmt.Errorf("metrics for %s: %w", uploadID, err)
	}

	var artifact store.MetricsArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: metrics: expected an object: %v", ErrInvalidArtifact, err)
	}
	if artifact.Metrics == nil {
		artifact.Metrics = map[string]any{}
	}
	return &artifact, nil
}

func (s *jsonStore) SaveVariance(
	ctx context.Context,
	baseUploadID, compareUploadID string,
	payload any,
) (string, error) {
	if err := validatePair(baseUploadID, compareUploadID); err != nil {
		return "", err
	}
	return s.put(ctx, VarianceKey(baseUploadID, compareUploadID), payload)
}

func (s *jsonStore) LoadVariance(ctx context.Context, baseUploadID, compareUploadID string) (json.RawMessage, error) {
	if err := validatePair(baseUploadID, compareUploadID); err != nil {
		return nil, err
	}
	data, err := s.backend.Get(ctx, VarianceKey(baseUploadID, compareUploadID))
	if err != nil {
		return nil, fmt.Errorf("variance %s vs %s: %w", baseUploadID, compareUploadID, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: variance %s vs %s", ErrInvalidArtifact, baseUploadID, compareUploadID)
	}
	return data, nil
}

func (s *jsonStore) put(ctx context.Context, key string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", key, err)
	}
	location, err := s.backend.Put(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return location, nil
}

func validatePair(baseUploadID, compareUploadID string) error {
	if err := ValidateID(baseUploadID); err != nil {
		return err
	}
	return ValidateID(compareUploadID)
}
