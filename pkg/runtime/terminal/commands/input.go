package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/metrics"
	"gopkg.in/yaml.v3"
)

// readSnapshot loads a metrics file. Both a stored artifact ({"metrics": {...}})
// and a bare name to value object are accepted, as JSON or YAML.
func readSnapshot(path string) (domain.MetricSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file: %w", err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("metrics file %s: expected a YAML mapping: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("metrics file %s: expected a JSON object: %w", path, err)
		}
	}
	if nested, ok := raw["metrics"].(map[string]any); ok {
		raw = nested
	}
	return metrics.SnapshotFromRaw(raw), nil
}

func readPages(path string) ([]domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages file: %w", err)
	}

	var pages []api.Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("pages file %s: expected a JSON array of {page, text} objects: %w", path, err)
	}
	return adapters.MapApiPagesToDomain(pages), nil
}

// idFromPath names a period after its file, e.g. "metrics/fy23.json" -> "fy23".
func idFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
