package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected map[string]float64
		missing  []string
	}{
		{
			name:     "artifact json",
			file:     "fy23.json",
			content:  `{"upload_id": "fy23", "metrics": {"net_income": 93736, "revenue": "383,285", "total_assets": null}}`,
			expected: map[string]float64{"net_income": 93736, "revenue": 383285},
			missing:  []string{"total_assets"},
		},
		{
			name:     "bare json",
			file:     "fy24.json",
			content:  `{"net_income": 12.5, "gross_profit": true}`,
			expected: map[string]float64{"net_income": 12.5},
			missing:  []string{"gross_profit"},
		},
		{
			name:     "yaml artifact",
			file:     "fy25.yaml",
			content:  "metrics:\n  net_income: 120\n  operating_income: \"1,200.50\"\n  revenue: ~\n",
			expected: map[string]float64{"net_income": 120, "operating_income": 1200.5},
			missing:  []string{"revenue"},
		},
		{
			name:     "bare yml",
			file:     "fy26.yml",
			content:  "net_income: -3\n",
			expected: map[string]float64{"net_income": -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			snap, err := readSnapshot(path)
			require.NoError(t, err)

			for name, want := range tt.expected {
				got, ok := snap.Get(name)
				require.True(t, ok, name)
				assert.Equal(t, want, got, name)
			}
			for _, name := range tt.missing {
				_, ok := snap.Get(name)
				assert.False(t, ok, name)
			}
		})
	}
}

func TestReadSnapshot_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- 1\n- 2\n"), 0o644))

	_, err := readSnapshot(path)
	assert.ErrorContains(t, err, "expected a YAML mapping")
}

func TestReadPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"page": 2, "text": "Net income 5"}]`), 0o644))

	pages, err := readPages(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Page{{Number: 2, Text: "Net income 5"}}, pages)
}

func TestIDFromPath(t *testing.T) {
	assert.Equal(t, "fy23", idFromPath("metrics/fy23.json"))
	assert.Equal(t, "report.q1", idFromPath("/tmp/report.q1.yaml"))
	assert.Equal(t, "plain", idFromPath("plain"))
}
