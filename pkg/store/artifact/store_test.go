package artifact

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir   string
	store Store
}

func setupFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	require.NoError(t, err)
	s, err := NewStore(backend)
	require.NoError(t, err)
	return &fixture{dir: dir, store: s}
}

func TestNewStore(t *testing.T) {
	t.Run("nil backend", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("empty dir", func(t *testing.T) {
		b, err := NewFileBackend("")
		assert.Error(t, err)
		assert.Nil(t, b)
	})
}

func TestStore_Pages(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	pages := []store.Page{{Page: 1, Text: "Net income 10"}, {Page: 2, Text: "Total assets 20"}}
	location, err := f.store.SavePages(ctx, "q1", pages)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "extracted", "q1.json"), location)

	got, err := f.store.LoadPages(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, pages, got)
}

func TestStore_LoadPages_Errors(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, err := f.store.LoadPages(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("not a list", func(t *testing.T) {
		writeRaw(t, f.dir, PagesKey("obj"), `{"page": 1}`)
		_, err := f.store.LoadPages(ctx, "obj")
		assert.ErrorIs(t, err, ErrInvalidArtifact)
	})

	t.Run("missing text", func(t *testing.T) {
		writeRaw(t, f.dir, PagesKey("partial"), `[{"page": 1, "text": "a"}, {"page": 2}]`)
		_, err := f.store.LoadPages(ctx, "partial")
		assert.ErrorIs(t, err, ErrInvalidArtifact)
		assert.Contains(t, err.Error(), "index 1")
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := f.store.LoadPages(ctx, "../etc")
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestStore_Metrics(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	artifact := &store.MetricsArtifact{
		UploadID: "q2",
		Metrics:  map[string]any{"net_income": 120.0, "revenue": "1,000", "gross_profit": nil},
		Evidence: map[string]*store.Evidence{"net_income": {Page: 3, Snippet: "Net income 120"}},
	}
	_, err := f.store.SaveMetrics(ctx, artifact)
	require.NoError(t, err)

	got, err := f.store.LoadMetrics(ctx, "q2")
	require.NoError(t, err)
	assert.Equal(t, "q2", got.UploadID)
	assert.Equal(t, 120.0, got.Metrics["net_income"])
	assert.Equal(t, "1,000", got.Metrics["revenue"])
	assert.Nil(t, got.Metrics["gross_profit"])
	assert.Equal(t, 3, got.Evidence["net_income"].Page)

	_, err = f.store.LoadMetrics(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.store.SaveMetrics(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestStore_Variance(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	location, err := f.store.SaveVariance(ctx, "base1", "comp1", map[string]any{"net_income_change": -80})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "variance", "base1__vs__comp1.json"), location)

	raw, err := f.store.LoadVariance(ctx, "base1", "comp1")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, -80.0, decoded["net_income_change"])

	_, err = f.store.SaveVariance(ctx, "base1", "a/b", nil)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("10q-2024-q3"))
	assert.ErrorIs(t, ValidateID(""), ErrInvalidID)
	assert.ErrorIs(t, ValidateID("  "), ErrInvalidID)
	assert.ErrorIs(t, ValidateID("a/b"), ErrInvalidID)
	assert.ErrorIs(t, ValidateID(`a\b`), ErrInvalidID)
	assert.ErrorIs(t, ValidateID(".."), ErrInvalidID)
}

func writeRaw(t *testing.T, dir, key, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}
