package chunking

import (
	"strings"
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(prefix string, n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = prefix
	}
	return strings.Join(w, " ")
}

func TestChunkPages_SingleChunk(t *testing.T) {
	chunks := ChunkPages("u1", []domain.Page{
		{Number: 1, Text: "  revenue grew  "},
		{Number: 2, Text: "net income fell"},
	}, Options{MaxTokens: 100, OverlapTokens: 10, Meta: map[string]string{"source": "pdf"}})

	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.Equal(t, "u1::chunk::0", c.ID)
	assert.Equal(t, "u1", c.UploadID)
	assert.Equal(t, 1, c.PageStart)
	assert.Equal(t, 2, c.PageEnd)
	assert.Equal(t, 5, c.TokenCount)
	assert.Equal(t, "revenue grew\nnet income fell", c.Text)
	assert.Equal(t, "pdf", c.Meta["source"])
}

func TestChunkPages_SplitsWithOverlap(t *testing.T) {
	pages := []domain.Page{
		{Number: 1, Text: words("a", 6)},
		{Number: 2, Text: words("b", 6)},
		{Number: 3, Text: words("c", 6)},
	}

	chunks := ChunkPages("doc", pages, Options{MaxTokens: 10, OverlapTokens: 2})

	require.Len(t, chunks, 3)

	assert.Equal(t, words("a", 6), chunks[0].Text)
	assert.Equal(t, 1, chunks[0].PageStart)
	assert.Equal(t, 2, chunks[0].PageEnd)

	assert.Equal(t, "a a\n"+words("b", 6), chunks[1].Text)
	assert.Equal(t, 8, chunks[1].TokenCount)
	assert.Equal(t, 2, chunks[1].PageStart)
	assert.Equal(t, 3, chunks[1].PageEnd)

	assert.Equal(t, "b b\n"+words("c", 6), chunks[2].Text)
	assert.Equal(t, "doc::chunk::2", chunks[2].ID)
	assert.Equal(t, 3, chunks[2].PageStart)
	assert.Equal(t, 3, chunks[2].PageEnd)
}

func TestChunkPages_NoOverlap(t *testing.T) {
	chunks := ChunkPages("doc", []domain.Page{
		{Number: 1, Text: words("a", 5)},
		{Number: 2, Text: words("b", 5)},
	}, Options{MaxTokens: 5})

	require.Len(t, chunks, 2)
	assert.Equal(t, words("b", 5), chunks[1].Text)
}

func TestChunkPages_Empty(t *testing.T) {
	assert.Empty(t, ChunkPages("doc", nil, DefaultOptions()))
}

func TestDefaultOptions_TagsFilingSource(t *testing.T) {
	opts := DefaultOptions()
	chunks := ChunkPages("q1", []domain.Page{{Number: 1, Text: "Net income 10"}}, opts)

	require.Len(t, chunks, 1)
	assert.Equal(t, map[string]string{"source": SourceFilingPDF}, chunks[0].Meta)

	chunks[0].Meta["source"] = "changed"
	assert.Equal(t, SourceFilingPDF, opts.Meta["source"])
}
