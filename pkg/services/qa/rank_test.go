package qa

import (
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func chunkIDs(chunks []domain.Chunk) []string {
	ids := make([]string, 0, len(chunks))
	for _, c := range chunks {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestRankChunks(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "c0", Text: "Cover page of the quarterly report"},
		{ID: "c1", Text: "Net income was 200. Net income rose."},
		{ID: "c2", Text: "Net Income  was 150 for the prior period"},
		{ID: "c3", Text: "Total net sales were 1,000"},
	}

	tests := []struct {
		name     string
		keywords []string
		topK     int
		expected []string
	}{
		{name: "more hits rank first", keywords: []string{"net income"}, topK: 3, expected: []string{"c1", "c2"}},
		{name: "top k caps output", keywords: []string{"net income"}, topK: 1, expected: []string{"c1"}},
		{name: "several keywords", keywords: []string{"net sales", "net income"}, topK: 3, expected: []string{"c1", "c2", "c3"}},
		{name: "no match falls back to order", keywords: []string{"goodwill"}, topK: 2, expected: []string{"c0", "c1"}},
		{name: "no keywords", keywords: nil, topK: 2, expected: []string{"c0", "c1"}},
		{name: "top k larger than input", keywords: nil, topK: 10, expected: []string{"c0", "c1", "c2", "c3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, chunkIDs(RankChunks(chunks, tt.keywords, tt.topK)))
		})
	}
}

func TestRankChunks_EarlyMentionBreaksTies(t *testing.T) {
	late := make([]byte, 2000)
	for i := range late {
		late[i] = 'x'
	}
	chunks := []domain.Chunk{
		{ID: "late", Text: string(late) + " operating income"},
		{ID: "early", Text: "operating income " + string(late)},
	}

	assert.Equal(t, []string{"early", "late"}, chunkIDs(RankChunks(chunks, []string{"operating income"}, 2)))
}

func TestRankChunks_EqualScoresKeepOrder(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "a", Text: "net income"},
		{ID: "b", Text: "net income"},
		{ID: "c", Text: "net income"},
	}

	assert.Equal(t, []string{"a", "b", "c"}, chunkIDs(RankChunks(chunks, []string{"net income"}, 3)))
}

func TestScoreText_CountsCharactersNotBytes(t *testing.T) {
	ascii := scoreText("aaaaaaaaaa net income", []string{"net income"})
	curly := scoreText("’’’’’’’’’’ net income", []string{"net income"})

	assert.InDelta(t, ascii, curly, 1e-9)
	assert.InDelta(t, 10+5-11.0/500, ascii, 1e-9)
}
