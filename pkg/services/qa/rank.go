package qa

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

const (
	keywordHitScore = 10.0
	earlyBonusMax   = 5.0
	earlyBonusSpan  = 500.0
)

// RankChunks orders chunks by keyword relevance and returns at most topK of
// them. Every occurrence of a keyword scores 10, and a keyword near the start
// of a chunk earns up to 5 more. Equal scores keep chunk order. With no
// keywords, or when nothing matches, the first topK chunks are returned.
func RankChunks(chunks []domain.Chunk, keywords []string, topK int) []domain.Chunk {
	topK = max(topK, 0)
	if len(keywords) == 0 {
		return chunks[:min(topK, len(chunks))]
	}

	kws := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = normalize(k); k != "" {
			kws = append(kws, k)
		}
	}

	type scored struct {
		score float64
		chunk domain.Chunk
	}
	var hits []scored
	for _, c := range chunks {
		if s := scoreText(normalize(c.Text), kws); s > 0 {
			hits = append(hits, scored{score: s, chunk: c})
		}
	}
	if len(hits) == 0 {
		return chunks[:min(topK, len(chunks))]
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]domain.Chunk, 0, min(topK, len(hits)))
	for _, h := range hits[:min(topK, len(hits))] {
		out = append(out, h.chunk)
	}
	return out
}

func scoreText(text string, keywords []string) float64 {
	var score float64
	for _, kw := range keywords {
		count := strings.Count(text, kw)
		if count == 0 {
			continue
		}
		score += float64(count) * keywordHitScore
		first := utf8.RuneCountInString(text[:strings.Index(text, kw)])
		score += max(0, earlyBonusMax-float64(first)/earlyBonusSpan)
	}
	return score
}
