package chunking

import (
	"fmt"
	"maps"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

const (
	DefaultMaxTokens     = 700
	DefaultOverlapTokens = 120

	// SourceFilingPDF tags chunks cut from an extracted quarterly filing.
	SourceFilingPDF = "10q_pdf"
)

type Options struct {
	MaxTokens     int
	OverlapTokens int
	Meta          map[string]string
}

func DefaultMeta() map[string]string {
	return map[string]string{"source": SourceFilingPDF}
}

func DefaultOptions() Options {
	return Options{
		MaxTokens:     DefaultMaxTokens,
		OverlapTokens: DefaultOverlapTokens,
		Meta:          DefaultMeta(),
	}
}

// ChunkPages packs page texts into chunks of at most MaxTokens words. A page
// that would overflow the current chunk starts a new one, and the last
// OverlapTokens words of every chunk are carried into the next.
func ChunkPages(uploadID string, pages []domain.Page, opts Options) []domain.Chunk {
	c := &chunker{uploadID: uploadID, opts: opts}

	for _, p := range pages {
		text := strings.TrimSpace(p.Text)
		if !c.started {
			c.startPage = p.Number
			c.started = true
		}

		tokens := countTokens(text)
		if c.tokens+tokens > opts.MaxTokens && len(c.parts) > 0 {
			c.flush(p.Number)
		}

		c.parts = append(c.parts, text)
		c.tokens += tokens
	}

	if c.started {
		c.flush(pages[len(pages)-1].Number)
	}
	return c.chunks
}

type chunker struct {
	uploadID  string
	opts      Options
	chunks    []domain.Chunk
	parts     []string
	tokens    int
	startPage int
	started   bool
}

func (c *chunker) flush(endPage int) {
	if len(c.parts) == 0 {
		return
	}

	text := strings.TrimSpace(strings.Join(c.parts, "\n"))
	c.chunks = append(c.chunks, domain.Chunk{
		ID:         fmt.Sprintf("%s::chunk::%d", c.uploadID, len(c.chunks)),
		UploadID:   c.uploadID,
		PageStart:  c.startPage,
		PageEnd:    endPage,
		TokenCount: countTokens(text),
		Text:       text,
		Meta:       maps.Clone(c.opts.Meta),
	})

	c.parts, c.tokens = nil, 0
	if c.opts.OverlapTokens > 0 {
		words := strings.Fields(text)
		if len(words) > c.opts.OverlapTokens {
			words = words[len(words)-c.opts.OverlapTokens:]
		}
		if len(words) > 0 {
			keep := strings.Join(words, " ")
			c.parts = []string{keep}
			c.tokens = countTokens(keep)
		}
	}
	// the overlap belongs to the page that forced the flush
	c.startPage = endPage
}

func countTokens(text string) int {
	return max(1, len(strings.Fields(text)))
}
