// Package chunker provides a recursive text chunking processor.
// Text is split by an ordered chain of boundary separators, coarsest
// first, so chunks keep semantic boundaries where possible.
package chunker

import (
	"context"
	"strings"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// separators is the boundary chain, tried coarsest first: paragraph,
// line, sentence, word, and finally raw characters.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Processor splits document content into bounded overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must leave room for new content in every chunk.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from
// document content. Empty or whitespace-only content produces no chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	texts := p.Chunk(doc.Content)
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:         domain.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Content:    text,
			Position:   i,
			Metadata:   make(map[string]any),
		}
	}

	return chunks, nil
}

// Chunk splits raw text into an ordered sequence of chunk texts.
// Every input character appears in at least one chunk, no chunk exceeds
// the configured size, and the output is deterministic for identical
// input and parameters.
func (p *Processor) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	segments := splitRecursive(text, p.chunkSize, separators)
	return p.merge(segments)
}

// splitRecursive splits text into segments no longer than maxSize,
// attempting the coarsest separator first and only falling back to a
// finer one for segments that still exceed maxSize. Separators stay
// attached to the preceding segment so no characters are lost.
func splitRecursive(text string, maxSize int, seps []string) []string {
	if len(text) <= maxSize {
		return []string{text}
	}

	sep := seps[0]

	// Character fallback: hard split into maxSize windows.
	if sep == "" {
		var out []string
		for start := 0; start < len(text); start += maxSize {
			end := start + maxSize
			if end > len(text) {
				end = len(text)
			}
			out = append(out, text[start:end])
		}
		return out
	}

	parts := strings.SplitAfter(text, sep)
	var out []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) <= maxSize {
			out = append(out, part)
			continue
		}
		out = append(out, splitRecursive(part, maxSize, seps[1:])...)
	}
	return out
}

// merge greedily packs segments into chunks up to chunkSize, carrying
// overlap characters of trailing context from the previous chunk.
func (p *Processor) merge(segments []string) []string {
	var chunks []string
	cur := ""  // current chunk, including any overlap seed
	seed := "" // the seed portion of cur (duplicated context, not new content)

	for _, seg := range segments {
		if cur != "" && len(cur)+len(seg) > p.chunkSize {
			if cur != seed {
				chunks = append(chunks, cur)
				seed = overlapTail(cur, p.overlap)
			}
			cur = seed
			if len(cur)+len(seg) > p.chunkSize {
				// The seed plus an oversized segment would break the
				// size bound; drop the seed for this chunk.
				cur, seed = "", ""
			}
		}
		cur += seg
	}

	// A remainder equal to the seed is pure duplicated context.
	if cur != "" && cur != seed {
		chunks = append(chunks, cur)
	}

	return chunks
}

// overlapTail returns the last overlap characters of s.
func overlapTail(s string, overlap int) string {
	if overlap <= 0 {
		return ""
	}
	if len(s) <= overlap {
		return s
	}
	return s[len(s)-overlap:]
}
