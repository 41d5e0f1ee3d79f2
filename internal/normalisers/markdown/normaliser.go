// Package markdown extracts plain text from Markdown documents. Formatting
// markers are stripped so embeddings are not polluted with syntax noise.
package markdown

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, higher than plaintext
}

// Normalise converts a markdown document to a normalised document with
// formatting simplified to plain text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := stripMarkdown(string(raw.Content))

	doc := domain.Document{
		ID:        uuid.New().String(),
		Filename:  raw.Filename,
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "markdown"

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

var (
	reFencedCode   = regexp.MustCompile("(?s)```[^`]*```")
	reInlineCode   = regexp.MustCompile("`([^`]+)`")
	reImage        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	reLink         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reHeading      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reBlockquote   = regexp.MustCompile(`(?m)^>\s*`)
	reHorizRule    = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	reListMarker   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	reOrderedList  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	reEmphasis     = regexp.MustCompile(`(\*\*|__|\*)`)
	reBlankStretch = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common markdown formatting. Inline code and link
// text survive as plain words; fenced code blocks are dropped entirely.
func stripMarkdown(content string) string {
	content = reFencedCode.ReplaceAllString(content, "")
	content = reInlineCode.ReplaceAllString(content, "$1")
	content = reImage.ReplaceAllString(content, "")
	content = reLink.ReplaceAllString(content, "$1")
	content = reHeading.ReplaceAllString(content, "")
	content = reBlockquote.ReplaceAllString(content, "")
	content = reHorizRule.ReplaceAllString(content, "")
	content = reListMarker.ReplaceAllString(content, "")
	content = reOrderedList.ReplaceAllString(content, "")
	content = reEmphasis.ReplaceAllString(content, "")
	content = reBlankStretch.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
