package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/markdown")
	assert.Contains(t, mimeTypes, "text/x-markdown")
}

func TestNormalise_StripsFormatting(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "notes.md",
		MIMEType: "text/markdown",
		Content: []byte(`# Title

Some **bold** and *italic* text with [a link](https://example.com).

- first item
- second item

> a quote
`),
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	content := result.Document.Content
	assert.Contains(t, content, "Title")
	assert.Contains(t, content, "Some bold and italic text with a link.")
	assert.Contains(t, content, "first item")
	assert.Contains(t, content, "a quote")
	assert.NotContains(t, content, "**")
	assert.NotContains(t, content, "](")
	assert.NotContains(t, content, "- ")
	assert.NotContains(t, content, "> ")
}

func TestNormalise_DropsCodeBlocks(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "readme.md",
		MIMEType: "text/markdown",
		Content:  []byte("Intro text.\n\n```\nfunc secret() {}\n```\n\nOutro text."),
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Contains(t, result.Document.Content, "Intro text.")
	assert.Contains(t, result.Document.Content, "Outro text.")
	assert.NotContains(t, result.Document.Content, "secret")
}

func TestNormalise_KeepsInlineCodeText(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "doc.md",
		MIMEType: "text/markdown",
		Content:  []byte("Run `make build` to compile."),
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "Run make build to compile.", result.Document.Content)
}

func TestNormalise_SetsMetadata(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "notes.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Hello"),
		Metadata: map[string]any{"origin": "upload"},
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "notes.md", result.Document.Filename)
	assert.Equal(t, "markdown", result.Document.Metadata["format"])
	assert.Equal(t, "upload", result.Document.Metadata["origin"])

	// Input metadata must not be mutated.
	assert.NotContains(t, raw.Metadata, "format")
}

func TestNormalise_NilInput(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
