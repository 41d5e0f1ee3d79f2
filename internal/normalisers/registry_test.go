package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

// stubNormaliser is a minimal normaliser for registry dispatch tests.
type stubNormaliser struct {
	mimeTypes []string
	priority  int
	name      string
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.mimeTypes }
func (s *stubNormaliser) Priority() int                { return s.priority }

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{
		Document: domain.Document{
			Filename: raw.Filename,
			Content:  s.name,
		},
	}, nil
}

func TestRegistry_DispatchesByMIMEType(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, name: "plain"})
	r.Register(&stubNormaliser{mimeTypes: []string{"application/pdf"}, priority: 50, name: "pdf"})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{
		Filename: "a.pdf",
		MIMEType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, "pdf", result.Document.Content)
}

func TestRegistry_HigherPriorityWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, name: "fallback"})
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 50, name: "specific"})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{
		Filename: "a.txt",
		MIMEType: "text/plain",
	})

	require.NoError(t, err)
	assert.Equal(t, "specific", result.Document.Content)
}

func TestRegistry_UnknownMIMEType(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, name: "plain"})

	_, err := r.Normalise(context.Background(), &domain.RawDocument{
		Filename: "a.xyz",
		MIMEType: "application/x-unknown",
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_NilInput(t *testing.T) {
	_, err := NewRegistry().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes_SortedAndDeduplicated(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain", "text/csv"}, priority: 5})
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 50})

	assert.Equal(t, []string{"text/csv", "text/plain"}, r.SupportedMIMETypes())
}
