package domain

// SourceType records how a document entered the knowledge base.
type SourceType string

const (
	// SourceOriginal marks a document uploaded by the user.
	SourceOriginal SourceType = "original"

	// SourceAutoEnriched marks a document synthesised by the enrichment loop.
	SourceAutoEnriched SourceType = "auto-enriched"
)

// Valid reports whether the source type is a known value.
func (t SourceType) Valid() bool {
	return t == SourceOriginal || t == SourceAutoEnriched
}
