package domain

// MaxGapItems caps missing_info and suggestion lists on an Answer.
// Longer lists leak detail and bury the most actionable gap.
const MaxGapItems = 2

// QueryResult is a single retrieval hit. It is ephemeral, produced per
// query and never persisted.
type QueryResult struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's parent document.
	DocumentID string

	// Filename is the parent document's display filename.
	Filename string

	// Content is the chunk text used as evidence.
	Content string

	// Similarity is the cosine similarity score clamped to [0,1].
	// This value surfaces to users as "relevance".
	Similarity float64
}

// Answer is a grounded response to a query together with the
// synthesizer's self-assessment of its completeness.
type Answer struct {
	// Text is the answer, derived only from the supplied evidence.
	Text string

	// Confidence estimates evidence sufficiency in [0,1].
	// It is 0 when no evidence was retrieved.
	Confidence float64

	// MissingInfo lists up to MaxGapItems short generic categories of
	// information that would make the answer more complete, most
	// important first. Empty when the answer is complete.
	MissingInfo []string

	// Suggestions lists up to MaxGapItems concise enrichment
	// suggestions, most important first.
	Suggestions []string

	// Sources are the retrieval hits the answer was grounded on,
	// ordered by descending similarity.
	Sources []QueryResult
}

// HasGaps reports whether the synthesizer judged the evidence incomplete.
func (a Answer) HasGaps() bool {
	return len(a.MissingInfo) > 0
}

// CapGapItems truncates MissingInfo and Suggestions to MaxGapItems,
// preserving order (most important first).
func (a *Answer) CapGapItems() {
	if len(a.MissingInfo) > MaxGapItems {
		a.MissingInfo = a.MissingInfo[:MaxGapItems]
	}
	if len(a.Suggestions) > MaxGapItems {
		a.Suggestions = a.Suggestions[:MaxGapItems]
	}
}
