package domain

import (
	"strings"
	"time"
)

// EnrichmentState is a stage of the enrichment state machine.
// The happy path is Idle → Candidate → Deduping → Generating → Ingesting
// → Done; Failed is reachable from any non-terminal state.
type EnrichmentState string

const (
	EnrichmentIdle       EnrichmentState = "idle"
	EnrichmentCandidate  EnrichmentState = "candidate"
	EnrichmentDeduping   EnrichmentState = "deduping"
	EnrichmentGenerating EnrichmentState = "generating"
	EnrichmentIngesting  EnrichmentState = "ingesting"
	EnrichmentDone       EnrichmentState = "done"
	EnrichmentFailed     EnrichmentState = "failed"
)

// Terminal reports whether the state machine has finished.
func (s EnrichmentState) Terminal() bool {
	return s == EnrichmentDone || s == EnrichmentFailed
}

// EnrichmentRecord is the immutable ledger entry written after a
// successful enrichment. It exists solely so the orchestrator can refuse
// to re-enrich the same gap.
type EnrichmentRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// TriggerQuery is the query whose answer exposed the gap.
	TriggerQuery string

	// TopicSummary is a short description of the gap that was filled.
	TopicSummary string

	// GeneratedDocumentID is the auto-enriched document that was created.
	GeneratedDocumentID string

	// TopicEmbedding is the embedding of the trigger query, kept for
	// semantic dedup of later near-identical gaps.
	TopicEmbedding []float32

	// GeneratedAt is when the enrichment completed.
	GeneratedAt time.Time
}

// NormaliseQuery canonicalises a query for exact-match dedup: lowercase,
// collapsed whitespace, trailing punctuation removed. "What is X?" and
// "what is x" normalise identically.
func NormaliseQuery(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	q = strings.Join(strings.Fields(q), " ")
	return strings.TrimRight(q, "?!. ")
}

// EnrichmentOutcome is the result of one pass through the state machine.
type EnrichmentOutcome struct {
	// NoOp is true when dedup short-circuited: the gap was already
	// addressed and nothing was ingested.
	NoOp bool

	// Record is the ledger entry; for a NoOp it is the earlier record
	// that caused the short-circuit.
	Record *EnrichmentRecord

	// ChunksAdded is the number of chunks the new document produced.
	ChunksAdded int
}
