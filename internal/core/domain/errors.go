package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown file or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Ingest errors.

	// ErrDocumentUnreadable indicates text extraction failed. This is a
	// property of the document, not of the index.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrNoChunks indicates a non-empty document produced zero chunks,
	// leaving nothing to index. Distinct from a transient failure.
	ErrNoChunks = errors.New("document produced no chunks")

	// Retrieval errors.

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrDimensionMismatch indicates a vector whose dimension differs
	// from the dimension the index was initialised with. Mixing vectors
	// from different embedding models in one index is never valid.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// SynthesisErrorKind tags the failure mode of answer synthesis.
type SynthesisErrorKind string

const (
	// SynthesisTimeout indicates the generation call exceeded its deadline.
	SynthesisTimeout SynthesisErrorKind = "timeout"

	// SynthesisMalformedOutput indicates the model returned output that
	// failed structured validation.
	SynthesisMalformedOutput SynthesisErrorKind = "malformed_output"

	// SynthesisRateLimited indicates the provider rejected the call.
	SynthesisRateLimited SynthesisErrorKind = "rate_limited"

	// SynthesisUpstream indicates any other provider-side failure.
	SynthesisUpstream SynthesisErrorKind = "upstream"
)

// SynthesisError is a typed generation failure. It is surfaced to the
// caller rather than being downgraded to a fabricated low-confidence
// answer; retry policy belongs to the caller.
type SynthesisError struct {
	Kind SynthesisErrorKind
	Err  error
}

func (e *SynthesisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("synthesis failed: %s", e.Kind)
	}
	return fmt.Sprintf("synthesis failed (%s): %v", e.Kind, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// NewSynthesisError wraps err with a synthesis failure kind.
func NewSynthesisError(kind SynthesisErrorKind, err error) *SynthesisError {
	return &SynthesisError{Kind: kind, Err: err}
}

// EnrichmentError reports which state the enrichment machine failed in.
// A failed enrichment leaves the index exactly as before the attempt.
type EnrichmentError struct {
	State EnrichmentState
	Err   error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment failed in state %s: %v", e.State, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// ConsistencyError indicates an upsert or delete could not be applied
// atomically. The index layer retries these to completion; if retries
// exhaust, the document is quarantined rather than silently dropped.
type ConsistencyError struct {
	DocumentID string
	Op         string
	Err        error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("index consistency: %s %s: %v", e.Op, e.DocumentID, e.Err)
}

func (e *ConsistencyError) Unwrap() error { return e.Err }
