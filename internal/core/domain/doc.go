// Package domain contains the core business entities and rules for the
// knowledge base: documents, chunks, answers, enrichment records and the
// domain error taxonomy. It has no dependencies on adapters or frameworks.
package domain
