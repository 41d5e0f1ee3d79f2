// Package driving provides interfaces the core exposes to external
// actors (primary/inbound ports): ingestion, querying, enrichment,
// document management and feedback.
package driving
