// Package services contains the core business logic implementing the
// driving ports: ingestion, index consistency, retrieval, answer
// synthesis, enrichment orchestration, document management and feedback.
//
// Services depend only on domain types and driven port interfaces, never
// on concrete adapters.
package services
