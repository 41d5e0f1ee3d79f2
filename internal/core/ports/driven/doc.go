// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): storage, vector index, embedding and
// generation services, and configuration.
package driven
