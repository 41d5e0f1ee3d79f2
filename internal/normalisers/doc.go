// Package normalisers provides implementations of the Normaliser interface
// for the supported document formats. Each normaliser knows how to extract
// plain text from a specific MIME type.
//
// Normalisers are registered with the Registry at startup; the registry
// dispatches on MIME type and priority.
package normalisers
