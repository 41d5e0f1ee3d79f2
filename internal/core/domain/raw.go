package domain

// RawDocument represents opaque bytes supplied by a document source
// before text extraction.
type RawDocument struct {
	// Filename is the declared original filename.
	Filename string

	// MIMEType is the declared content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains source-specific key-value pairs.
	Metadata map[string]any
}
