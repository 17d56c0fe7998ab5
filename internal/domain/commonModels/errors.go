package commonModels

import "errors"

// Failure classes surfaced to callers. Everything upstream (OCR,
// embeddings, LLM) is an external service, so the taxonomy stays small.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtraction        = errors.New("text extraction failed")
	ErrEmbedding         = errors.New("embedding service failed")
	ErrUpstreamApi       = errors.New("upstream model API failed")
	ErrDocumentLimit     = errors.New("document limit reached")
)
