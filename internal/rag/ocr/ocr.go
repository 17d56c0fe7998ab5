package ocr

import (
	"context"
)

// ImageReader turns image bytes into plain text. Implementations call an
// external vision model, so failures surface as ErrExtraction upstream.
type ImageReader interface {
	ReadImage(ctx context.Context, data []byte, mimeType string) (string, error)
}
