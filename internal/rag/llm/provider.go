package llm

import (
	"context"

	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
)

// Answer is the synthesized model output: the answer text plus the
// short cross-document theme list the model identified.
type Answer struct {
	Text   string
	Themes []string
}

type Provider interface {
	Generate(ctx context.Context, query string, matches []commonModels.RetrievedChunk, messageHistory []string) (Answer, error)
}
