package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
	"github.com/akolanti/DocQueryAPI/internal/rag/llm"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
)

type failingEmbedder struct{}

func (failingEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, errors.New("api limit")
}

func (failingEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	return nil, errors.New("api limit")
}

type failingProvider struct{}

func (failingProvider) Generate(ctx context.Context, q string, m []commonModels.RetrievedChunk, h []string) (llm.Answer, error) {
	return llm.Answer{}, errors.New("provider down")
}

// Step failures carry their failure class so callers can tell an
// embedding outage from a model outage.
func TestStepErrorsCarryFailureClass(t *testing.T) {
	s := &service{
		embedder:    failingEmbedder{},
		llmProvider: failingProvider{},
		logger:      logger_i.NewLogger("step-test"),
	}
	log := logger_i.NewLogger("step-test")
	job := jobModel.Job{Id: "j1"}

	_, err := s.executeEmbeddingStep(context.Background(), log, &job)
	if !errors.Is(err, commonModels.ErrEmbedding) {
		t.Errorf("Embedding step error got %v, want wrapped ErrEmbedding", err)
	}

	_, err = s.executeLLMStep(context.Background(), log, &job, nil, nil)
	if !errors.Is(err, commonModels.ErrUpstreamApi) {
		t.Errorf("LLM step error got %v, want wrapped ErrUpstreamApi", err)
	}
}
