package rag

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
	"github.com/akolanti/DocQueryAPI/internal/metrics"
	"github.com/akolanti/DocQueryAPI/internal/rag/llm"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans llm.Answer, citations []commonModels.Citation) jobModel.Job {
	job.JobPayload.Answer = ans.Text
	job.JobPayload.Citations = citations
	job.JobPayload.Themes = ans.Themes
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

// citedChunks keeps only the citations the answer actually references
// by its [n] labels. A model that answered without labels still gets
// every retrieved chunk attached, so citations never point outside the
// retrieval set.
func citedChunks(answer string, matches []commonModels.RetrievedChunk) []commonModels.Citation {
	var cited []commonModels.Citation
	for i, m := range matches {
		if strings.Contains(answer, fmt.Sprintf("[%d]", i+1)) {
			cited = append(cited, m.Citation)
		}
	}
	if len(cited) > 0 {
		return cited
	}

	all := make([]commonModels.Citation, 0, len(matches))
	for _, m := range matches {
		all = append(all, m.Citation)
	}
	return all
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	emb, err := s.embedder.GetEmbedding(ctx, job.JobPayload.Question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", commonModels.ErrEmbedding, err)
	}
	return emb, nil
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32) (string, bool) {
	*job = logOutput(*job, jobModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	ans, found, _ := s.vectorDB.GetCachedAnswer(ctx, emb)
	return ans, found
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32) ([]commonModels.RetrievedChunk, error) {
	*job = logOutput(*job, jobModel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.vectorDB.Search(ctx, emb, config.RetrievalTopK)
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, matches []commonModels.RetrievedChunk, history []string) (llm.Answer, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	ans, err := s.llmProvider.Generate(ctx, job.JobPayload.Question, matches, history)
	if err != nil {
		return llm.Answer{}, fmt.Errorf("%w: %v", commonModels.ErrUpstreamApi, err)
	}
	return ans, nil
}
