package rag

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/DocQueryAPI/internal/adapter/utils"
	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
	"github.com/akolanti/DocQueryAPI/internal/metrics"
	"github.com/akolanti/DocQueryAPI/internal/rag/embedding"
	"github.com/akolanti/DocQueryAPI/internal/rag/ingest"
	"github.com/akolanti/DocQueryAPI/internal/rag/llm"
	"github.com/akolanti/DocQueryAPI/internal/rag/ocr"
	"github.com/akolanti/DocQueryAPI/internal/rag/vectorDB"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - Real work happens down low bruh
  - This is the PUBLIC contract.
  - It defines the "behavior" (what the worker can do).
  - We expose this to keep the worker decoupled from our specific logic.

2. service (Private Struct):
  - down low stuff
  - This is the PRIVATE implementation.
  - It holds the "state" (database connections and LLM clients).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies (vectorDB, llmProvider) directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.
  - if it quacks like a duck, -it's a duck (Duck Typing)

4. Dependency Injection (NewService):
  - This constructor links the private struct to the public interface.
  - It allows us to swap real DBs for mocks during testing without
    changing the worker's code.
*/

// Service Worker will only call this service - it doesn't need to know the llm or the vector
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job, messageHistory []string) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	imageReader ocr.ImageReader
	registry    commonModels.DocumentRegistry
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llm llm.Provider, em embedding.Embedder, reader ocr.ImageReader, registry commonModels.DocumentRegistry) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		imageReader: reader,
		registry:    registry,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job, messageHistory []string) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	jobt.CurrentStep = jobModel.RAGCall

	// Embedding
	embeddingStep, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", true)
	}

	// Cache Check
	cachedAnswer, found := s.executeCacheCheckStep(ctx, inMethodLogger, &jobt, embeddingStep)
	if found {
		return returnOutput(jobt, llm.Answer{Text: cachedAnswer}, nil)
	}

	// Vector DB Search
	matches, err := s.executeVectorSearchStep(processContext, inMethodLogger, &jobt, embeddingStep)
	if err != nil {
		return s.jobError(jobt, err, "VECTOR_DB_FAILURE", true)
	}

	// Nothing indexed yet, or the question missed everything. Answer
	// without calling the model so we never invent citations.
	if len(matches) == 0 {
		inMethodLogger.Debug("ProcessRequest", "Current Status", "no matches")
		return returnOutput(jobt, llm.Answer{Text: config.NoResultsAnswer}, nil)
	}

	// LLM Generation
	answer, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, matches, messageHistory)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", true)
	}

	//Background Cache Save
	go func() {
		if cacheErr := s.vectorDB.SaveToCache(ctx, utils.GetNewUUID(), embeddingStep, answer.Text); cacheErr != nil {
			s.logger.Error("Failed to save to cache", "error", cacheErr)
		}
	}()

	return returnOutput(jobt, answer, citedChunks(answer.Text, matches))
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Document_ingestion", time.Since(start)) }()
	j := ingest.ProcessDocumentIngestion(ctx, job, s.embedder, s.vectorDB, s.registry, s.imageReader)
	if j.Status != jobModel.JobStatusComplete {
		return s.jobError(j, errors.New("ingest Document Failed"), "INGESTION_FAILURE", true)
	}
	return j
}
