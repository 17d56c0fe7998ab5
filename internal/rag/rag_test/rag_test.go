package rag_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
	"github.com/akolanti/DocQueryAPI/internal/rag"
	"github.com/akolanti/DocQueryAPI/internal/rag/llm"
)

func TestProcessRequest_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedStep   jobModel.InternalStatus
		expectedStatus jobModel.JobStatus
		expectedAnswer string
		expectedErr    string
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, emb []float32) (string, bool, error) {
					return "", false, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []commonModels.RetrievedChunk, h []string) (llm.Answer, error) {
					return llm.Answer{Text: "final answer"}, nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: "final answer",
		},
		{
			name: "Success_Cache_Hit",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, emb []float32) (string, bool, error) {
					return "cached answer", true, nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: "cached answer",
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "EMBEDDING_FAILURE",
		},
		{
			name: "Failure_Vector_Search",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, emb []float32) (string, bool, error) {
					return "", false, nil
				}
				v.OnSearch = func(ctx context.Context, v []float32, topK uint64) ([]commonModels.RetrievedChunk, error) {
					return nil, errors.New("db timeout")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "VECTOR_DB_FAILURE",
		},
		{
			name: "Failure_LLM_Generation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, emb []float32) (string, bool, error) {
					return "", false, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []commonModels.RetrievedChunk, h []string) (llm.Answer, error) {
					return llm.Answer{}, errors.New("provider down")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "LLM_GENERATION_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := rag.NewService(mVec, mLLM, mEmbed, nil, &MockRegistry{})

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			job := jobModel.Job{
				Id: "test-job",
				JobPayload: jobModel.JobPayload{
					Question: "test question",
				},
			}

			result := s.ProcessRequest(ctx, job, []string{})

			if result.Status != tt.expectedStatus {
				t.Errorf("Step got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedAnswer != "" && result.JobPayload.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %s, want %s", result.JobPayload.Answer, tt.expectedAnswer)
			}

			if tt.expectedErr != "" && result.Error.Code != http.StatusInternalServerError {
				t.Errorf("Error Code got %d, want %s", result.Error.Code, tt.expectedErr)
			}
		})
	}
}

func TestProcessRequest_NoMatches(t *testing.T) {
	mVec := &MockVectorDB{
		OnSearch: func(ctx context.Context, v []float32, topK uint64) ([]commonModels.RetrievedChunk, error) {
			return nil, nil
		},
	}
	mLLM := &MockLLM{
		OnGenerate: func(ctx context.Context, q string, m []commonModels.RetrievedChunk, h []string) (llm.Answer, error) {
			t.Error("LLM should not be called when retrieval is empty")
			return llm.Answer{}, nil
		},
	}

	s := rag.NewService(mVec, mLLM, &MockEmbedder{}, nil, &MockRegistry{})
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	result := s.ProcessRequest(ctx, jobModel.Job{Id: "j1", JobPayload: jobModel.JobPayload{Question: "anything"}}, nil)

	if result.JobPayload.Answer != config.NoResultsAnswer {
		t.Errorf("Answer got %q, want the no-results answer", result.JobPayload.Answer)
	}
	if len(result.JobPayload.Citations) != 0 {
		t.Errorf("Expected zero citations, got %d", len(result.JobPayload.Citations))
	}
	if result.CurrentStep != jobModel.Complete {
		t.Errorf("Step got %v, want %v", result.CurrentStep, jobModel.Complete)
	}
}

func TestProcessRequest_CitationsFollowAnswerReferences(t *testing.T) {
	retrieved := []commonModels.RetrievedChunk{
		{Citation: commonModels.Citation{DocumentId: "doc-1", DocumentName: "a.pdf", Page: 1, ChunkOrder: 0, ChunkId: "c1"}, Content: "alpha"},
		{Citation: commonModels.Citation{DocumentId: "doc-2", DocumentName: "b.pdf", Page: 3, ChunkOrder: 1, ChunkId: "c2"}, Content: "beta"},
		{Citation: commonModels.Citation{DocumentId: "doc-3", DocumentName: "c.pdf", Page: 2, ChunkOrder: 0, ChunkId: "c3"}, Content: "gamma"},
	}

	mVec := &MockVectorDB{
		OnSearch: func(ctx context.Context, v []float32, topK uint64) ([]commonModels.RetrievedChunk, error) {
			return retrieved, nil
		},
	}
	mLLM := &MockLLM{
		OnGenerate: func(ctx context.Context, q string, m []commonModels.RetrievedChunk, h []string) (llm.Answer, error) {
			return llm.Answer{Text: "The figure appears in [2].", Themes: []string{"finance"}}, nil
		},
	}

	s := rag.NewService(mVec, mLLM, &MockEmbedder{}, nil, &MockRegistry{})
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	result := s.ProcessRequest(ctx, jobModel.Job{Id: "j2", JobPayload: jobModel.JobPayload{Question: "where is the figure"}}, nil)

	if len(result.JobPayload.Citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(result.JobPayload.Citations))
	}
	if result.JobPayload.Citations[0].ChunkId != "c2" {
		t.Errorf("Citation got %s, want c2", result.JobPayload.Citations[0].ChunkId)
	}
	if len(result.JobPayload.Themes) != 1 || result.JobPayload.Themes[0] != "finance" {
		t.Errorf("Themes not carried through: %v", result.JobPayload.Themes)
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	dummyFile := "test_ingest.txt"
	os.WriteFile(dummyFile, []byte("test content for ingestion"), 0644)
	defer os.Remove(dummyFile)
	defer os.RemoveAll(config.ProcessedTextDirName)

	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB)
		expectedStatus jobModel.JobStatus
		expectedErr    string
	}{
		{
			name: "Ingestion_Success",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnCreateCollection = func(ctx context.Context, name string) error {
					return nil
				}
				v.OnUpsertBatch = func(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error {
					return nil
				}
				e.OnBatchEmbedding = func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
					return make([][]float32, len(chunks)), nil
				}
			},
			expectedStatus: jobModel.JobStatusComplete,
		},
		{
			name: "Failure_Collection_Creation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnCreateCollection = func(ctx context.Context, name string) error {
					return errors.New("connection refused")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "INGESTION_FAILURE",
		},
		{
			name: "Failure_Batch_Upsert",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnCreateCollection = func(ctx context.Context, name string) error {
					return nil
				}
				e.OnBatchEmbedding = func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
					return make([][]float32, len(chunks)), nil
				}
				v.OnUpsertBatch = func(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error {
					return errors.New("disk full")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "INGESTION_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}

			tt.setupMocks(mEmbed, mVec)

			s := rag.NewService(mVec, &MockLLM{}, mEmbed, nil, &MockRegistry{})

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "ingest-trace")
			job := jobModel.Job{
				Id: "ingest-job-1",
				JobPayload: jobModel.JobPayload{
					IngestDocId:    "ingest-doc-1",
					IngestFileName: "test_ingest.txt",
					IngestURL:      dummyFile,
				},
			}

			// Re-create file if deleted by previous successful test run
			if _, err := os.Stat(dummyFile); os.IsNotExist(err) {
				os.WriteFile(dummyFile, []byte("test content"), 0644)
			}

			result := s.IngestDocument(ctx, job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedErr != "" && result.Error.Code != http.StatusInternalServerError {
				t.Errorf("Error Code got %d, want %s", result.Error.Code, tt.expectedErr)
			}

			if tt.expectedStatus == jobModel.JobStatusComplete && result.JobPayload.ChunksIndexed == 0 {
				t.Error("Expected a nonzero chunk count on successful ingest")
			}
		})
	}
}

func TestProcessRequest_CacheSaveFailureKeepsResult(t *testing.T) {
	saved := make(chan string, 1)
	mVec := &MockVectorDB{
		OnSaveToCache: func(ctx context.Context, id string, v []float32, answer string) error {
			saved <- answer
			return errors.New("cache write refused")
		},
	}
	mLLM := &MockLLM{
		OnGenerate: func(ctx context.Context, q string, m []commonModels.RetrievedChunk, h []string) (llm.Answer, error) {
			return llm.Answer{Text: "final answer"}, nil
		},
	}

	s := rag.NewService(mVec, mLLM, &MockEmbedder{}, nil, &MockRegistry{})
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "cache-trace")

	result := s.ProcessRequest(ctx, jobModel.Job{Id: "j-cache", JobPayload: jobModel.JobPayload{Question: "q"}}, nil)

	// The save runs in the background and its failure stays there
	select {
	case answer := <-saved:
		if answer != "final answer" {
			t.Errorf("Cached answer got %q, want %q", answer, "final answer")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SaveToCache was never called")
	}

	if result.CurrentStep != jobModel.Complete {
		t.Errorf("Step got %v, want %v", result.CurrentStep, jobModel.Complete)
	}
	if result.JobPayload.Answer != "final answer" {
		t.Errorf("Answer got %q, want %q", result.JobPayload.Answer, "final answer")
	}
	if result.Status == jobModel.JobStatusError {
		t.Error("Background cache failure must not fail the job")
	}
}
