package rag_test

import (
	"context"

	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/rag/llm"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnSearch           func(ctx context.Context, vectorVal []float32, topK uint64) ([]commonModels.RetrievedChunk, error)
	OnGetCachedAnswer  func(ctx context.Context, queryVector []float32) (string, bool, error)
	OnSaveToCache      func(ctx context.Context, id string, vector []float32, answer string) error
	OnCreateCollection func(ctx context.Context, name string) error
	OnUpsertBatch      func(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error
}

func (m *MockVectorDB) Search(ctx context.Context, v []float32, topK uint64) ([]commonModels.RetrievedChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, v, topK)
	}
	return []commonModels.RetrievedChunk{
		{
			Citation: commonModels.Citation{DocumentId: "doc-1", DocumentName: "doc.pdf", Page: 1, ChunkOrder: 0, ChunkId: "chunk-1"},
			Content:  "default context",
			Score:    0.9,
		},
	}, nil
}

func (m *MockVectorDB) GetCachedAnswer(ctx context.Context, v []float32) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, v)
	}
	return "", false, nil
}

func (m *MockVectorDB) SaveToCache(ctx context.Context, id string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, id, v, a)
	}
	return nil
}

func (m *MockVectorDB) CreateCollection(ctx context.Context, name string) error {
	if m.OnCreateCollection != nil {
		return m.OnCreateCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, chunks, vectors)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks, isHuge)
	}
	// Return dummy vectors matching chunk size
	return make([][]float32, len(chunks)), nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, query string, matches []commonModels.RetrievedChunk, history []string) (llm.Answer, error)
}

func (m *MockLLM) Generate(ctx context.Context, q string, mth []commonModels.RetrievedChunk, hist []string) (llm.Answer, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, q, mth, hist)
	}
	return llm.Answer{Text: "mocked llm response"}, nil
}

// MockRegistry implements commonModels.DocumentRegistry
type MockRegistry struct {
	OnTryRegister func(ctx context.Context, doc commonModels.Document) error
	OnGetDocument func(ctx context.Context, docId string) (commonModels.Document, bool)
	Docs          []commonModels.Document
}

func (m *MockRegistry) TryRegister(ctx context.Context, doc commonModels.Document) error {
	if m.OnTryRegister != nil {
		return m.OnTryRegister(ctx, doc)
	}
	m.Docs = append(m.Docs, doc)
	return nil
}

func (m *MockRegistry) GetDocument(ctx context.Context, docId string) (commonModels.Document, bool) {
	if m.OnGetDocument != nil {
		return m.OnGetDocument(ctx, docId)
	}
	for _, d := range m.Docs {
		if d.Id == docId {
			return d, true
		}
	}
	return commonModels.Document{}, false
}

func (m *MockRegistry) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	return m.Docs, nil
}

func (m *MockRegistry) DocumentCount(ctx context.Context) (int64, error) {
	return int64(len(m.Docs)), nil
}
