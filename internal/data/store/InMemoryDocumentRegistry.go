package store

import (
	"context"
	"sync"

	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
)

type InMemoryDocumentRegistry struct {
	docLock *sync.RWMutex
	docMap  map[string]commonModels.Document
	maxDocs int64
}

func InitInMemoryDocumentRegistry(maxDocs int64) *InMemoryDocumentRegistry {
	return &InMemoryDocumentRegistry{
		docLock: new(sync.RWMutex),
		docMap:  make(map[string]commonModels.Document),
		maxDocs: maxDocs,
	}
}

func (r *InMemoryDocumentRegistry) TryRegister(ctx context.Context, doc commonModels.Document) error {
	r.docLock.Lock()
	defer r.docLock.Unlock()
	if int64(len(r.docMap)) >= r.maxDocs {
		return commonModels.ErrDocumentLimit
	}
	r.docMap[doc.Id] = doc
	inMemLogger.Debug("Registered document", "docId", doc.Id)
	return nil
}

func (r *InMemoryDocumentRegistry) GetDocument(ctx context.Context, docId string) (commonModels.Document, bool) {
	r.docLock.RLock()
	defer r.docLock.RUnlock()
	doc, ok := r.docMap[docId]
	return doc, ok
}

func (r *InMemoryDocumentRegistry) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	r.docLock.RLock()
	defer r.docLock.RUnlock()
	docs := make([]commonModels.Document, 0, len(r.docMap))
	for _, doc := range r.docMap {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *InMemoryDocumentRegistry) DocumentCount(ctx context.Context) (int64, error) {
	r.docLock.RLock()
	defer r.docLock.RUnlock()
	return int64(len(r.docMap)), nil
}
