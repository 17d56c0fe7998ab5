package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/data/redisStore"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
)

const registryHashKey = "documents"

// RedisDocumentRegistry keeps one hash entry per registered document.
// The MAX_DOCUMENTS cap is enforced server-side so concurrent uploads
// cannot slip past it.
type RedisDocumentRegistry struct {
	store   *redisStore.Store
	maxDocs int64
	logger  *logger_i.Logger
}

func GetRedisDocumentRegistry(ctx context.Context) *RedisDocumentRegistry {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocRegistry)
	if inner == nil {
		return nil
	}
	return &RedisDocumentRegistry{
		store:   inner,
		maxDocs: config.MaxDocuments(),
		logger:  logger_i.NewLogger("DocumentRegistry"),
	}
}

func (r *RedisDocumentRegistry) TryRegister(ctx context.Context, doc commonModels.Document) error {
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc Id", doc.Id)

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	ok, err := r.store.HashSetCapped(ctx, registryHashKey, doc.Id, data, r.maxDocs)
	if err != nil {
		log.Error("Failed to register document", "err", err)
		return err
	}
	if !ok {
		log.Warn("Document limit reached", "limit", r.maxDocs)
		return commonModels.ErrDocumentLimit
	}
	log.Debug("Registered document", "name", doc.Name)
	return nil
}

func (r *RedisDocumentRegistry) GetDocument(ctx context.Context, docId string) (commonModels.Document, bool) {
	var doc commonModels.Document
	val, err := r.store.HashGet(ctx, registryHashKey, docId)
	if err != nil {
		return doc, false
	}
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return doc, false
	}
	return doc, true
}

func (r *RedisDocumentRegistry) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	all, err := r.store.HashGetAll(ctx, registryHashKey)
	if err != nil {
		return nil, err
	}
	docs := make([]commonModels.Document, 0, len(all))
	for _, raw := range all {
		var doc commonModels.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			r.logger.Error("Corrupt registry entry", "err", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *RedisDocumentRegistry) DocumentCount(ctx context.Context) (int64, error) {
	return r.store.HashLen(ctx, registryHashKey)
}

func TestDocumentRegistry(store *redisStore.Store, maxDocs int64) *RedisDocumentRegistry {
	return &RedisDocumentRegistry{
		store:   store,
		maxDocs: maxDocs,
		logger:  logger_i.NewLogger("test registry"),
	}
}
