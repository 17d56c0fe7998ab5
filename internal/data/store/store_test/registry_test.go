package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/data/redisStore"
	"github.com/akolanti/DocQueryAPI/internal/data/store"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRegistry(t *testing.T, maxDocs int64) commonModels.DocumentRegistry {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestDocumentRegistry(redisStore.NewTestStore(client), maxDocs)
}

func TestRedisDocumentRegistry_Lifecycle(t *testing.T) {
	registry := newTestRegistry(t, 10)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "registry-trace")

	doc := commonModels.Document{
		Id:          "doc-1",
		Name:        "handbook.pdf",
		SizeBytes:   2048,
		ContentType: commonModels.PDF,
	}

	t.Run("Register and Get", func(t *testing.T) {
		if err := registry.TryRegister(ctx, doc); err != nil {
			t.Fatalf("TryRegister failed: %v", err)
		}

		got, found := registry.GetDocument(ctx, "doc-1")
		if !found {
			t.Fatal("Document was registered but not found")
		}
		if got.Name != doc.Name || got.ContentType != commonModels.PDF {
			t.Errorf("Data mismatch! Got %+v", got)
		}
	})

	t.Run("Get Non-Existent Document", func(t *testing.T) {
		_, found := registry.GetDocument(ctx, "ghost-doc")
		if found {
			t.Error("Expected found=false for non-existent document")
		}
	})

	t.Run("List and Count", func(t *testing.T) {
		docs, err := registry.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 1 {
			t.Errorf("Expected 1 document, got %d", len(docs))
		}

		count, err := registry.DocumentCount(ctx)
		if err != nil || count != 1 {
			t.Errorf("Count got %d (err %v), want 1", count, err)
		}
	})
}

func TestRedisDocumentRegistry_EnforcesLimit(t *testing.T) {
	const limit = 3
	registry := newTestRegistry(t, limit)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "limit-trace")

	for i := 0; i < limit; i++ {
		doc := commonModels.Document{Id: fmt.Sprintf("doc-%d", i), Name: "f.txt"}
		if err := registry.TryRegister(ctx, doc); err != nil {
			t.Fatalf("TryRegister %d failed below the limit: %v", i, err)
		}
	}

	err := registry.TryRegister(ctx, commonModels.Document{Id: "doc-over", Name: "over.txt"})
	if !errors.Is(err, commonModels.ErrDocumentLimit) {
		t.Errorf("Expected ErrDocumentLimit at capacity, got %v", err)
	}

	// The rejected document must not appear in the registry
	if _, found := registry.GetDocument(ctx, "doc-over"); found {
		t.Error("Rejected document leaked into the registry")
	}
}

func TestRedisDocumentRegistry_ConcurrentRegisters(t *testing.T) {
	const limit = 3
	const attempts = 10
	registry := newTestRegistry(t, limit)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "concurrent-trace")

	var wg sync.WaitGroup
	var rejected int64
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := commonModels.Document{Id: fmt.Sprintf("doc-%d", i), Name: "f.txt"}
			switch err := registry.TryRegister(ctx, doc); {
			case errors.Is(err, commonModels.ErrDocumentLimit):
				atomic.AddInt64(&rejected, 1)
			case err != nil:
				t.Errorf("Unexpected register error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	count, err := registry.DocumentCount(ctx)
	if err != nil {
		t.Fatalf("DocumentCount failed: %v", err)
	}
	if count != limit {
		t.Errorf("Registered %d documents, want exactly %d", count, limit)
	}
	if rejected != attempts-limit {
		t.Errorf("Rejected %d registrations, want %d", rejected, attempts-limit)
	}
}

func TestRedisDocumentRegistry_ReRegisterAtCapacity(t *testing.T) {
	registry := newTestRegistry(t, 1)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "reregister-trace")

	doc := commonModels.Document{Id: "doc-1", Name: "v1.txt"}
	if err := registry.TryRegister(ctx, doc); err != nil {
		t.Fatalf("TryRegister failed: %v", err)
	}

	// Overwriting an existing entry does not count against the cap
	doc.Name = "v2.txt"
	if err := registry.TryRegister(ctx, doc); err != nil {
		t.Fatalf("Re-registering an existing document at capacity failed: %v", err)
	}

	got, found := registry.GetDocument(ctx, "doc-1")
	if !found || got.Name != "v2.txt" {
		t.Errorf("Document not updated, got %+v (found %v)", got, found)
	}
}
