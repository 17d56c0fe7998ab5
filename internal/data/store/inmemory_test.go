package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
)

func TestInMemoryDocumentRegistry_Limit(t *testing.T) {
	registry := InitInMemoryDocumentRegistry(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		doc := commonModels.Document{Id: fmt.Sprintf("doc-%d", i)}
		if err := registry.TryRegister(ctx, doc); err != nil {
			t.Fatalf("TryRegister below limit failed: %v", err)
		}
	}

	err := registry.TryRegister(ctx, commonModels.Document{Id: "doc-extra"})
	if !errors.Is(err, commonModels.ErrDocumentLimit) {
		t.Errorf("Expected ErrDocumentLimit, got %v", err)
	}

	count, _ := registry.DocumentCount(ctx)
	if count != 2 {
		t.Errorf("Count got %d, want 2", count)
	}
}

func TestInMemoryDocumentRegistry_ReRegisterSameId(t *testing.T) {
	registry := InitInMemoryDocumentRegistry(1)
	ctx := context.Background()

	doc := commonModels.Document{Id: "doc-1", Name: "first.pdf"}
	if err := registry.TryRegister(ctx, doc); err != nil {
		t.Fatal(err)
	}

	// Same id at capacity still counts as a new registration attempt
	err := registry.TryRegister(ctx, commonModels.Document{Id: "doc-1", Name: "second.pdf"})
	if !errors.Is(err, commonModels.ErrDocumentLimit) {
		t.Errorf("Expected ErrDocumentLimit, got %v", err)
	}
}

func TestInMemoryMessageStore_History(t *testing.T) {
	store := InitMessageStore()
	ctx := context.Background()
	chatId := "chat-1"

	if err := store.InitNewChat(ctx, chatId); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 7; i++ {
		payload := jobModel.JobPayload{
			Question: fmt.Sprintf("question %d", i),
			Answer:   fmt.Sprintf("answer %d", i),
		}
		if err := store.TrySaveChat(ctx, chatId, payload); err != nil {
			t.Fatal(err)
		}
	}

	err, history := store.GetMessageHistory(ctx, chatId)
	if err != nil {
		t.Fatalf("GetMessageHistory failed: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("Expected history capped at 5 turns, got %d", len(history))
	}

	// Newest first
	var newest jobModel.JobPayload
	if err := json.Unmarshal([]byte(history[0]), &newest); err != nil {
		t.Fatalf("History entry is not valid JSON: %v", err)
	}
	if newest.Question != "question 6" {
		t.Errorf("Newest turn got %q, want question 6", newest.Question)
	}
}

func TestInMemoryMessageStore_UnknownChatDropsSave(t *testing.T) {
	store := InitMessageStore()
	ctx := context.Background()

	if err := store.TrySaveChat(ctx, "never-initialized", jobModel.JobPayload{Question: "q"}); err != nil {
		t.Fatalf("TrySaveChat should not error for unknown chat: %v", err)
	}

	_, history := store.GetMessageHistory(ctx, "never-initialized")
	if len(history) != 0 {
		t.Errorf("Expected no history for unknown chat, got %d entries", len(history))
	}
}
