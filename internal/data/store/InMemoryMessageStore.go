package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
)

type InMemoryMessageStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]jobModel.JobPayload
}

func InitMessageStore() *InMemoryMessageStore {
	return &InMemoryMessageStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]jobModel.JobPayload),
	}
}

func (store *InMemoryMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemoryMessageStore) saveChatId(id string, conversation jobModel.JobPayload) {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = append(store.chatMap[id], conversation)
	inMemLogger.Debug("Saved convo to chat message store", "chatId", id)
}

func (store *InMemoryMessageStore) TrySaveChat(ctx context.Context, id string, conversation jobModel.JobPayload) error {
	if store.ValidateChatId(ctx, id) == false {
		return nil
	}
	store.saveChatId(id, conversation)
	return nil
}

func (store *InMemoryMessageStore) InitNewChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = make([]jobModel.JobPayload, 0)
	return nil
}

// GetMessageHistory returns up to the 5 most recent turns, newest first,
// in the same JSON form the Redis store keeps.
func (store *InMemoryMessageStore) GetMessageHistory(ctx context.Context, chatId string) (error, []string) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()

	turns := store.chatMap[chatId]
	start := 0
	if len(turns) > 5 {
		start = len(turns) - 5
	}

	var history []string
	for i := len(turns) - 1; i >= start; i-- {
		data, err := json.Marshal(turns[i])
		if err != nil {
			continue
		}
		history = append(history, string(data))
	}
	return nil, history
}
