package memory

import (
	"context"
	"sync"

	"github.com/chatrag/chatrag/conversation"
)

// InMemoryStore keeps conversation records in a process-local map. Backs
// tests and single-node local runs; production uses MongoStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[int64]conversation.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[int64]conversation.Record),
	}
}

func (s *InMemoryStore) Load(_ context.Context, conversationID int64) (conversation.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[conversationID]
	if !ok {
		return conversation.Record{}, false, nil
	}

	return copyRecord(record), true, nil
}

func (s *InMemoryStore) Save(_ context.Context, conversationID int64, record conversation.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[conversationID] = copyRecord(record)
	return nil
}

// copyRecord detaches the history slice so callers cannot alias stored state.
func copyRecord(record conversation.Record) conversation.Record {
	history := make([]conversation.Message, len(record.MessageHistory))
	copy(history, record.MessageHistory)
	record.MessageHistory = history
	return record
}
