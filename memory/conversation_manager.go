package memory

import (
	"context"
	"sync"

	"github.com/chatrag/chatrag/conversation"
)

// ConversationManager guards cross-turn conversation state: keyed load/save
// through a Store plus per-conversation locking so concurrent turns on the
// same conversation cannot lose counter updates. Turns on distinct
// conversations proceed independently.
type ConversationManager struct {
	store conversation.Store

	mu    sync.Mutex
	locks map[int64]*conversationLock
}

// conversationLock is reference-counted so the manager can evict map entries
// once the last holder releases them.
type conversationLock struct {
	sync.Mutex
	refs int
}

// NewConversationManager creates a new conversation manager
func NewConversationManager(store conversation.Store) *ConversationManager {
	return &ConversationManager{
		store: store,
		locks: make(map[int64]*conversationLock),
	}
}

// LockConversation acquires the lock serializing turns for one conversation
// and returns the matching unlock function.
func (cm *ConversationManager) LockConversation(conversationID int64) func() {
	cm.mu.Lock()
	lock, ok := cm.locks[conversationID]
	if !ok {
		lock = &conversationLock{}
		cm.locks[conversationID] = lock
	}
	lock.refs++
	cm.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()

		cm.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(cm.locks, conversationID)
		}
		cm.mu.Unlock()
	}
}

// LoadState loads the persisted cross-turn record for a conversation. A
// missing record yields an empty record with found=false; a store failure is
// propagated so the turn aborts instead of silently restarting the
// conversation from zero.
func (cm *ConversationManager) LoadState(ctx context.Context, conversationID int64) (conversation.Record, bool, error) {
	if cm.store == nil {
		return conversation.Record{}, false, nil
	}

	return cm.store.Load(ctx, conversationID)
}

// SaveState writes the cross-turn record back under the conversation key.
func (cm *ConversationManager) SaveState(ctx context.Context, conversationID int64, record conversation.Record) error {
	if cm.store == nil {
		return nil
	}

	return cm.store.Save(ctx, conversationID, record)
}
