package db

import (
	"strconv"

	"github.com/chatrag/chatrag/conversation"
)

// ConversationModel is the persisted cross-turn record of one helpdesk
// conversation, keyed by the conversation id. The clarification counter and
// handover flag must survive across HTTP calls, so every turn reads this
// document before running and writes it back after.
type ConversationModel struct {
	ID                    string                 `bson:"_id"`
	ClarificationCount    int                    `bson:"clarificationCount"`
	HandoverToHumanNeeded bool                   `bson:"handoverToHumanNeeded"`
	MessageHistory        []conversation.Message `bson:"messageHistory"`
	UpdatedOn             int64                  `bson:"updatedOn"`
}

func (m ConversationModel) Id() string { return m.ID }

func (m ConversationModel) CollectionName() string { return "conversations" }

// ConversationKey converts a numeric conversation id into the document key.
func ConversationKey(conversationID int64) string {
	return strconv.FormatInt(conversationID, 10)
}
