package conversation

import "strings"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAgent Role = "AGENT"
)

// Message is a single entry in a conversation. Immutable once created; owned
// by the ConversationState message list.
type Message struct {
	Role    Role   `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// HistoryMessage is the lowercase-role shape handed to the generator.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (m Message) toHistoryMessage() HistoryMessage {
	return HistoryMessage{
		Role:    strings.ToLower(string(m.Role)),
		Content: m.Content,
	}
}
