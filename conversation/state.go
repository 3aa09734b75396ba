package conversation

import (
	"fmt"
	"strings"
)

// RetrievedSection is a scored passage returned by the retriever. A
// conversation keeps only the most recent retrieval batch.
type RetrievedSection struct {
	Score   float64 `json:"score" bson:"score"`
	Content string  `json:"content" bson:"content"`
}

// ConversationState is the aggregate for one helpdesk conversation.
//
// Messages holds the current turn's exchange (the caller-supplied messages
// plus the newly generated agent reply). MessageHistory accumulates across
// turns and, together with ClarificationCount and HandoverToHumanNeeded, is
// rehydrated from the keyed store before a turn runs and written back after.
type ConversationState struct {
	ConversationID        int64
	ProjectName           string
	Messages              []Message
	MessageHistory        []Message
	ClarificationCount    int
	HandoverToHumanNeeded bool
	SectionsRetrieved     []RetrievedSection
}

func New(conversationID int64, projectName string) *ConversationState {
	return &ConversationState{
		ConversationID: conversationID,
		ProjectName:    projectName,
	}
}

// AppendUserMessage appends a USER message to the turn's message list.
func (c *ConversationState) AppendUserMessage(content string) error {
	return c.appendMessage(RoleUser, content)
}

// AppendAgentMessage appends an AGENT message to the turn's message list.
func (c *ConversationState) AppendAgentMessage(content string) error {
	return c.appendMessage(RoleAgent, content)
}

func (c *ConversationState) appendMessage(role Role, content string) error {
	if content == "" {
		return fmt.Errorf("%w: empty %s message", ErrInvalidContent, strings.ToLower(string(role)))
	}

	c.Messages = append(c.Messages, Message{Role: role, Content: content})
	return nil
}

// RecordRetrievedSections replaces the current turn's retrieved sections.
func (c *ConversationState) RecordRetrievedSections(sections []RetrievedSection) {
	c.SectionsRetrieved = sections
}

// RecordTurnHistory appends this turn's exchange to the cross-turn history.
// Called once per turn.
func (c *ConversationState) RecordTurnHistory(messages []Message) {
	c.MessageHistory = append(c.MessageHistory, messages...)
}

// RecordClarification increments the clarification counter and flips the
// handover flag once the count strictly exceeds maxClarifications. Both
// fields are monotonic: nothing ever decrements the counter or resets the
// flag to false.
func (c *ConversationState) RecordClarification(maxClarifications int) {
	c.ClarificationCount++
	if c.ClarificationCount > maxClarifications {
		c.HandoverToHumanNeeded = true
	}
}

// History returns the turn's message list as lowercase role/content pairs in
// insertion order.
func (c *ConversationState) History() []HistoryMessage {
	history := make([]HistoryMessage, 0, len(c.Messages))
	for _, msg := range c.Messages {
		history = append(history, msg.toHistoryMessage())
	}

	return history
}
