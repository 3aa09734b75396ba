package api

import (
	"errors"
	"fmt"

	"github.com/chatrag/chatrag/conversation"
)

type messagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type conversationRequest struct {
	ConversationID int64            `json:"conversationId"`
	ProjectName    string           `json:"projectName"`
	Messages       []messagePayload `json:"messages"`
}

type sectionPayload struct {
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

type conversationResponse struct {
	Messages              []messagePayload `json:"messages"`
	MessageHistory        []messagePayload `json:"messageHistory"`
	HandoverToHumanNeeded bool             `json:"handoverToHumanNeeded"`
	SectionsRetrieved     []sectionPayload `json:"sectionsRetrieved"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (req *conversationRequest) validate() error {
	if req.ConversationID <= 0 {
		return errors.New("conversationId must be a positive integer")
	}
	if req.ProjectName == "" {
		return errors.New("projectName must not be empty")
	}
	if len(req.Messages) == 0 {
		return errors.New("messages must not be empty")
	}

	for i, msg := range req.Messages {
		if msg.Role != string(conversation.RoleUser) && msg.Role != string(conversation.RoleAgent) {
			return fmt.Errorf("messages[%d].role must be USER or AGENT", i)
		}
		if msg.Content == "" {
			return fmt.Errorf("messages[%d].content must not be empty", i)
		}
	}

	return nil
}

func (req *conversationRequest) toMessages() []conversation.Message {
	messages := make([]conversation.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, conversation.Message{
			Role:    conversation.Role(msg.Role),
			Content: msg.Content,
		})
	}

	return messages
}

func toConversationResponse(state *conversation.ConversationState) conversationResponse {
	return conversationResponse{
		Messages:              toMessagePayloads(state.Messages),
		MessageHistory:        toMessagePayloads(state.MessageHistory),
		HandoverToHumanNeeded: state.HandoverToHumanNeeded,
		SectionsRetrieved:     toSectionPayloads(state.SectionsRetrieved),
	}
}

func toMessagePayloads(messages []conversation.Message) []messagePayload {
	payloads := make([]messagePayload, 0, len(messages))
	for _, msg := range messages {
		payloads = append(payloads, messagePayload{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return payloads
}

func toSectionPayloads(sections []conversation.RetrievedSection) []sectionPayload {
	payloads := make([]sectionPayload, 0, len(sections))
	for _, section := range sections {
		payloads = append(payloads, sectionPayload{
			Score:   section.Score,
			Content: section.Content,
		})
	}

	return payloads
}
