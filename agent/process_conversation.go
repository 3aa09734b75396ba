package agent

import (
	"context"
	"fmt"

	"github.com/chatrag/chatrag/conversation"
)

// ProcessConversationUseCase is the single entry point external callers use
// to advance a helpdesk conversation. It validates the incoming message
// list, replays it into a fresh aggregate and delegates to the orchestrator.
type ProcessConversationUseCase struct {
	orchestrator *Orchestrator
}

func NewProcessConversationUseCase(orchestrator *Orchestrator) *ProcessConversationUseCase {
	return &ProcessConversationUseCase{orchestrator: orchestrator}
}

func (uc *ProcessConversationUseCase) Process(ctx context.Context, conversationID int64, projectName string, messages []conversation.Message) (*conversation.ConversationState, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: the conversation must have at least one message", conversation.ErrInvalidMessage)
	}

	if messages[len(messages)-1].Role != conversation.RoleUser {
		return nil, fmt.Errorf("%w: the last message must be from the user", conversation.ErrInvalidMessage)
	}

	state, err := buildConversationState(conversationID, projectName, messages)
	if err != nil {
		return nil, err
	}

	if err := uc.orchestrator.ProcessTurn(ctx, state); err != nil {
		return nil, err
	}

	return state, nil
}

// buildConversationState replays the caller-supplied messages through the
// aggregate's append methods, preserving role fidelity.
func buildConversationState(conversationID int64, projectName string, messages []conversation.Message) (*conversation.ConversationState, error) {
	state := conversation.New(conversationID, projectName)

	for _, msg := range messages {
		var err error
		switch msg.Role {
		case conversation.RoleUser:
			err = state.AppendUserMessage(msg.Content)
		case conversation.RoleAgent:
			err = state.AppendAgentMessage(msg.Content)
		default:
			err = fmt.Errorf("%w: unknown role %q", conversation.ErrInvalidMessage, msg.Role)
		}
		if err != nil {
			return nil, err
		}
	}

	return state, nil
}
