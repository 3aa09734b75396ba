package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/chatrag/chatrag/conversation"
	"github.com/chatrag/chatrag/memory"
	"go.uber.org/zap"
)

// retrievalK is the retrieval fan-out per turn.
const retrievalK = 5

// Orchestrator advances a conversation by exactly one turn: retrieve
// context for the last user message, generate a reply, account for
// clarifications. The pass is linear with no back-edges; a collaborator
// failure aborts the turn before any cross-turn state is written.
type Orchestrator struct {
	retriever         conversation.Retriever
	generator         conversation.Generator
	sessions          *memory.ConversationManager
	maxClarifications int
}

func NewOrchestrator(retriever conversation.Retriever, generator conversation.Generator, sessions *memory.ConversationManager, maxClarifications int) *Orchestrator {
	return &Orchestrator{
		retriever:         retriever,
		generator:         generator,
		sessions:          sessions,
		maxClarifications: maxClarifications,
	}
}

// turnFlow carries the intermediate outputs of one pass. Steps chain and
// short-circuit on the first error.
type turnFlow struct {
	orc   *Orchestrator
	state *conversation.ConversationState

	err     error
	query   string
	context string
	result  conversation.GenerationResult
}

// ProcessTurn runs the turn for the last (user) message in state. Cross-turn
// counters are rehydrated from the keyed store before the pass and committed
// after it; turns on the same conversation are serialized.
func (o *Orchestrator) ProcessTurn(ctx context.Context, state *conversation.ConversationState) error {
	unlock := o.sessions.LockConversation(state.ConversationID)
	defer unlock()

	record, found, err := o.sessions.LoadState(ctx, state.ConversationID)
	if err != nil {
		return err
	}
	if found {
		state.ClarificationCount = record.ClarificationCount
		state.HandoverToHumanNeeded = record.HandoverToHumanNeeded
		state.MessageHistory = record.MessageHistory
	}

	t := &turnFlow{orc: o, state: state}
	t.retrieveContext(ctx).generateResponse(ctx).accountClarification()
	if t.err != nil {
		return t.err
	}

	return o.sessions.SaveState(ctx, state.ConversationID, conversation.Record{
		ClarificationCount:    state.ClarificationCount,
		HandoverToHumanNeeded: state.HandoverToHumanNeeded,
		MessageHistory:        state.MessageHistory,
	})
}

func (t *turnFlow) retrieveContext(ctx context.Context) *turnFlow {
	if t.err != nil {
		return t
	}

	last := t.state.Messages[len(t.state.Messages)-1]
	t.query = last.Content

	sections, err := t.orc.retriever.Search(ctx, t.query, retrievalK, t.state.ProjectName)
	if err != nil {
		t.err = err
		return t
	}

	t.state.RecordRetrievedSections(sections)
	t.context = FormatContext(sections)
	return t
}

func (t *turnFlow) generateResponse(ctx context.Context) *turnFlow {
	if t.err != nil {
		return t
	}

	// The message being answered is not part of the history.
	history := t.state.History()
	history = history[:len(history)-1]

	result, err := t.orc.generator.Respond(ctx, conversation.GenerationRequest{
		UserMessage:        t.query,
		Context:            t.context,
		History:            history,
		ClarificationsUsed: t.state.ClarificationCount,
		ClarificationsMax:  t.orc.maxClarifications,
	})
	if err != nil {
		t.err = err
		return t
	}

	t.result = result
	return t
}

func (t *turnFlow) accountClarification() *turnFlow {
	if t.err != nil {
		return t
	}

	if t.result.IsClarification {
		t.state.RecordClarification(t.orc.maxClarifications)
		if t.state.HandoverToHumanNeeded {
			logger.Info("Clarification budget exhausted, conversation marked for handover",
				zap.Int64("conversationId", t.state.ConversationID),
				zap.Int("clarificationCount", t.state.ClarificationCount))
		}
	}

	if err := t.state.AppendAgentMessage(t.result.Text); err != nil {
		t.err = err
		return t
	}

	t.state.RecordTurnHistory([]conversation.Message{
		{Role: conversation.RoleUser, Content: t.query},
		{Role: conversation.RoleAgent, Content: t.result.Text},
	})

	return t
}

// FormatContext renders retrieved sections into the grounding block handed
// to the generator: one "[Score: <score>]\n<content>" block per section,
// blank line separated, retriever order preserved.
func FormatContext(sections []conversation.RetrievedSection) string {
	blocks := make([]string, 0, len(sections))
	for _, section := range sections {
		blocks = append(blocks, fmt.Sprintf("[Score: %.4f]\n%s", section.Score, section.Content))
	}

	return strings.Join(blocks, "\n\n")
}
