package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/chatrag/chatrag/conversation"
	"github.com/chatrag/chatrag/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	sections []conversation.RetrievedSection
	err      error

	lastQuery  string
	lastK      int
	lastFilter string
}

func (f *fakeRetriever) Search(ctx context.Context, query string, k int, projectFilter string) ([]conversation.RetrievedSection, error) {
	f.lastQuery = query
	f.lastK = k
	f.lastFilter = projectFilter
	if f.err != nil {
		return nil, f.err
	}
	return f.sections, nil
}

type fakeGenerator struct {
	result conversation.GenerationResult
	err    error

	lastReq conversation.GenerationRequest
}

func (f *fakeGenerator) Respond(ctx context.Context, req conversation.GenerationRequest) (conversation.GenerationResult, error) {
	f.lastReq = req
	if f.err != nil {
		return conversation.GenerationResult{}, f.err
	}
	return f.result, nil
}

func newTestOrchestrator(retriever conversation.Retriever, generator conversation.Generator, store conversation.Store) *Orchestrator {
	return NewOrchestrator(retriever, generator, memory.NewConversationManager(store), 2)
}

func userTurn(t *testing.T, id int64, content string) *conversation.ConversationState {
	t.Helper()
	state := conversation.New(id, "acme")
	require.NoError(t, state.AppendUserMessage(content))
	return state
}

func TestProcessTurn_AnswerTurn(t *testing.T) {
	retriever := &fakeRetriever{sections: []conversation.RetrievedSection{
		{Score: 0.91, Content: "Reset instructions live in settings."},
	}}
	generator := &fakeGenerator{result: conversation.GenerationResult{
		Text:            "Open settings and pick Reset.",
		IsClarification: false,
	}}
	store := memory.NewInMemoryStore()
	orc := newTestOrchestrator(retriever, generator, store)

	state := userTurn(t, 7, "How do I reset?")
	err := orc.ProcessTurn(context.Background(), state)

	require.NoError(t, err)
	assert.Equal(t, "How do I reset?", retriever.lastQuery)
	assert.Equal(t, 5, retriever.lastK)
	assert.Equal(t, "acme", retriever.lastFilter)

	assert.Equal(t, 0, state.ClarificationCount)
	assert.False(t, state.HandoverToHumanNeeded)
	require.Len(t, state.Messages, 2)
	assert.Equal(t, conversation.RoleAgent, state.Messages[1].Role)
	assert.Equal(t, "Open settings and pick Reset.", state.Messages[1].Content)
	assert.Len(t, state.SectionsRetrieved, 1)

	record, found, err := store.Load(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0, record.ClarificationCount)
	require.Len(t, record.MessageHistory, 2)
	assert.Equal(t, "How do I reset?", record.MessageHistory[0].Content)
	assert.Equal(t, "Open settings and pick Reset.", record.MessageHistory[1].Content)
}

func TestProcessTurn_EscalationAcrossTurns(t *testing.T) {
	retriever := &fakeRetriever{}
	generator := &fakeGenerator{result: conversation.GenerationResult{
		Text:            "Could you clarify what you mean?",
		IsClarification: true,
	}}
	store := memory.NewInMemoryStore()
	orc := newTestOrchestrator(retriever, generator, store)

	expectations := []struct {
		count    int
		handover bool
	}{
		{count: 1, handover: false},
		{count: 2, handover: false},
		{count: 3, handover: true},
	}

	for i, expected := range expectations {
		state := userTurn(t, 99, fmt.Sprintf("vague question %d", i))
		require.NoError(t, orc.ProcessTurn(context.Background(), state))

		assert.Equal(t, expected.count, state.ClarificationCount, "turn %d", i+1)
		assert.Equal(t, expected.handover, state.HandoverToHumanNeeded, "turn %d", i+1)
	}

	record, found, err := store.Load(context.Background(), 99)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, record.ClarificationCount)
	assert.True(t, record.HandoverToHumanNeeded)
	assert.Len(t, record.MessageHistory, 6)
}

func TestProcessTurn_HistoryExcludesCurrentMessage(t *testing.T) {
	retriever := &fakeRetriever{}
	generator := &fakeGenerator{result: conversation.GenerationResult{Text: "Done."}}
	orc := newTestOrchestrator(retriever, generator, memory.NewInMemoryStore())

	state := conversation.New(3, "acme")
	require.NoError(t, state.AppendUserMessage("first question"))
	require.NoError(t, state.AppendAgentMessage("first answer"))
	require.NoError(t, state.AppendUserMessage("follow-up"))

	require.NoError(t, orc.ProcessTurn(context.Background(), state))

	expected := []conversation.HistoryMessage{
		{Role: "user", Content: "first question"},
		{Role: "agent", Content: "first answer"},
	}
	assert.Equal(t, expected, generator.lastReq.History)
	assert.Equal(t, "follow-up", generator.lastReq.UserMessage)
}

func TestProcessTurn_EmptyRetrieval(t *testing.T) {
	retriever := &fakeRetriever{sections: nil}
	generator := &fakeGenerator{result: conversation.GenerationResult{
		Text:            "Which product is this about?",
		IsClarification: true,
	}}
	orc := newTestOrchestrator(retriever, generator, memory.NewInMemoryStore())

	state := userTurn(t, 11, "something vague")
	err := orc.ProcessTurn(context.Background(), state)

	require.NoError(t, err)
	assert.Equal(t, "", generator.lastReq.Context)
	assert.Equal(t, 1, state.ClarificationCount)
}

func TestProcessTurn_RetrieverFailureAbortsTurn(t *testing.T) {
	retriever := &fakeRetriever{err: fmt.Errorf("%w: search index unavailable", conversation.ErrRetrieval)}
	generator := &fakeGenerator{result: conversation.GenerationResult{Text: "unused"}}
	store := memory.NewInMemoryStore()
	orc := newTestOrchestrator(retriever, generator, store)

	state := userTurn(t, 21, "anything")
	err := orc.ProcessTurn(context.Background(), state)

	assert.ErrorIs(t, err, conversation.ErrRetrieval)
	_, found, loadErr := store.Load(context.Background(), 21)
	require.NoError(t, loadErr)
	assert.False(t, found, "a failed turn must not persist state")
}

func TestProcessTurn_GeneratorFailureLeavesStoreUntouched(t *testing.T) {
	retriever := &fakeRetriever{}
	store := memory.NewInMemoryStore()
	require.NoError(t, store.Save(context.Background(), 33, conversation.Record{
		ClarificationCount: 1,
		MessageHistory: []conversation.Message{
			{Role: conversation.RoleUser, Content: "u1"},
			{Role: conversation.RoleAgent, Content: "a1?"},
		},
	}))

	generator := &fakeGenerator{err: fmt.Errorf("%w: backend timeout", conversation.ErrGeneration)}
	orc := newTestOrchestrator(retriever, generator, store)

	state := userTurn(t, 33, "retry me")
	err := orc.ProcessTurn(context.Background(), state)

	assert.ErrorIs(t, err, conversation.ErrGeneration)

	record, found, loadErr := store.Load(context.Background(), 33)
	require.NoError(t, loadErr)
	require.True(t, found)
	assert.Equal(t, 1, record.ClarificationCount, "persisted counters survive a failed turn unchanged")
	assert.Len(t, record.MessageHistory, 2)
}

func TestProcessTurn_RehydratesCounters(t *testing.T) {
	retriever := &fakeRetriever{}
	generator := &fakeGenerator{result: conversation.GenerationResult{
		Text:            "Can you give me more detail?",
		IsClarification: true,
	}}
	store := memory.NewInMemoryStore()
	require.NoError(t, store.Save(context.Background(), 55, conversation.Record{
		ClarificationCount: 2,
	}))
	orc := newTestOrchestrator(retriever, generator, store)

	state := userTurn(t, 55, "still unclear")
	require.NoError(t, orc.ProcessTurn(context.Background(), state))

	assert.Equal(t, 3, state.ClarificationCount)
	assert.True(t, state.HandoverToHumanNeeded)
	assert.Equal(t, 2, generator.lastReq.ClarificationsUsed, "the generator sees the count before this turn's increment")
}

func TestProcessTurn_StoreLoadFailurePropagates(t *testing.T) {
	retriever := &fakeRetriever{}
	generator := &fakeGenerator{result: conversation.GenerationResult{Text: "unused"}}
	store := &failingStore{loadErr: errors.New("connection reset")}
	orc := newTestOrchestrator(retriever, generator, store)

	state := userTurn(t, 1, "hello")
	err := orc.ProcessTurn(context.Background(), state)

	assert.ErrorContains(t, err, "connection reset")
	assert.Empty(t, retriever.lastQuery, "the pass must not start on a failed load")
}

type failingStore struct {
	loadErr error
	saveErr error
}

func (f *failingStore) Load(ctx context.Context, conversationID int64) (conversation.Record, bool, error) {
	return conversation.Record{}, false, f.loadErr
}

func (f *failingStore) Save(ctx context.Context, conversationID int64, record conversation.Record) error {
	return f.saveErr
}

func TestFormatContext(t *testing.T) {
	t.Run("joins scored blocks", func(t *testing.T) {
		got := FormatContext([]conversation.RetrievedSection{
			{Score: 0.8734, Content: "A"},
			{Score: 0.5, Content: "B"},
		})

		assert.Equal(t, "[Score: 0.8734]\nA\n\n[Score: 0.5000]\nB", got)
	})

	t.Run("empty sections yield empty context", func(t *testing.T) {
		assert.Equal(t, "", FormatContext(nil))
	})
}
