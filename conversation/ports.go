package conversation

import "context"

// Retriever is the semantic-search collaborator. Search returns at most k
// sections for the query, best first. projectFilter, when non-empty, scopes
// results to one project.
type Retriever interface {
	Search(ctx context.Context, query string, k int, projectFilter string) ([]RetrievedSection, error)
}

// GenerationRequest carries everything the generator needs for one reply.
type GenerationRequest struct {
	UserMessage        string
	Context            string
	History            []HistoryMessage
	ClarificationsUsed int
	ClarificationsMax  int
}

type GenerationResult struct {
	Text            string
	IsClarification bool
}

// Generator is the response-generation collaborator. The generator answers
// from the supplied context only and may reply with a clarifying question
// when the context is insufficient.
type Generator interface {
	Respond(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// Record is the durable cross-turn slice of a conversation.
type Record struct {
	ClarificationCount    int
	HandoverToHumanNeeded bool
	MessageHistory        []Message
}

// Store persists one Record per conversation key. Load reports whether a
// record existed for the key.
type Store interface {
	Load(ctx context.Context, conversationID int64) (Record, bool, error)
	Save(ctx context.Context, conversationID int64, record Record) error
}
