package conversation

import "errors"

// Domain error taxonomy. Collaborator and orchestration failures wrap one of
// these sentinels; the HTTP boundary classifies them with errors.Is.
var (
	// ErrDomain covers business-rule violations not otherwise classified.
	ErrDomain = errors.New("domain error")

	// ErrInvalidMessage marks malformed input: empty message list or a turn
	// whose last message is not from the user.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidContent marks an attempt to append an empty message.
	ErrInvalidContent = errors.New("invalid content")

	// ErrRetrieval marks a retriever backend failure.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration marks a generator backend failure.
	ErrGeneration = errors.New("generation failed")
)
