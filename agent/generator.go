package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatrag/chatrag/conversation"
	"github.com/chatrag/chatrag/llm"
	"github.com/chatrag/chatrag/prompts"
)

const maxAnswerTokens = 2048

// LLMGenerator produces agent replies grounded on the retrieved context. It
// renders the helpdesk prompt, runs one inference and classifies the reply
// as answer or clarification.
type LLMGenerator struct {
	client llm.LLMClient
	model  string
}

func NewLLMGenerator(client llm.LLMClient, model string) *LLMGenerator {
	return &LLMGenerator{
		client: client,
		model:  model,
	}
}

func (g *LLMGenerator) Respond(ctx context.Context, req conversation.GenerationRequest) (conversation.GenerationResult, error) {
	systemPrompt, userPrompt, err := prompts.RenderHelpdeskAnswerPrompt(prompts.HelpdeskAnswerData{
		Context:            req.Context,
		History:            formatHistory(req.History),
		UserMessage:        req.UserMessage,
		ClarificationsUsed: req.ClarificationsUsed,
		ClarificationsMax:  req.ClarificationsMax,
		FinalWarning:       req.ClarificationsUsed >= req.ClarificationsMax-1,
	})
	if err != nil {
		return conversation.GenerationResult{}, fmt.Errorf("%w: render prompt: %v", conversation.ErrGeneration, err)
	}

	messages := []llm.Message{
		{
			Role:    "user",
			Content: userPrompt,
		},
	}

	var response strings.Builder
	err = g.client.GenerateInference(ctx, messages, func(chunk string) error {
		response.WriteString(chunk)
		return nil
	}, llm.WithModel(g.model),
		llm.WithMaxTokens(maxAnswerTokens),
		llm.WithTemperature(0.7),
		llm.WithSystemPrompt(systemPrompt),
	)
	if err != nil {
		return conversation.GenerationResult{}, fmt.Errorf("%w: %v", conversation.ErrGeneration, err)
	}

	text := response.String()
	if text == "" {
		return conversation.GenerationResult{}, fmt.Errorf("%w: empty response", conversation.ErrGeneration)
	}

	return conversation.GenerationResult{
		Text:            text,
		IsClarification: isClarification(text),
	}, nil
}

// isClarification detects replies that ask the user something rather than
// answering. A question marker anywhere in the text counts.
func isClarification(response string) bool {
	return strings.Contains(response, "?")
}

func formatHistory(history []conversation.HistoryMessage) string {
	if len(history) == 0 {
		return "No previous conversation."
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := "User"
		if msg.Role == "agent" {
			speaker = "Agent"
		}
		lines = append(lines, speaker+": "+msg.Content)
	}

	return strings.Join(lines, "\n")
}
