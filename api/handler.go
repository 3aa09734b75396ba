// Package api provides the HTTP surface of the ChatRAG service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/chatrag/chatrag/agent"
	"github.com/chatrag/chatrag/conversation"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handler maps HTTP requests onto the process-conversation use case and
// domain errors onto status codes.
type Handler struct {
	useCase   *agent.ProcessConversationUseCase
	chatModel string
}

func NewHandler(useCase *agent.ProcessConversationUseCase, chatModel string) *Handler {
	return &Handler{
		useCase:   useCase,
		chatModel: chatModel,
	}
}

// NewRouter wires the service routes.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/conversations/completions", h.ProcessConversation)

	return r
}

func (h *Handler) ProcessConversation(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.validate(); err != nil {
		Error(w, http.StatusBadRequest, "Invalid message: "+err.Error())
		return
	}

	state, err := h.useCase.Process(r.Context(), req.ConversationID, req.ProjectName, req.toMessages())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	JSON(w, http.StatusOK, toConversationResponse(state))
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"message": "ChatRAG API",
		"health":  "/health",
		"model":   h.chatModel,
	})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
// Caller-fixable input problems are 400s, collaborator failures are 500s.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, conversation.ErrInvalidMessage), errors.Is(err, conversation.ErrInvalidContent):
		Error(w, http.StatusBadRequest, "Invalid message: "+err.Error())
	case errors.Is(err, conversation.ErrRetrieval), errors.Is(err, conversation.ErrGeneration):
		logger.Error("Turn failed", zap.Error(err))
		Error(w, http.StatusInternalServerError, "Internal error: "+err.Error())
	case errors.Is(err, conversation.ErrDomain):
		Error(w, http.StatusBadRequest, "Domain error: "+err.Error())
	default:
		logger.Error("Unexpected failure", zap.Error(err))
		Error(w, http.StatusInternalServerError, "Unexpected error: "+err.Error())
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"detail": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, errorResponse{Detail: detail})
}
