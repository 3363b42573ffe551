package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vokinneberg/rag-chat-assistant/internal/session"
	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=http

// QueryProcessor defines the interface for search-augmented query processing
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, userMessage string, history []types.ChatMessage) (types.QueryResult, error)
}

type Handler struct {
	processor QueryProcessor
	sessions  *session.Store
	validate  *validator.Validate
}

// NewHandlers initializes handlers with dependencies
func NewHandlers(processor QueryProcessor, sessions *session.Store) *Handler {
	return &Handler{
		processor: processor,
		sessions:  sessions,
		validate:  validator.New(),
	}
}

// QueryHandler answers a message using the history supplied by the caller
func (h *Handler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req types.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		errorResponse(w, http.StatusBadRequest, "Message is required", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid history", err)
		return
	}

	result, err := h.processor.ProcessQuery(r.Context(), req.Message, req.History)
	if err != nil {
		slog.Error("Error processing query", "error", err, "message", req.Message)
		errorResponse(w, http.StatusInternalServerError, "Failed to process query", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CreateSessionHandler starts a new conversation
func (h *Handler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.sessions.Create())
}

// GetSessionHandler returns a conversation with all of its messages
func (h *Handler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteSessionHandler drops a conversation
func (h *Handler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessageHandler answers a message using the stored history of the conversation,
// then records both the message and the reply
func (h *Handler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")

	var req types.SessionMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		errorResponse(w, http.StatusBadRequest, "Message is required", nil)
		return
	}

	history, err := h.sessions.Begin(id)
	if err != nil {
		sessionError(w, err)
		return
	}
	defer h.sessions.End(id)

	userMsg := session.Message{Role: types.RoleUser, Content: req.Message}

	result, err := h.processor.ProcessQuery(r.Context(), req.Message, history)
	if err != nil {
		slog.Error("Error processing query", "error", err, "session_id", id)
		if _, appendErr := h.sessions.Append(id, userMsg); appendErr != nil {
			slog.Error("Error recording message", "error", appendErr, "session_id", id)
		}
		errorResponse(w, http.StatusInternalServerError, "Failed to process query", err)
		return
	}

	stored, err := h.sessions.Append(id, userMsg, session.Message{
		Role:    types.RoleAssistant,
		Content: result.Response,
		Sources: result.Sources,
	})
	if err != nil {
		sessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.SessionMessageResponse{
		SessionID: id,
		MessageID: stored[len(stored)-1].ID,
		Response:  result.Response,
		Sources:   result.Sources,
	})
}

// HealthHandler reports that the server is up
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		errorResponse(w, http.StatusNotFound, "Conversation not found", nil)
	case errors.Is(err, session.ErrBusy):
		errorResponse(w, http.StatusConflict, "A message is already being processed for this conversation", nil)
	default:
		errorResponse(w, http.StatusInternalServerError, "Conversation error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorMsg := message
	if err != nil {
		errorMsg = fmt.Sprintf("%s: %v", message, err)
	}

	if err := json.NewEncoder(w).Encode(types.ErrorResponse{
		Error:   http.StatusText(status),
		Message: errorMsg,
	}); err != nil {
		slog.Error("Error encoding error response", "error", err, "status", status)
	}
}
