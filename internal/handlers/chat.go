package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"consumer-assistant/internal/contextutil"
	"consumer-assistant/internal/service"
)

// maxRequestBytes caps the chat request body.
const maxRequestBytes = 64 << 10

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	assistant service.Assistant
	renderer  *MarkdownRenderer
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(assistant service.Assistant) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		renderer:  NewMarkdownRenderer(),
	}
}

// ChatRequest represents the HTTP request payload for chat. A missing session_id
// starts a new session.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	ReplyHTML string `json:"reply_html"`
	Route     string `json:"route"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
		logger.DebugContext(ctx, "started new session", "session_id", sessionID)
	}

	svcResp, err := h.assistant.HandleMessage(ctx, service.MessageRequest{
		SessionID: sessionID,
		Text:      req.Message,
	})
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}

	replyHTML, err := h.renderer.Render(svcResp.Reply)
	if err != nil {
		logger.WarnContext(ctx, "failed to render reply", "error", err)
	}

	resp := ChatResponse{
		SessionID: sessionID,
		Reply:     svcResp.Reply,
		ReplyHTML: replyHTML,
		Route:     string(svcResp.Route),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func (h *ChatHandler) handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "invalid chat request", "error", err)
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrInvalidInput) {
		logger.WarnContext(ctx, "invalid chat request", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)
	h.writeError(w, http.StatusInternalServerError, defaultMsg)
}

// writeError writes an error response.
func (h *ChatHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
