package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"rne-assistant/internal/answer"
	"rne-assistant/internal/contextutil"
	"rne-assistant/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      slog.Default(),
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message   string `json:"message"`
	Language  string `json:"language,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// DirectAnswerResponse is the HTTP payload for an answered turn.
type DirectAnswerResponse struct {
	Type       string             `json:"type"`
	SessionID  string             `json:"session_id"`
	Language   string             `json:"language"`
	Response   string             `json:"response"`
	References []answer.Reference `json:"references,omitempty"`
}

// ClarificationResponse is the HTTP payload for a turn that needs a
// clarification round before it can be answered.
type ClarificationResponse struct {
	Type             string   `json:"type"`
	SessionID        string   `json:"session_id"`
	Language         string   `json:"language"`
	MainResponse     string   `json:"main_response"`
	FollowUpQuestion string   `json:"follow_up_question"`
	Options          []string `json:"options"`
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
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// A client without a session gets a fresh one, echoed back in the
	// response so follow-up turns can resolve clarifications.
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	svcReq := service.TurnRequest{
		Message:   req.Message,
		Language:  req.Language,
		SessionID: sessionID,
	}

	svcResp, err := h.chatService.ProcessTurn(ctx, svcReq)
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}

	var resp any
	switch svcResp.Type {
	case service.TypeClarificationNeeded:
		resp = ClarificationResponse{
			Type:             svcResp.Type,
			SessionID:        sessionID,
			Language:         svcResp.Language,
			MainResponse:     svcResp.MainResponse,
			FollowUpQuestion: svcResp.FollowUpQuestion,
			Options:          svcResp.Options,
		}
	default:
		resp = DirectAnswerResponse{
			Type:       svcResp.Type,
			SessionID:  sessionID,
			Language:   svcResp.Language,
			Response:   svcResp.Text,
			References: svcResp.References,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func (h *ChatHandler) handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrExternalService) {
		h.writeError(w, http.StatusBadGateway, "External service error")
		return
	}

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
