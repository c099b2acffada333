package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DiazJL07/Braincare/internal/chat"
	"github.com/DiazJL07/Braincare/internal/conversation"
	"github.com/DiazJL07/Braincare/internal/gemini"
)

// Client-facing messages stay in Spanish; the existing frontend matches on
// them.
const (
	msgMissingPrompt    = "Falta el prompt"
	msgInvalidBody      = "Cuerpo de la petición inválido"
	msgNotFound         = "Conversación no encontrada"
	msgMissingSessionID = "ID de sesión no proporcionado"
	msgCleared          = "Conversación borrada"
	msgNotConfigured    = "El modelo de IA no está configurado"
)

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Response     string              `json:"response"`
	SessionID    string              `json:"session_id"`
	Conversation conversation.Record `json:"conversation"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	ModelReady bool   `json:"model_ready"`
}

type clearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Service:    ServiceName,
		ModelReady: s.orchestrator.Ready(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := s.orchestrator.Chat(
		r.Context(),
		req.Prompt,
		r.Header.Get(HeaderSessionID),
		r.Header.Get(HeaderUserID),
	)
	if err != nil {
		s.writeChatError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{
		Response:     result.Reply,
		SessionID:    result.SessionID,
		Conversation: result.Record,
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	record, err := s.orchestrator.Conversation(
		r.Header.Get(HeaderSessionID),
		r.Header.Get(HeaderUserID),
	)
	if err != nil {
		s.writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	err := s.orchestrator.Clear(
		r.Header.Get(HeaderSessionID),
		r.Header.Get(HeaderUserID),
	)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, msgMissingSessionID)
		return
	}
	s.writeJSON(w, http.StatusOK, clearResponse{
		Success: true,
		Message: msgCleared,
	})
}

// writeChatError maps orchestrator errors onto the HTTP taxonomy: missing
// prompt is a client error, an unconfigured model is 503, and a failed
// generation call is a 500 carrying the underlying message verbatim.
func (s *Server) writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyPrompt):
		s.writeError(w, http.StatusBadRequest, msgMissingPrompt)
	case gemini.IsNotConfiguredError(err):
		s.writeError(w, http.StatusServiceUnavailable, msgNotConfigured)
	default:
		var genErr *gemini.GenerationError
		if errors.As(err, &genErr) {
			s.writeError(w, http.StatusInternalServerError, genErr.Err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Unexpected chat error", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
