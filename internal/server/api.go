// ABOUTME: HTTP API handlers for the conversation session engine
// ABOUTME: The excluded console UI is the intended client of these endpoints

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/agentarmy/console/internal/session"
)

// CreateConversationRequest is the JSON request body for POST /api/conversations.
type CreateConversationRequest struct {
	CustomerID      string `json:"customer_id,omitempty"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	CustomerCompany string `json:"customer_company,omitempty"`
	Topic           string `json:"topic"`
	FirstMessage    string `json:"first_message"`
	Priority        string `json:"priority,omitempty"`
}

// SubmitMessageRequest is the JSON request body for POST /api/conversations/{id}/messages.
type SubmitMessageRequest struct {
	Content string `json:"content"`
}

// ListConversationsResponse is the JSON response for GET /api/conversations.
type ListConversationsResponse struct {
	Conversations []*session.Conversation `json:"conversations"`
}

// errorResponse is the uniform JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// handleConversations handles /api/conversations: POST creates, GET lists.
func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateConversation(w, r)
	case http.MethodGet:
		s.handleListConversations(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	conv, err := s.sessions.CreateConversation(r.Context(), session.CreateRequest{
		Customer: session.CustomerRef{
			ID:      req.CustomerID,
			Name:    req.CustomerName,
			Email:   req.CustomerEmail,
			Company: req.CustomerCompany,
		},
		Topic:        req.Topic,
		FirstMessage: req.FirstMessage,
		Priority:     session.Priority(req.Priority),
	})
	if err != nil {
		s.sendSessionError(w, err)
		return
	}

	s.sendJSON(w, http.StatusCreated, conv)
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	status := session.Status(r.URL.Query().Get("status"))

	conversations, err := s.sessions.List(r.Context(), status)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.sendJSON(w, http.StatusOK, ListConversationsResponse{Conversations: conversations})
}

// handleConversationRoutes dispatches /api/conversations/{id}[/action].
func (s *Server) handleConversationRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/conversations/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		s.sendJSONError(w, http.StatusBadRequest, "conversation id is required")
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleGetConversation(w, r, id)
	case "messages":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleSubmitMessage(w, r, id)
	case "escalate":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleEscalate(w, r, id)
	case "resolve":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleResolve(w, r, id)
	default:
		s.sendJSONError(w, http.StatusNotFound, "unknown conversation action")
	}
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request, id string) {
	conv, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.sendSessionError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, conv)
}

func (s *Server) handleSubmitMessage(w http.ResponseWriter, r *http.Request, id string) {
	var req SubmitMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	conv, err := s.sessions.SubmitCustomerMessage(r.Context(), id, req.Content)
	if err != nil {
		s.sendSessionError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, conv)
}

func (s *Server) handleEscalate(w http.ResponseWriter, r *http.Request, id string) {
	conv, err := s.sessions.Escalate(r.Context(), id)
	if err != nil {
		s.sendSessionError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, conv)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request, id string) {
	conv, err := s.sessions.Resolve(r.Context(), id)
	if err != nil {
		s.sendSessionError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, conv)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.sessions.Stats(r.Context())
	if err != nil {
		s.logger.Error("failed to compute stats", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, stats)
}

// sendSessionError maps session engine errors onto HTTP statuses.
func (s *Server) sendSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, session.ErrInvalidState):
		s.sendJSONError(w, http.StatusConflict, "operation not valid for conversation state")
	case errors.Is(err, session.ErrBusy):
		s.sendJSONError(w, http.StatusTooManyRequests, "a message is already being processed for this conversation")
	case errors.Is(err, session.ErrEmptyContent):
		s.sendJSONError(w, http.StatusBadRequest, "message content is required")
	case errors.Is(err, context.Canceled):
		// Client went away mid-completion; nothing useful to write.
		s.logger.Debug("request cancelled during completion")
	default:
		s.logger.Error("conversation operation failed", "error", err)
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, errorResponse{Error: message})
}
