// ABOUTME: Conversation session engine - owns all conversation state transitions
// ABOUTME: Submissions are single-writer per conversation; the completion call is the only suspension point

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentarmy/console/internal/completion"
	"github.com/agentarmy/console/internal/escalation"
	"github.com/agentarmy/console/internal/metrics"
	"github.com/agentarmy/console/internal/persona"
)

// Fixed in-conversation texts. The customer is never shown a raw error.
const (
	fallbackText   = "I apologize, but I'm having trouble responding right now. Let me connect you with a human agent who can assist you better."
	escalationText = "This conversation has been escalated to a human supervisor. A team member will join shortly."
	resolutionText = "This conversation has been marked as resolved. Thank you for using AgentArmy!"
)

// Completer defines what the engine needs from the completion layer.
type Completer interface {
	Complete(ctx context.Context, p persona.Persona, history []completion.ChatMessage, customerMessage string) (string, error)
}

// conversationState is the live record behind a conversation. All access
// goes through mu; inFlight enforces one submission at a time.
type conversationState struct {
	mu               sync.Mutex
	inFlight         bool
	conv             Conversation
	lastTurnFallback bool
}

// Service owns every conversation and mediates all state transitions.
// Conversations are kept in memory for the process lifetime; resolved
// conversations remain readable as audit records.
type Service struct {
	mu            sync.RWMutex
	conversations map[string]*conversationState

	catalog   *persona.Catalog
	completer Completer
	policy    escalation.Policy
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates the session engine. metrics may be nil to disable counters.
func New(catalog *persona.Catalog, completer Completer, policy escalation.Policy, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		conversations: make(map[string]*conversationState),
		catalog:       catalog,
		completer:     completer,
		policy:        policy,
		metrics:       m,
		logger:        logger.With("component", "session"),
	}
}

// CreateRequest is the intake payload for a new conversation.
type CreateRequest struct {
	Customer     CustomerRef
	Topic        string
	FirstMessage string
	Priority     Priority
}

// CreateConversation opens a conversation bound to the agent kind resolved
// from the topic, with the first customer message already appended.
func (s *Service) CreateConversation(ctx context.Context, req CreateRequest) (*Conversation, error) {
	if isBlank(req.FirstMessage) {
		return nil, fmt.Errorf("first message: %w", ErrEmptyContent)
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}
	if !req.Priority.Valid() {
		return nil, fmt.Errorf("unknown priority %q", req.Priority)
	}
	if req.Customer.ID == "" {
		req.Customer.ID = "cust_" + uuid.New().String()
	}

	now := time.Now()
	conv := Conversation{
		ID:        uuid.New().String(),
		Customer:  req.Customer,
		Topic:     req.Topic,
		AgentKind: persona.KindFor(req.Topic),
		Priority:  req.Priority,
		Status:    StatusOpen,
		StartedAt: now,
	}
	appendMessage(&conv, SenderCustomer, req.FirstMessage)

	state := &conversationState{conv: conv}

	s.mu.Lock()
	s.conversations[conv.ID] = state
	s.mu.Unlock()

	s.metrics.ConversationCreated()
	s.logger.Info("conversation created",
		"conversation_id", conv.ID,
		"topic", conv.Topic,
		"agent_kind", conv.AgentKind,
		"priority", conv.Priority)

	return conv.clone(), nil
}

// SubmitCustomerMessage appends the customer message, asks the agent for a
// reply, appends the reply (or the fixed apology fallback on failure), and
// recomputes the escalation recommendation. Valid only while open.
//
// One submission may be in flight per conversation; a concurrent call
// returns ErrBusy. If ctx is cancelled while the completion call is
// pending, no agent message is appended at all: the customer message stays
// recorded and the caller may retry. If the conversation is escalated or
// resolved while the call is pending, the reply is likewise dropped and
// the customer message remains the last non-system entry.
func (s *Service) SubmitCustomerMessage(ctx context.Context, conversationID, text string) (*Conversation, error) {
	if isBlank(text) {
		return nil, ErrEmptyContent
	}

	state, err := s.state(conversationID)
	if err != nil {
		return nil, err
	}

	// Phase 1: record the customer message and snapshot the prompt inputs.
	state.mu.Lock()
	if state.conv.Status != StatusOpen {
		state.mu.Unlock()
		return nil, ErrInvalidState
	}
	if state.inFlight {
		state.mu.Unlock()
		return nil, ErrBusy
	}
	state.inFlight = true

	history := chatHistory(state.conv.Messages)
	agentPersona := s.catalog.ForKind(state.conv.AgentKind)
	appendMessage(&state.conv, SenderCustomer, text)
	state.mu.Unlock()

	// Suspension point: the only operation that awaits the outside world.
	reply, completeErr := s.completer.Complete(ctx, agentPersona, history, text)

	// Phase 2: record the outcome.
	state.mu.Lock()
	defer state.mu.Unlock()
	state.inFlight = false

	if completeErr != nil && errors.Is(completeErr, context.Canceled) {
		s.logger.Debug("completion cancelled, no agent reply recorded",
			"conversation_id", conversationID)
		return state.conv.clone(), context.Canceled
	}

	// The conversation may have been escalated or resolved while the
	// completion call was pending. A closed transcript gains no agent
	// reply; the customer message stays recorded.
	if state.conv.Status != StatusOpen {
		s.logger.Info("conversation no longer open, dropping agent reply",
			"conversation_id", conversationID,
			"status", state.conv.Status)
		return state.conv.clone(), nil
	}

	if completeErr != nil {
		kind := completion.KindOf(completeErr)
		s.metrics.CompletionFailed(string(kind))
		s.logger.Warn("completion failed, substituting fallback",
			"conversation_id", conversationID,
			"kind", kind,
			"error", completeErr)
		appendMessage(&state.conv, SenderAgent, fallbackText)
		state.lastTurnFallback = true
	} else {
		appendMessage(&state.conv, SenderAgent, reply)
		state.lastTurnFallback = false
	}
	s.metrics.TurnCompleted()

	// The policy runs once per completed turn.
	recommended := s.policy.ShouldEscalate(escalation.Input{
		NonSystemMessages:     state.conv.NonSystemMessageCount(),
		LatestCustomerMessage: text,
		LastTurnFallback:      state.lastTurnFallback,
	})
	if recommended && !state.conv.EscalationRecommended {
		state.conv.EscalationRecommended = true
		s.metrics.EscalationRecommended()
		s.logger.Info("escalation recommended",
			"conversation_id", conversationID,
			"messages", len(state.conv.Messages))
	}

	return state.conv.clone(), nil
}

// Escalate hands the conversation to a human supervisor. Valid only while
// open. The recommendation flag is advisory: Escalate does not require it.
func (s *Service) Escalate(ctx context.Context, conversationID string) (*Conversation, error) {
	state, err := s.state(conversationID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.conv.Status != StatusOpen {
		return nil, ErrInvalidState
	}

	appendMessage(&state.conv, SenderSystem, escalationText)
	state.conv.Status = StatusEscalated
	state.conv.EscalationRecommended = false

	s.metrics.Escalated()
	s.logger.Info("conversation escalated", "conversation_id", conversationID)

	return state.conv.clone(), nil
}

// Resolve closes the conversation. Valid from open or escalated; a
// resolved conversation is terminal and rejects all further operations.
func (s *Service) Resolve(ctx context.Context, conversationID string) (*Conversation, error) {
	state, err := s.state(conversationID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.conv.Status == StatusResolved {
		return nil, ErrInvalidState
	}

	appendMessage(&state.conv, SenderSystem, resolutionText)
	state.conv.Status = StatusResolved
	ended := state.conv.Messages[len(state.conv.Messages)-1].Timestamp
	state.conv.EndedAt = &ended
	state.conv.EscalationRecommended = false

	s.metrics.Resolved()
	s.logger.Info("conversation resolved",
		"conversation_id", conversationID,
		"messages", len(state.conv.Messages))

	return state.conv.clone(), nil
}

// Get returns a snapshot of one conversation.
func (s *Service) Get(ctx context.Context, conversationID string) (*Conversation, error) {
	state, err := s.state(conversationID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return state.conv.clone(), nil
}

// List returns snapshots of all conversations, newest first. statusFilter
// narrows the result when non-empty.
func (s *Service) List(ctx context.Context, statusFilter Status) ([]*Conversation, error) {
	if statusFilter != "" && !statusFilter.Valid() {
		return nil, fmt.Errorf("unknown status %q", statusFilter)
	}

	s.mu.RLock()
	states := make([]*conversationState, 0, len(s.conversations))
	for _, st := range s.conversations {
		states = append(states, st)
	}
	s.mu.RUnlock()

	out := make([]*Conversation, 0, len(states))
	for _, st := range states {
		st.mu.Lock()
		if statusFilter == "" || st.conv.Status == statusFilter {
			out = append(out, st.conv.clone())
		}
		st.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

// Stats aggregates conversation counts for the console dashboard.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:       len(all),
		ByStatus:    make(map[Status]int),
		ByAgentKind: make(map[persona.Kind]int),
	}

	var resolvedCount int
	var resolutionTotal time.Duration
	for _, c := range all {
		stats.ByStatus[c.Status]++
		stats.ByAgentKind[c.AgentKind]++
		if c.EscalationRecommended {
			stats.EscalationRecommended++
		}
		if c.Status == StatusResolved && c.EndedAt != nil {
			resolvedCount++
			resolutionTotal += c.EndedAt.Sub(c.StartedAt)
		}
	}
	if resolvedCount > 0 {
		stats.AvgResolutionSeconds = resolutionTotal.Seconds() / float64(resolvedCount)
	}
	return stats, nil
}

// state looks up the live record for a conversation id.
func (s *Service) state(conversationID string) (*conversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.conversations[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	return state, nil
}

// appendMessage appends a message with a timestamp that never moves
// backwards relative to the previous message, keeping the sequence
// strictly ordered even under clock jitter.
func appendMessage(conv *Conversation, sender Sender, content string) {
	now := time.Now()
	if n := len(conv.Messages); n > 0 {
		if last := conv.Messages[n-1].Timestamp; !now.After(last) {
			now = last.Add(time.Nanosecond)
		}
	}
	conv.Messages = append(conv.Messages, Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Content:   content,
		Timestamp: now,
	})
}

// chatHistory maps stored messages onto completion roles: customer turns
// become user entries, agent turns assistant entries, system
// announcements system entries.
func chatHistory(messages []Message) []completion.ChatMessage {
	out := make([]completion.ChatMessage, 0, len(messages))
	for _, m := range messages {
		var role completion.Role
		switch m.Sender {
		case SenderCustomer:
			role = completion.RoleUser
		case SenderAgent:
			role = completion.RoleAssistant
		default:
			role = completion.RoleSystem
		}
		out = append(out, completion.ChatMessage{Role: role, Content: m.Content})
	}
	return out
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
