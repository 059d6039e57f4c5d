// ABOUTME: Conversation and message types for the session engine
// ABOUTME: Conversations are append-only audit records owned by the Service

package session

import (
	"time"

	"github.com/agentarmy/console/internal/persona"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderAgent    Sender = "agent"
	SenderSystem   Sender = "system"
)

// Status is the conversation lifecycle state. Transitions only move
// forward: open -> escalated, open -> resolved, escalated -> resolved.
type Status string

const (
	StatusOpen      Status = "open"
	StatusEscalated Status = "escalated"
	StatusResolved  Status = "resolved"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusEscalated, StatusResolved:
		return true
	}
	return false
}

// Priority is the intake urgency chosen by the customer.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Message is one entry in a conversation. Immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CustomerRef identifies the customer who opened a conversation.
type CustomerRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
}

// Conversation is an immutable snapshot of one support conversation.
// The Service hands out copies; callers never hold the live record.
type Conversation struct {
	ID                    string       `json:"id"`
	Customer              CustomerRef  `json:"customer"`
	Topic                 string       `json:"topic"`
	AgentKind             persona.Kind `json:"agent_kind"`
	Priority              Priority     `json:"priority"`
	Status                Status       `json:"status"`
	StartedAt             time.Time    `json:"started_at"`
	EndedAt               *time.Time   `json:"ended_at,omitempty"`
	Messages              []Message    `json:"messages"`
	EscalationRecommended bool         `json:"escalation_recommended"`
}

// NonSystemMessageCount counts customer and agent messages, excluding
// system announcements. This is the count the escalation policy sees.
func (c *Conversation) NonSystemMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Sender != SenderSystem {
			n++
		}
	}
	return n
}

// clone returns a deep copy safe to hand to callers.
func (c *Conversation) clone() *Conversation {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	if c.EndedAt != nil {
		ended := *c.EndedAt
		out.EndedAt = &ended
	}
	return &out
}

// Stats summarizes the engine's conversations for the console dashboard.
type Stats struct {
	Total                 int                  `json:"total"`
	ByStatus              map[Status]int       `json:"by_status"`
	ByAgentKind           map[persona.Kind]int `json:"by_agent_kind"`
	EscalationRecommended int                  `json:"escalation_recommended"`
	AvgResolutionSeconds  float64              `json:"avg_resolution_seconds"`
}
