// Package session is the conversation session engine.
//
// # Overview
//
// The Service owns every conversation: the message log, the status state
// machine, and the escalation recommendation. External collaborators (the
// HTTP API, the excluded console UI) only ever see snapshots; all
// mutation goes through the four operations:
//
//   - CreateConversation: intake with topic and first customer message
//   - SubmitCustomerMessage: one customer turn, producing an agent reply
//   - Escalate: explicit hand-off to a human (open only)
//   - Resolve: terminal close (open or escalated)
//
// # State machine
//
// Status moves only forward:
//
//	open -> escalated -> resolved
//	open -> resolved
//
// resolved is terminal; no operation is defined on a resolved
// conversation. EndedAt is set exactly once, when the conversation
// resolves.
//
// # Turns and fallbacks
//
// A turn is one customer message plus the resulting agent reply. When the
// completion service fails, the engine substitutes a fixed apology
// message, marks the turn as a failure fallback, and the escalation
// policy flags the conversation unconditionally. The customer never sees
// a raw error, and the conversation always remains continuable.
//
// # Concurrency
//
// Each conversation is single-writer: a second SubmitCustomerMessage
// while one is in flight returns ErrBusy. Different conversations are
// fully independent. The completion call is the only suspension point;
// if it is cancelled, the customer message stays recorded with no agent
// reply, a valid state the caller can retry from.
package session
