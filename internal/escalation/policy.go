// ABOUTME: Pure policy deciding when a conversation should be handed to a human
// ABOUTME: Evaluated once per customer turn, after the agent reply is appended

package escalation

import "strings"

// DefaultMessageThreshold is the non-system message count beyond which a
// conversation is considered stuck in unresolved back-and-forth.
const DefaultMessageThreshold = 10

// defaultKeywords are matched case-insensitively against the latest
// customer message.
var defaultKeywords = []string{"manager", "escalate"}

// Policy decides whether a conversation should be flagged for human
// hand-off. It is pure: no I/O, no state, safe for concurrent use.
type Policy struct {
	// Keywords that trigger escalation when present in the latest
	// customer message (case-insensitive substring match).
	Keywords []string

	// MessageThreshold is the non-system message count above which
	// escalation is recommended.
	MessageThreshold int
}

// NewPolicy returns the default policy: "manager"/"escalate" keywords and
// a threshold of ten non-system messages.
func NewPolicy() Policy {
	return Policy{
		Keywords:         defaultKeywords,
		MessageThreshold: DefaultMessageThreshold,
	}
}

// Input captures the conversation state the policy evaluates.
type Input struct {
	// NonSystemMessages counts customer and agent messages, excluding
	// system announcements.
	NonSystemMessages int

	// LatestCustomerMessage is the customer text that started this turn.
	LatestCustomerMessage string

	// LastTurnFallback is true when the most recent agent turn was the
	// failure fallback rather than a genuine reply.
	LastTurnFallback bool
}

// ShouldEscalate reports whether the conversation needs human hand-off.
// A fallback turn escalates unconditionally; otherwise either a keyword
// in the latest customer message or an oversized conversation does.
func (p Policy) ShouldEscalate(in Input) bool {
	if in.LastTurnFallback {
		return true
	}

	lowered := strings.ToLower(in.LatestCustomerMessage)
	for _, kw := range p.Keywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}

	return in.NonSystemMessages > p.MessageThreshold
}
