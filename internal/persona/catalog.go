// ABOUTME: Immutable catalog mapping support topics to agent personas
// ABOUTME: Built once at startup; unknown topics always resolve to the general persona

package persona

import (
	"fmt"
	"strings"
)

// Kind identifies a specialized support agent.
type Kind string

const (
	KindBilling   Kind = "billing"
	KindTechnical Kind = "technical"
	KindProduct   Kind = "product"
	KindGeneral   Kind = "general"
)

// Valid reports whether k is a known agent kind.
func (k Kind) Valid() bool {
	switch k {
	case KindBilling, KindTechnical, KindProduct, KindGeneral:
		return true
	}
	return false
}

// Kinds returns all known agent kinds in display order.
func Kinds() []Kind {
	return []Kind{KindBilling, KindTechnical, KindProduct, KindGeneral}
}

// Persona is the identity an agent assumes when generating replies.
// Instructions is the system prompt sent on every completion request.
type Persona struct {
	Kind         Kind
	Instructions string
}

// basePrompt is the shared directive every persona starts from.
const basePrompt = `You are a helpful AI customer support agent for AgentArmy. Always be professional, empathetic, and solution-focused. Keep responses concise but thorough.`

// builtinInstructions holds the compiled-in instruction templates per kind.
var builtinInstructions = map[Kind]string{
	KindBilling: basePrompt + ` You specialize in billing and payment issues. You can help with:
- Refund requests and processing
- Billing cycle explanations
- Payment method updates
- Subscription changes
- Payment failure troubleshooting
Always ask for specific details about billing issues and provide clear next steps.`,

	KindTechnical: basePrompt + ` You specialize in technical support. You can help with:
- API integration issues
- Error code explanations
- Performance optimization
- Security best practices
- Troubleshooting technical problems
Always ask for error messages, logs, or specific symptoms to provide accurate solutions.`,

	KindProduct: basePrompt + ` You specialize in product information and guidance. You can help with:
- Feature explanations and demos
- Product recommendations
- Usage best practices
- Pricing information
- Upgrade guidance
Always focus on how features can solve the customer's specific needs.`,

	KindGeneral: basePrompt + ` You handle general inquiries and can provide basic information about all aspects of the service. If the inquiry requires specialized knowledge, suggest the customer speak with a specialized agent.`,
}

// Catalog resolves topics to personas. It is immutable after construction
// and safe for concurrent use without locking.
type Catalog struct {
	personas map[Kind]Persona
}

// New returns a catalog with the compiled-in instruction templates.
func New() *Catalog {
	personas := make(map[Kind]Persona, len(builtinInstructions))
	for kind, instructions := range builtinInstructions {
		personas[kind] = Persona{Kind: kind, Instructions: instructions}
	}
	return &Catalog{personas: personas}
}

// NewWithOverrides returns a catalog where the given instruction templates
// replace the compiled-in ones. Override keys must be known kinds.
func NewWithOverrides(overrides map[string]string) (*Catalog, error) {
	c := New()
	for key, instructions := range overrides {
		kind := Kind(strings.ToLower(strings.TrimSpace(key)))
		if !kind.Valid() {
			return nil, fmt.Errorf("unknown persona kind %q", key)
		}
		if strings.TrimSpace(instructions) == "" {
			return nil, fmt.Errorf("persona %q has empty instructions", key)
		}
		c.personas[kind] = Persona{Kind: kind, Instructions: instructions}
	}
	return c, nil
}

// KindFor maps a free-form topic to the agent kind that handles it.
// Unrecognized topics fall back to the general agent.
func KindFor(topic string) Kind {
	kind := Kind(strings.ToLower(strings.TrimSpace(topic)))
	if kind.Valid() {
		return kind
	}
	return KindGeneral
}

// PersonaFor resolves a topic or kind string to its persona. It is total:
// any input yields a persona, with general as the fallback.
func (c *Catalog) PersonaFor(topicOrKind string) Persona {
	return c.personas[KindFor(topicOrKind)]
}

// ForKind resolves a known kind to its persona. Unknown kinds resolve to general.
func (c *Catalog) ForKind(kind Kind) Persona {
	if p, ok := c.personas[kind]; ok {
		return p
	}
	return c.personas[KindGeneral]
}
