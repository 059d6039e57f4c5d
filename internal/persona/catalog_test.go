// ABOUTME: Tests for the persona catalog
// ABOUTME: Verifies topic resolution, fallback behavior, and overrides

package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  Kind
	}{
		{"billing", "billing", KindBilling},
		{"technical", "technical", KindTechnical},
		{"product", "product", KindProduct},
		{"general", "general", KindGeneral},
		{"uppercase", "BILLING", KindBilling},
		{"whitespace", "  technical  ", KindTechnical},
		{"unknown topic", "something else", KindGeneral},
		{"empty", "", KindGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindFor(tt.topic))
		})
	}
}

func TestCatalog_PersonaFor(t *testing.T) {
	c := New()

	p := c.PersonaFor("billing")
	assert.Equal(t, KindBilling, p.Kind)
	assert.Contains(t, p.Instructions, "billing and payment issues")
	assert.Contains(t, p.Instructions, "professional, empathetic")

	// Unknown topic falls back to general
	p = c.PersonaFor("quantum flux")
	assert.Equal(t, KindGeneral, p.Kind)
	assert.Contains(t, p.Instructions, "general inquiries")
}

func TestCatalog_PersonaFor_AllKindsDistinct(t *testing.T) {
	c := New()

	seen := map[string]Kind{}
	for _, kind := range Kinds() {
		p := c.ForKind(kind)
		require.Equal(t, kind, p.Kind)
		require.NotEmpty(t, p.Instructions)
		prev, dup := seen[p.Instructions]
		require.False(t, dup, "kinds %s and %s share instructions", prev, kind)
		seen[p.Instructions] = kind
	}
}

func TestNewWithOverrides(t *testing.T) {
	c, err := NewWithOverrides(map[string]string{
		"billing": "You are a pirate accountant.",
	})
	require.NoError(t, err)

	assert.Equal(t, "You are a pirate accountant.", c.PersonaFor("billing").Instructions)
	// Other kinds keep the builtin templates
	assert.Contains(t, c.PersonaFor("technical").Instructions, "technical support")
}

func TestNewWithOverrides_UnknownKind(t *testing.T) {
	_, err := NewWithOverrides(map[string]string{"wizardry": "abracadabra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown persona kind")
}

func TestNewWithOverrides_EmptyInstructions(t *testing.T) {
	_, err := NewWithOverrides(map[string]string{"billing": "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty instructions")
}
