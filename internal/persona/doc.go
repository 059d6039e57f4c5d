// Package persona holds the static agent catalog.
//
// # Overview
//
// Each support topic (billing, technical, product, general) maps to a
// Persona: the instruction template an agent uses as its system prompt.
// The catalog is built once at startup and never mutated afterwards, so
// it can be read concurrently from any number of sessions.
//
// # Resolution
//
// PersonaFor is total: an unrecognized topic resolves to the general
// persona rather than failing. Topic matching is case-insensitive.
//
// # Overrides
//
// Instruction templates are compiled in, but the personas section of the
// config file may replace any of them at load time:
//
//	personas:
//	  billing: |
//	    You are the billing specialist for ...
//
// Overrides are validated against the known kinds; there is no way to
// introduce a new kind at runtime.
package persona
