// Package completion wraps the external chat-completion service.
//
// # Overview
//
// The client builds a role-tagged message list (system instructions from
// the persona, then the conversation history, then the new customer
// message) and sends it as a single request to an OpenAI-compatible
// /chat/completions endpoint with a bounded output length and a fixed
// moderate sampling temperature.
//
// # Failure model
//
// The client performs no retries. Every failure maps onto a small
// taxonomy the session engine can act on:
//
//   - unavailable: transport error, timeout, 5xx
//   - invalid_response: the service replied but without usable text
//   - rate_limited: 429 or quota exhaustion
//
// Callers bound a request with their context deadline; without one, the
// configured default timeout applies. A cancelled context surfaces as
// unavailable with the cancellation preserved in the error chain.
package completion
