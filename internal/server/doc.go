// Package server exposes the session engine over HTTP.
//
// # Endpoints
//
//   - POST /api/conversations: intake (topic, first message, customer)
//   - GET  /api/conversations: list, optional ?status= filter
//   - GET  /api/conversations/{id}: snapshot
//   - POST /api/conversations/{id}/messages: submit a customer message
//   - POST /api/conversations/{id}/escalate: explicit human hand-off
//   - POST /api/conversations/{id}/resolve: terminal close
//   - GET  /api/stats: dashboard aggregates
//   - GET  /health: liveness
//   - GET  /metrics: Prometheus registry (when enabled)
//
// # Error mapping
//
// Session errors map to statuses: not found 404, invalid state 409,
// busy 429, empty content 400. Completion failures never appear here;
// the engine turns them into in-conversation fallback messages.
//
// # Auth
//
// When auth.jwt_secret is configured, /api routes require a valid HS256
// bearer token. /health and /metrics stay open.
package server
