// Package metrics exposes prometheus counters for the session engine.
//
// # Counters
//
//   - agentarmy_conversations_created_total
//   - agentarmy_turns_completed_total
//   - agentarmy_completion_failures_total{kind}
//   - agentarmy_escalations_recommended_total
//   - agentarmy_escalations_total
//   - agentarmy_resolutions_total
//
// Each Metrics value owns its registry, so tests can build isolated
// instances without collisions. All recording methods are safe on a nil
// receiver; callers that run with metrics disabled simply pass nil and
// never check.
//
// The HTTP endpoint (default /metrics) is served only when metrics are
// enabled in config.
package metrics
