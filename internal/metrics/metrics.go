// ABOUTME: Prometheus counters for the conversation engine
// ABOUTME: All methods are nil-safe so metrics can be disabled by passing nil

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's counters. A nil *Metrics is valid and makes
// every recording method a no-op.
type Metrics struct {
	registry *prometheus.Registry

	conversationsCreated prometheus.Counter
	turnsCompleted       prometheus.Counter
	completionFailures   *prometheus.CounterVec
	escalationsFlagged   prometheus.Counter
	escalations          prometheus.Counter
	resolutions          prometheus.Counter
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentarmy_conversations_created_total",
			Help: "Conversations created via intake.",
		}),
		turnsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentarmy_turns_completed_total",
			Help: "Customer turns completed, including fallback turns.",
		}),
		completionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentarmy_completion_failures_total",
			Help: "Completion requests that failed, by failure kind.",
		}, []string{"kind"}),
		escalationsFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentarmy_escalations_recommended_total",
			Help: "Turns after which escalation was recommended.",
		}),
		escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentarmy_escalations_total",
			Help: "Conversations explicitly escalated to a human.",
		}),
		resolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentarmy_resolutions_total",
			Help: "Conversations resolved.",
		}),
	}

	m.registry.MustRegister(
		m.conversationsCreated,
		m.turnsCompleted,
		m.completionFailures,
		m.escalationsFlagged,
		m.escalations,
		m.resolutions,
	)
	return m
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ConversationCreated() {
	if m != nil {
		m.conversationsCreated.Inc()
	}
}

func (m *Metrics) TurnCompleted() {
	if m != nil {
		m.turnsCompleted.Inc()
	}
}

func (m *Metrics) CompletionFailed(kind string) {
	if m != nil {
		m.completionFailures.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) EscalationRecommended() {
	if m != nil {
		m.escalationsFlagged.Inc()
	}
}

func (m *Metrics) Escalated() {
	if m != nil {
		m.escalations.Inc()
	}
}

func (m *Metrics) Resolved() {
	if m != nil {
		m.resolutions.Inc()
	}
}
