package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SessionMetrics records guest session activity and the recoveries the session engine performs.
type SessionMetrics struct {
	mutations       *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
	schemaResets    *prometheus.CounterVec
	handoffs        prometheus.Counter
}

// NewSessionMetrics registers the session metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	if reg == nil {
		return &SessionMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guest_session_mutations_total",
		Help: "Cart and wishlist mutations applied to the guest session.",
	}, []string{"collection", "op"})
	storageFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guest_storage_failures_total",
		Help: "Local storage reads or writes that failed and were recovered in memory.",
	}, []string{"op"})
	schemaResets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guest_schema_resets_total",
		Help: "Stored envelopes discarded because of a schema version mismatch.",
	}, []string{"collection"})
	handoffs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_handoff_links_total",
		Help: "Checkout handoff links built.",
	})
	reg.MustRegister(mutations, storageFailures, schemaResets, handoffs)
	return &SessionMetrics{
		mutations:       mutations,
		storageFailures: storageFailures,
		schemaResets:    schemaResets,
		handoffs:        handoffs,
	}
}

// IncMutation counts an applied mutation.
func (m *SessionMetrics) IncMutation(collection, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(collection), normalizeLabel(op)).Inc()
}

// IncStorageFailure counts a recovered storage failure.
func (m *SessionMetrics) IncStorageFailure(op string) {
	if m == nil || m.storageFailures == nil {
		return
	}
	m.storageFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncSchemaReset counts a purged stale envelope.
func (m *SessionMetrics) IncSchemaReset(collection string) {
	if m == nil || m.schemaResets == nil {
		return
	}
	m.schemaResets.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncHandoff counts a built checkout link.
func (m *SessionMetrics) IncHandoff() {
	if m == nil || m.handoffs == nil {
		return
	}
	m.handoffs.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
