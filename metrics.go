package mosq

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments a Client with Prometheus collectors. Build one with
// NewMetrics and attach it via SetMetrics; a nil *Metrics disables
// instrumentation, so every hook below tolerates a nil receiver.
type Metrics struct {
	commands  *prometheus.CounterVec
	acks      *prometheus.CounterVec
	anomalies *prometheus.CounterVec
	connects  *prometheus.CounterVec
	lost      prometheus.Counter
	inbound   prometheus.Counter
	inflight  prometheus.Gauge
}

// NewMetrics builds the collector set and registers it with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mosq",
			Name:      "commands_total",
			Help:      "Commands accepted by the engine, by operation.",
		}, []string{"op"}),
		acks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mosq",
			Name:      "acks_total",
			Help:      "Acknowledgments correlated back to waiting callers, by operation.",
		}, []string{"op"}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mosq",
			Name:      "bridge_anomalies_total",
			Help:      "Callback bridge anomalies, by kind.",
		}, []string{"kind"}),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mosq",
			Name:      "connects_total",
			Help:      "CONNACK results, by outcome.",
		}, []string{"outcome"}),
		lost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mosq",
			Name:      "connection_lost_total",
			Help:      "Unexpected disconnections.",
		}),
		inbound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mosq",
			Name:      "inbound_messages_total",
			Help:      "Messages accepted into the fan-out queue.",
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mosq",
			Name:      "inflight_operations",
			Help:      "Operations awaiting acknowledgment.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.commands, m.acks, m.anomalies, m.connects, m.lost, m.inbound, m.inflight,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// command counts an engine command with no entry in the correlation
// table (connect).
func (m *Metrics) command(op string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(op).Inc()
}

// issued counts an engine command whose waiter entered the correlation
// table.
func (m *Metrics) issued(op string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(op).Inc()
	m.inflight.Inc()
}

func (m *Metrics) acked(op string) {
	if m == nil {
		return
	}
	m.acks.WithLabelValues(op).Inc()
	m.inflight.Dec()
}

// abandon records a waiter withdrawn by context cancellation.
func (m *Metrics) abandon() {
	if m == nil {
		return
	}
	m.inflight.Dec()
}

// failWaiters records n waiters failed by Close.
func (m *Metrics) failWaiters(n int) {
	if m == nil {
		return
	}
	m.inflight.Sub(float64(n))
}

func (m *Metrics) anomaly(kind string) {
	if m == nil {
		return
	}
	m.anomalies.WithLabelValues(kind).Inc()
}

func (m *Metrics) connack(accepted bool) {
	if m == nil {
		return
	}
	outcome := "accepted"
	if !accepted {
		outcome = "refused"
	}
	m.connects.WithLabelValues(outcome).Inc()
}

func (m *Metrics) connectionLost() {
	if m == nil {
		return
	}
	m.lost.Inc()
}

func (m *Metrics) message() {
	if m == nil {
		return
	}
	m.inbound.Inc()
}
