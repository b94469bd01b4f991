package metrics

import "github.com/prometheus/client_golang/prometheus"

// SignalingMetrics holds Prometheus metrics for the signaling manager.
type SignalingMetrics struct {
	ConnectionsActive   prometheus.Gauge
	SessionsActive      prometheus.Gauge
	SubscriptionsActive *prometheus.GaugeVec
	FramesReceived      *prometheus.CounterVec
	ErrorReplies        *prometheus.CounterVec
	LivenessEvictions   prometheus.Counter
	BroadcastDeliveries *prometheus.CounterVec
}

// NewSignalingMetrics creates and registers signaling metrics on the given registry.
func NewSignalingMetrics(reg prometheus.Registerer) *SignalingMetrics {
	m := &SignalingMetrics{
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of registered signaling connections.",
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of sessions with at least one member.",
		}),
		SubscriptionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscriptions_active",
			Help:      "Number of group subscriptions by event domain.",
		}, []string{"domain"}),
		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Total inbound frames by message type.",
		}, []string{"type"}),
		ErrorReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "error_replies_total",
			Help:      "Total error frames sent by error code.",
		}, []string{"code"}),
		LivenessEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liveness_evictions_total",
			Help:      "Total connections terminated for missing two liveness probes.",
		}),
		BroadcastDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_deliveries_total",
			Help:      "Total frames delivered by external event broadcasts, by domain.",
		}, []string{"domain"}),
	}

	reg.MustRegister(
		m.ConnectionsActive,
		m.SessionsActive,
		m.SubscriptionsActive,
		m.FramesReceived,
		m.ErrorReplies,
		m.LivenessEvictions,
		m.BroadcastDeliveries,
	)
	return m
}
