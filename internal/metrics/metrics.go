package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielpatrickdp/modeshift/internal/engine"
	"github.com/danielpatrickdp/modeshift/internal/mode"
)

var (
	// Transition metrics
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modeshift_transitions_total",
			Help: "Total number of committed mode transitions",
		},
		[]string{"from", "to", "reason"},
	)

	emergenciesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "modeshift_emergencies_total",
			Help: "Total number of emergency overrides",
		},
	)

	transitionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modeshift_transition_duration_seconds",
			Help:    "Distribution of committed transition durations",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Engine state metrics
	currentMode = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "modeshift_current_mode",
			Help: "Current mode as a one-hot gauge per mode label",
		},
		[]string{"mode"},
	)

	momentum = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "modeshift_momentum",
			Help: "Time-decayed transition momentum",
		},
	)

	inertia = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "modeshift_inertia",
			Help: "Resistance to leaving the current mode",
		},
	)

	framesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "modeshift_frames_total",
			Help: "Total number of signal frames decided on",
		},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(transitionsTotal)
	prometheus.MustRegister(emergenciesTotal)
	prometheus.MustRegister(transitionDuration)
	prometheus.MustRegister(currentMode)
	prometheus.MustRegister(momentum)
	prometheus.MustRegister(inertia)
	prometheus.MustRegister(framesTotal)
}

// Handler serves the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordTransition records one committed transition.
func RecordTransition(rec engine.Record) {
	transitionsTotal.WithLabelValues(rec.From.String(), rec.To.String(), string(rec.Reason)).Inc()
	transitionDuration.Observe(rec.Duration.Seconds())
	if rec.IsEmergency {
		emergenciesTotal.Inc()
	}
}

// UpdateEngine refreshes the point-in-time gauges after a decision.
func UpdateEngine(info engine.Info) {
	for _, m := range mode.All() {
		v := 0.0
		if m == info.Mode {
			v = 1.0
		}
		currentMode.WithLabelValues(m.String()).Set(v)
	}
	momentum.Set(info.Momentum)
	inertia.Set(info.Inertia)
	framesTotal.Inc()
}
