package imgtag

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label values
const (
	MetricsNamespace   = "imgtag"
	MetricLabelType    = "element_type"
	MetricLabelOutcome = "outcome"
	MetricLabelStore   = "store"
	MetricLabelResult  = "result"
	OutcomeRendered    = "rendered"
	OutcomeInvalid     = "invalid"
	CacheResultHit     = "hit"
	CacheResultMiss    = "miss"
	CacheResultError   = "error"
)

// Metrics holds the optional prometheus collectors of a Factory.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	elementsCreated    *prometheus.CounterVec
	renders            *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	configWarnings     *prometheus.CounterVec
	fetchCache         *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		elementsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "elements_created_total",
				Help:      "Image elements created, by element type",
			},
			[]string{MetricLabelType},
		),
		renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "renders_total",
				Help:      "Image element renders, by element type and outcome",
			},
			[]string{MetricLabelType, MetricLabelOutcome},
		),
		validationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "validation_failures_total",
				Help:      "Validation failures reported while rendering, by element type",
			},
			[]string{MetricLabelType},
		),
		configWarnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "config_warnings_total",
				Help:      "Values rejected by a property store, by store",
			},
			[]string{MetricLabelStore},
		),
		fetchCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "fetch_cache_total",
				Help:      "Fetch memo lookups, by result",
			},
			[]string{MetricLabelResult},
		),
	}
}

func (m *Metrics) elementCreated(typ string) {
	if m == nil {
		return
	}
	m.elementsCreated.WithLabelValues(typ).Inc()
}

func (m *Metrics) rendered(typ, outcome string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(typ, outcome).Inc()
}

func (m *Metrics) validationFailed(typ string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.validationFailures.WithLabelValues(typ).Add(float64(count))
}

func (m *Metrics) configWarning(store string) {
	if m == nil {
		return
	}
	m.configWarnings.WithLabelValues(store).Inc()
}

func (m *Metrics) fetchLookup(result string) {
	if m == nil {
		return
	}
	m.fetchCache.WithLabelValues(result).Inc()
}
