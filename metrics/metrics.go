// Package metrics records end to end test results in a private prometheus registry
package metrics

import "time"

import "github.com/pkg/errors"
import "github.com/prometheus/client_golang/prometheus"

const (
	MetricsNamespace = "endtoend"
)

// Metrics holds the collectors of one run. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	scenariosTotal  *prometheus.CounterVec
	scenarioSeconds *prometheus.HistogramVec
	accuracy        *prometheus.GaugeVec
	trainedTotal    *prometheus.CounterVec
	collectives     *prometheus.CounterVec
}

// New creates the collectors, labelled with the build and job of this run
func New(build, jobID string) *Metrics {
	constLabels := prometheus.Labels{"build": build, "job_id": jobID}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scenariosTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   MetricsNamespace,
			Name:        "scenarios_total",
			Help:        "Count of scenarios run by result",
			ConstLabels: constLabels,
		}, []string{"scenario", "result"}),
		scenarioSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   MetricsNamespace,
			Name:        "scenario_duration_seconds",
			Help:        "Duration of scenarios",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"scenario"}),
		accuracy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   MetricsNamespace,
			Name:        "accuracy_ratio",
			Help:        "Accuracy reached by a scenario on a split",
			ConstLabels: constLabels,
		}, []string{"scenario", "split"}),
		trainedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   MetricsNamespace,
			Name:        "hashtrons_trained_total",
			Help:        "Count of hashtrons solved",
			ConstLabels: constLabels,
		}, []string{"scenario"}),
		collectives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   MetricsNamespace,
			Name:        "collectives_total",
			Help:        "Count of communicator operations",
			ConstLabels: constLabels,
		}, []string{"op"}),
	}
	m.registry.MustRegister(m.scenariosTotal, m.scenarioSeconds, m.accuracy, m.trainedTotal, m.collectives)
	return m
}

// Registry exposes the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func result(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}

// RecordScenario counts a finished scenario
func (m *Metrics) RecordScenario(name string, passed bool, d time.Duration) {
	if m == nil {
		return
	}
	m.scenariosTotal.WithLabelValues(name, result(passed)).Inc()
	m.scenarioSeconds.WithLabelValues(name).Observe(d.Seconds())
}

// RecordAccuracy sets the accuracy of scenario on split
func (m *Metrics) RecordAccuracy(name, split string, accuracy float64) {
	if m == nil {
		return
	}
	m.accuracy.WithLabelValues(name, split).Set(accuracy)
}

// RecordTrained counts solved hashtrons
func (m *Metrics) RecordTrained(name string, n int) {
	if m == nil {
		return
	}
	m.trainedTotal.WithLabelValues(name).Add(float64(n))
}

// RecordCollective counts a communicator operation
func (m *Metrics) RecordCollective(op string) {
	if m == nil {
		return
	}
	m.collectives.WithLabelValues(op).Inc()
}

// WriteTextfile writes the registry in text exposition format. An empty path writes nothing.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return errors.Wrap(prometheus.WriteToTextfile(path, m.registry), "write metrics")
}
