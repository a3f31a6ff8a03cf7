package gluekit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StatsCollector exposes every observable registered in a Registry to
// Prometheus, labeled by registration name.
type StatsCollector struct {
	registry *Registry

	observers   *prometheus.Desc
	txDepth     *prometheus.Desc
	sends       *prometheus.Desc
	elements    *prometheus.Desc
	observables *prometheus.Desc
}

func NewStatsCollector(registry *Registry) *StatsCollector {
	return &StatsCollector{
		registry: registry,

		observers: prometheus.NewDesc(
			"gluekit_observable_observers",
			"Observers currently attached to the observable",
			[]string{"name"}, nil,
		),
		txDepth: prometheus.NewDesc(
			"gluekit_observable_transaction_depth",
			"Currently open nested transactions on the observable",
			[]string{"name"}, nil,
		),
		sends: prometheus.NewDesc(
			"gluekit_observable_changes_total",
			"Total changes accepted by the observable",
			[]string{"name"}, nil,
		),
		elements: prometheus.NewDesc(
			"gluekit_observable_elements",
			"Current element count of the observable",
			[]string{"name"}, nil,
		),
		observables: prometheus.NewDesc(
			"gluekit_registered_observables",
			"Observables currently registered",
			nil, nil,
		),
	}
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.observers
	ch <- c.txDepth
	ch <- c.sends
	ch <- c.elements
	ch <- c.observables
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.observables, prometheus.GaugeValue, float64(c.registry.Size()))
	c.registry.each(func(name string, s Stats) {
		ch <- prometheus.MustNewConstMetric(
			c.observers, prometheus.GaugeValue, float64(s.Observers), name)
		ch <- prometheus.MustNewConstMetric(
			c.txDepth, prometheus.GaugeValue, float64(s.Depth), name)
		ch <- prometheus.MustNewConstMetric(
			c.sends, prometheus.CounterValue, float64(s.Sends), name)
		ch <- prometheus.MustNewConstMetric(
			c.elements, prometheus.GaugeValue, float64(s.Elements), name)
	})
}
