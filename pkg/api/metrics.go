package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry

	viewRequests *prometheus.CounterVec
	viewErrors   prometheus.Counter
	buildSeconds prometheus.Gauge
	datasetRows  prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		viewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colstats",
			Name:      "view_requests_total",
			Help:      "Aggregation view requests served, per view.",
		}, []string{"view"}),
		viewErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "colstats",
			Name:      "view_errors_total",
			Help:      "View requests that failed because the dataset was unavailable.",
		}),
		buildSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "colstats",
			Name:      "dataset_build_seconds",
			Help:      "Wall time of the one-time dataset build.",
		}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "colstats",
			Name:      "dataset_rows",
			Help:      "Rows in the enriched dataset.",
		}),
	}
	m.registry.MustRegister(m.viewRequests, m.viewErrors, m.buildSeconds, m.datasetRows)
	return m
}
