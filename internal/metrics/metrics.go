// Package metrics holds the Prometheus collectors of the publisher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Invocation outcomes.
const (
	ResultPublished     = "published"
	ResultFetchFailed   = "fetch_failed"
	ResultMalformed     = "malformed"
	ResultPublishFailed = "publish_failed"
)

type Metrics struct {
	Registry *prometheus.Registry

	invocations   *prometheus.CounterVec
	runDuration   prometheus.Summary
	lastSuccessTS prometheus.Gauge
	sinkPushes    *prometheus.CounterVec
	price         *prometheus.GaugeVec
}

// New registers every collector on a fresh registry, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.invocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btc_publisher",
		Name:      "invocations_total",
		Help:      "Number of fetch-and-publish invocations by result",
	}, []string{"result"})
	m.runDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "btc_publisher",
		Name:      "run_duration_seconds",
		Help:      "Time spent in one fetch-and-publish invocation",
	})
	m.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "btc_publisher",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last published price event",
	})
	m.sinkPushes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btc_publisher",
		Name:      "sink_pushes_total",
		Help:      "Number of sink pushes by sink and status",
	}, []string{"sink", "status"})
	m.price = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "btc",
		Name:      "price",
		Help:      "Last published price of 1 BTC",
	}, []string{"currency"})

	m.Registry.MustRegister(
		m.invocations, m.runDuration, m.lastSuccessTS, m.sinkPushes, m.price,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveInvocation(result string, took time.Duration) {
	m.invocations.WithLabelValues(result).Inc()
	m.runDuration.Observe(took.Seconds())
}

func (m *Metrics) ObservePublished(currency string, price float64, at time.Time) {
	m.price.WithLabelValues(currency).Set(price)
	m.lastSuccessTS.Set(float64(at.Unix()))
}

// ObserveSinkPush matches sink.PushObserver.
func (m *Metrics) ObserveSinkPush(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.sinkPushes.WithLabelValues(sink, status).Inc()
}
