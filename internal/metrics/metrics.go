// Package metrics exposes Prometheus counters for the HTTP API and the
// storage change stream.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ramonehamilton/hooplog/internal/events"
)

const namespace = "hooplog"

// Recorder owns a private registry. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	changes  *prometheus.CounterVec
}

// NewRecorder creates a recorder with the Go and process collectors
// registered alongside the hooplog metrics.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "table_changes_total",
			Help:      "Table change events by table and operation.",
		}, []string{"table", "operation"}),
	}

	reg.MustRegister(
		r.requests,
		r.latency,
		r.changes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest counts one finished request. route should be the
// route pattern, not the raw path, to keep label cardinality bounded.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordChange counts one table change.
func (r *Recorder) RecordChange(table, op string) {
	if r == nil {
		return
	}
	r.changes.WithLabelValues(table, op).Inc()
}

// RegisterGauge exposes fn as a gauge.
func (r *Recorder) RegisterGauge(subsystem, name, help string, fn func() float64) error {
	if r == nil {
		return nil
	}
	return r.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, fn))
}

// Observer returns an events.Observer that counts table changes.
func (r *Recorder) Observer() events.Observer {
	return &changeObserver{recorder: r}
}

type changeObserver struct {
	recorder *Recorder
}

func (o *changeObserver) OnEvent(event events.Event) error {
	if change, ok := events.GetTypedData[events.TableChanged](event); ok {
		o.recorder.RecordChange(change.Table, change.Operation)
	}
	return nil
}

func (o *changeObserver) GetName() string {
	return "MetricsObserver"
}

func (o *changeObserver) ShouldHandle(eventType string) bool {
	_, ok := events.TableOf(eventType)
	return ok
}
