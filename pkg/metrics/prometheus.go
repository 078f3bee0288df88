package metrics

import (
	"net/http"
	"time"

	"lightwatch/internals/modules/liveness"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the monitor, alert and HTTP recorders on top of a
// Prometheus registry.
type Collector struct {
	reg *prometheus.Registry

	pings            prometheus.Counter
	transitions      *prometheus.CounterVec
	notifyFailures   prometheus.Counter
	deliveryFailures *prometheus.CounterVec
	storeFailures    *prometheus.CounterVec
	online           prometheus.Gauge
	httpDuration     *prometheus.HistogramVec
}

var _ liveness.Recorder = (*Collector)(nil)

// New registers all metrics under namespace (defaults to "lightwatch") on a
// fresh registry, together with the Go and process collectors.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = "lightwatch"
	}
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		pings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pings_total",
			Help:      "Accepted heartbeat pings.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Announced transitions by kind.",
		}, []string{"kind"}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures_total",
			Help:      "Notifications that could not be handed to the alert queue.",
		}),
		deliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Failed alert deliveries by sender.",
		}, []string{"sender"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_failures_total",
			Help:      "Failed snapshot loads and saves.",
		}, []string{"op"}),
		online: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online",
			Help:      "1 while the signal is considered present.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		c.pings,
		c.transitions,
		c.notifyFailures,
		c.deliveryFailures,
		c.storeFailures,
		c.online,
		c.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) PingRecorded() { c.pings.Inc() }

func (c *Collector) TransitionFired(kind liveness.TransitionKind) {
	c.transitions.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) NotifyFailed() { c.notifyFailures.Inc() }

func (c *Collector) StoreFailed(op string) { c.storeFailures.WithLabelValues(op).Inc() }

func (c *Collector) StatusChanged(online bool) {
	if online {
		c.online.Set(1)
		return
	}
	c.online.Set(0)
}

func (c *Collector) DeliveryFailed(sender string) {
	c.deliveryFailures.WithLabelValues(sender).Inc()
}

func (c *Collector) Observe(method, path string, duration time.Duration) {
	c.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
