// Package metrics implements the observability hooks with Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/scopeplot/pkg/observability"
)

const namespace = "scopeplot"

// Hooks records session, store and HTTP events as Prometheus metrics.
type Hooks struct {
	batches       *prometheus.CounterVec
	samples       *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	swaps         *prometheus.CounterVec
	resets        *prometheus.CounterVec
	modeChanges   *prometheus.CounterVec

	storeLoads    *prometheus.CounterVec
	storeLoadTime *prometheus.HistogramVec
	storeSaves    *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	reg prometheus.Registerer
}

// New registers every metric with reg.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		reg: reg,
		batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "batches_total",
			Help:      "Sample batches handed to the window policy",
		}, []string{"mode", "status"}),
		samples: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "samples_total",
			Help:      "Samples per channel accepted by the window policy",
		}, []string{"mode"}),
		batchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "batch_duration_seconds",
			Help:      "Time spent laying out one batch",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"mode"}),
		swaps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "swaps_total",
			Help:      "Buffer swaps and sweep wraps",
		}, []string{"mode"}),
		resets: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "resets_total",
			Help:      "Session resets by cause",
		}, []string{"mode", "reason"}),
		modeChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "mode_changes_total",
			Help:      "Window policy switches",
		}, []string{"from", "to"}),
		storeLoads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "loads_total",
			Help:      "Cursor layout lookups",
		}, []string{"backend", "result"}),
		storeLoadTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "load_duration_seconds",
			Help:      "Cursor layout lookup latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend"}),
		storeSaves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "saves_total",
			Help:      "Cursor layout writes",
		}, []string{"backend", "status"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Served HTTP requests",
		}, []string{"method", "route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers h as the global session, store and HTTP hooks.
func (h *Hooks) Install() {
	observability.SetSessionHooks(h)
	observability.SetStoreHooks(h)
	observability.SetHTTPHooks(h)
}

// WatchBufferFill exports fn as the buffer fill gauge. fn is called on
// every scrape.
func (h *Hooks) WatchBufferFill(fn func() float64) {
	promauto.With(h.reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "buffer_fill_ratio",
		Help:      "Buffered fraction of the x-axis in buffer mode",
	}, fn)
}

func (h *Hooks) OnBatch(mode string, samples int, d time.Duration, err error) {
	h.batches.WithLabelValues(mode, status(err)).Inc()
	if err == nil {
		h.samples.WithLabelValues(mode).Add(float64(samples))
	}
	h.batchDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (h *Hooks) OnSwap(mode string) { h.swaps.WithLabelValues(mode).Inc() }

func (h *Hooks) OnReset(mode, reason string) { h.resets.WithLabelValues(mode, reason).Inc() }

func (h *Hooks) OnModeChange(from, to string) { h.modeChanges.WithLabelValues(from, to).Inc() }

func (h *Hooks) OnLoad(_ context.Context, backend string, found bool, d time.Duration) {
	result := "miss"
	if found {
		result = "hit"
	}
	h.storeLoads.WithLabelValues(backend, result).Inc()
	h.storeLoadTime.WithLabelValues(backend).Observe(d.Seconds())
}

func (h *Hooks) OnSave(_ context.Context, backend string, _ int, err error) {
	h.storeSaves.WithLabelValues(backend, status(err)).Inc()
}

func (h *Hooks) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

var (
	_ observability.SessionHooks = (*Hooks)(nil)
	_ observability.StoreHooks   = (*Hooks)(nil)
	_ observability.HTTPHooks    = (*Hooks)(nil)
)
