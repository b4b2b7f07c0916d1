package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/scopeplot/pkg/observability"
)

// counter returns the value of the named counter with the given labels.
func counter(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestSessionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)

	h.OnBatch("buffer", 10, time.Millisecond, nil)
	h.OnBatch("buffer", 5, time.Millisecond, nil)
	h.OnBatch("buffer", 3, time.Millisecond, errors.New("bad"))
	h.OnSwap("buffer")
	h.OnReset("screen", "delta")
	h.OnModeChange("free", "screen")

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"scopeplot_session_batches_total", map[string]string{"mode": "buffer", "status": "ok"}, 2},
		{"scopeplot_session_batches_total", map[string]string{"mode": "buffer", "status": "error"}, 1},
		{"scopeplot_session_samples_total", map[string]string{"mode": "buffer"}, 15},
		{"scopeplot_session_swaps_total", map[string]string{"mode": "buffer"}, 1},
		{"scopeplot_session_resets_total", map[string]string{"mode": "screen", "reason": "delta"}, 1},
		{"scopeplot_session_mode_changes_total", map[string]string{"from": "free", "to": "screen"}, 1},
	}
	for _, tt := range tests {
		if got := counter(t, reg, tt.name, tt.labels); got != tt.want {
			t.Errorf("%s%v = %g, want %g", tt.name, tt.labels, got, tt.want)
		}
	}
}

func TestStoreAndHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	ctx := context.Background()

	h.OnLoad(ctx, "file", true, time.Millisecond)
	h.OnLoad(ctx, "file", false, time.Millisecond)
	h.OnSave(ctx, "redis", 100, nil)
	h.OnRequest(ctx, "GET", "/api/frame", 200, time.Millisecond)

	if got := counter(t, reg, "scopeplot_store_loads_total", map[string]string{"backend": "file", "result": "miss"}); got != 1 {
		t.Errorf("misses = %g", got)
	}
	if got := counter(t, reg, "scopeplot_store_saves_total", map[string]string{"backend": "redis", "status": "ok"}); got != 1 {
		t.Errorf("saves = %g", got)
	}
	if got := counter(t, reg, "scopeplot_http_requests_total", map[string]string{"method": "GET", "route": "/api/frame", "code": "200"}); got != 1 {
		t.Errorf("requests = %g", got)
	}
}

func TestHandlerExposesBufferFill(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	h.WatchBufferFill(func() float64 { return 0.25 })

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "scopeplot_session_buffer_fill_ratio 0.25") {
		t.Errorf("body missing gauge:\n%s", rec.Body.String())
	}
}

func TestInstall(t *testing.T) {
	t.Cleanup(observability.Reset)
	h := New(prometheus.NewRegistry())
	h.Install()
	if observability.Session() != h || observability.Store() != h || observability.HTTP() != h {
		t.Error("hooks not installed")
	}
}
