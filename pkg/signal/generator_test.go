package signal

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scopeplot/pkg/errors"
)

func TestNewRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"no channels", WithChannels(0)},
		{"zero period", WithPeriod(0)},
		{"negative sample interval", WithSampleInterval(-time.Millisecond)},
		{"zero update interval", WithUpdateInterval(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opt); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestValuePhaseAndAmplitude(t *testing.T) {
	g, err := New(WithChannels(3), WithPeriod(time.Second), WithSampleInterval(250*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if v := g.Value(0, 0); v != 0 {
		t.Errorf("channel 0 at k=0 = %g, want 0", v)
	}
	if v := g.Value(0, 1); math.Abs(v-DefaultAmplitude) > 1e-9 {
		t.Errorf("quarter period = %g, want %g", v, DefaultAmplitude)
	}
	want := DefaultAmplitude * math.Sin(2*math.Pi/4)
	if v := g.Value(1, 0); math.Abs(v-want) > 1e-9 {
		t.Errorf("channel 1 offset = %g, want %g", v, want)
	}
}

func TestNextAdvances(t *testing.T) {
	g, _ := New(WithChannels(2))
	a := g.Next(4)
	b := g.Next(2)
	if len(a) != 2 || len(a[1]) != 4 || len(b[0]) != 2 {
		t.Fatalf("shapes = %d/%d, %d", len(a), len(a[1]), len(b[0]))
	}
	if b[0][0] != g.Value(0, 4) {
		t.Errorf("second batch does not continue the first")
	}
}

func TestRunDeliversBatches(t *testing.T) {
	g, _ := New(
		WithChannels(2),
		WithSampleInterval(time.Millisecond),
		WithUpdateInterval(5*time.Millisecond),
		WithLogger(log.New(io.Discard)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan [][]float64)
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx, out) }()

	select {
	case batch := <-out:
		if len(batch) != 2 || len(batch[0]) == 0 || len(batch[0]) != len(batch[1]) {
			t.Errorf("batch shape = %d x %d", len(batch), len(batch[0]))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}
	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}
