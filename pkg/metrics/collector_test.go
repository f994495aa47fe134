package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestNewCollector(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())
	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
}

func TestCollector_SlotProcessed(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())

	collector.SlotProcessed(false)
	collector.SlotProcessed(true)

	if got := counterValue(t, collector.slotsProcessed); got != 2 {
		t.Errorf("expected 2 slots processed, got %v", got)
	}
	if got := counterValue(t, collector.slotsStolen); got != 1 {
		t.Errorf("expected 1 slot stolen, got %v", got)
	}
}

func TestCollector_BFIFrame(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())

	collector.BFIFrame("bfi1")
	collector.BFIFrame("bfi1")
	collector.BFIFrame("bfi2")

	if got := counterValue(t, collector.bfiFrames.WithLabelValues("bfi1")); got != 2 {
		t.Errorf("expected 2 bfi1 hits, got %v", got)
	}
	if got := counterValue(t, collector.bfiFrames.WithLabelValues("bfi2")); got != 1 {
		t.Errorf("expected 1 bfi2 hit, got %v", got)
	}
}

func TestCollector_BitsEmitted(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())

	collector.BitsEmitted(137)
	collector.BitsEmitted(95)

	if got := counterValue(t, collector.bitsEmitted); got != 232 {
		t.Errorf("expected 232 bits emitted, got %v", got)
	}
}
