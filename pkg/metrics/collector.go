package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector collects decode-run metrics for the Prometheus exposition
// endpoint (A5).
type Collector struct {
	slotsProcessed prometheus.Counter
	slotsStolen    prometheus.Counter
	bfiFrames      *prometheus.CounterVec
	bitsEmitted    prometheus.Counter
}

// NewCollector creates a new metrics collector and registers its metrics
// against the given registerer. Pass prometheus.NewRegistry() for an
// isolated registry (tests), or prometheus.DefaultRegisterer in
// production.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		slotsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdecoder_slots_processed_total",
			Help: "Total number of TDMA slots processed.",
		}),
		slotsStolen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdecoder_slots_stolen_total",
			Help: "Total number of slots that carried frame stealing.",
		}),
		bfiFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdecoder_bfi_frames_total",
			Help: "Total number of frames flagged with a bad frame indicator, by stage.",
		}, []string{"stage"}),
		bitsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdecoder_vocoder_bits_emitted_total",
			Help: "Total number of reordered vocoder bits emitted.",
		}),
	}

	reg.MustRegister(c.slotsProcessed, c.slotsStolen, c.bfiFrames, c.bitsEmitted)
	return c
}

// SlotProcessed records one decoded slot.
func (c *Collector) SlotProcessed(stolen bool) {
	c.slotsProcessed.Inc()
	if stolen {
		c.slotsStolen.Inc()
	}
}

// BFIFrame records a bad-frame-indicator hit at the given pipeline stage
// ("bfi1", "bfi2", "bfi3").
func (c *Collector) BFIFrame(stage string) {
	c.bfiFrames.WithLabelValues(stage).Inc()
}

// BitsEmitted records vocoder bits written by the reorderer.
func (c *Collector) BitsEmitted(n int) {
	c.bitsEmitted.Add(float64(n))
}
