package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records the outcomes of cart operations.
type CartMetrics struct {
	proposals     *prometheus.CounterVec
	confirmations *prometheus.CounterVec
	saveFailures  prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	proposals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_propose_add_total",
		Help: "Propose-add operations by outcome.",
	}, []string{"outcome"})
	confirmations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_seller_switch_total",
		Help: "Seller-switch confirmations by decision.",
	}, []string{"decision"})
	saveFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_snapshot_save_failures_total",
		Help: "Cart snapshot writes that failed and were logged only.",
	})
	reg.MustRegister(proposals, confirmations, saveFailures)
	return &CartMetrics{
		proposals:     proposals,
		confirmations: confirmations,
		saveFailures:  saveFailures,
	}
}

// IncPropose increments the propose-add counter for the given outcome.
func (c *CartMetrics) IncPropose(outcome string) {
	if c == nil || c.proposals == nil {
		return
	}
	c.proposals.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncConfirmation increments the seller-switch counter for the given decision.
func (c *CartMetrics) IncConfirmation(decision string) {
	if c == nil || c.confirmations == nil {
		return
	}
	c.confirmations.WithLabelValues(normalizeLabel(decision)).Inc()
}

// IncSaveFailure increments the snapshot write failure counter.
func (c *CartMetrics) IncSaveFailure() {
	if c == nil || c.saveFailures == nil {
		return
	}
	c.saveFailures.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
