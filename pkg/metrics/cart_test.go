package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	m.IncPropose("added")
	m.IncPropose("added")
	m.IncPropose("rejected")
	m.IncConfirmation("accepted")
	m.IncSaveFailure()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	if got := counterValue(families, "cart_propose_add_total", "outcome", "added"); got != 2 {
		t.Fatalf("expected 2 added proposals, got %v", got)
	}
	if got := counterValue(families, "cart_propose_add_total", "outcome", "rejected"); got != 1 {
		t.Fatalf("expected 1 rejected proposal, got %v", got)
	}
	if got := counterValue(families, "cart_seller_switch_total", "decision", "accepted"); got != 1 {
		t.Fatalf("expected 1 accepted switch, got %v", got)
	}
	if got := counterValue(families, "cart_snapshot_save_failures_total", "", ""); got != 1 {
		t.Fatalf("expected 1 save failure, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *CartMetrics
	m.IncPropose("added")
	m.IncConfirmation("declined")
	m.IncSaveFailure()

	empty := NewCartMetrics(nil)
	empty.IncPropose("added")
}

func counterValue(families []*dto.MetricFamily, name, labelName, labelValue string) float64 {
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelName == "" {
				return metric.GetCounter().GetValue()
			}
			for _, label := range metric.GetLabel() {
				if label.GetName() == labelName && label.GetValue() == labelValue {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}
