package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSessionMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSessionMetrics(reg)

	m.IncMutation("cart", "add")
	m.IncMutation("cart", "add")
	m.IncMutation("wishlist", "")
	m.IncStorageFailure("write")
	m.IncSchemaReset("cart")
	m.IncHandoff()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "guest_session_mutations_total", map[string]string{"collection": "cart", "op": "add"}); err != nil {
		t.Fatalf("fetch mutations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 cart adds, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "guest_session_mutations_total", map[string]string{"collection": "wishlist", "op": "unknown"}); err != nil {
		t.Fatalf("fetch normalized mutation: %v", err)
	} else if got != 1 {
		t.Fatalf("expected empty op to normalize to unknown, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "guest_storage_failures_total", map[string]string{"op": "write"}); err != nil {
		t.Fatalf("fetch storage failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected storage failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "guest_schema_resets_total", map[string]string{"collection": "cart"}); err != nil {
		t.Fatalf("fetch schema resets: %v", err)
	} else if got != 1 {
		t.Fatalf("expected schema reset=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_handoff_links_total", nil); err != nil {
		t.Fatalf("fetch handoffs: %v", err)
	} else if got != 1 {
		t.Fatalf("expected handoff=1, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewSessionMetrics(nil)
	m.IncMutation("cart", "add")
	m.IncStorageFailure("read")
	m.IncSchemaReset("wishlist")
	m.IncHandoff()

	var nilMetrics *SessionMetrics
	nilMetrics.IncHandoff()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if hasLabels(metric, labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("counter %s%v not found", name, labels)
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, pair := range metric.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok && want == pair.GetValue() {
			matched++
		}
	}
	return matched == len(labels)
}
