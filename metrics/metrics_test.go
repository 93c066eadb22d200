package metrics

import "testing"

func TestNewRegistryRegistersAllMetrics(t *testing.T) {
	r := NewRegistry()
	mfs, err := r.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(mfs) != 12 {
		t.Fatalf("expected all 12 registered metric families, got %d", len(mfs))
	}
}
