package quality

import (
	"testing"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

func TestEvaluate(t *testing.T) {
	got := Evaluate(model.Assessment{})

	if len(got) != 7 {
		t.Fatalf("expected 7 measures, got %d", len(got))
	}
	for _, k := range Keys {
		m, ok := got[k]
		if !ok {
			t.Errorf("measure %s missing", k)
			continue
		}
		if m.Value != 0 || m.Status != StatusNotCalculated {
			t.Errorf("%s = %+v", k, m)
		}
	}
	if len(Measures) != len(Keys) {
		t.Errorf("Measures has %d entries for %d keys", len(Measures), len(Keys))
	}
}
