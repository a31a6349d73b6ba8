package db

import (
	"testing"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

func TestChannelSource(t *testing.T) {
	ch := make(chan *model.ClassificationRow, 3)
	ch <- &model.ClassificationRow{HIPPSCode: "IA200"}
	ch <- &model.ClassificationRow{HIPPSCode: "RUX04"}
	close(ch)

	src := NewChannelSource(ch)
	var codes []string
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			t.Fatalf("Values: %v", err)
		}
		if len(vals) != len(model.ClassificationColumns()) {
			t.Fatalf("got %d values for %d columns", len(vals), len(model.ClassificationColumns()))
		}
		codes = append(codes, vals[5].(string))
	}
	if src.Err() != nil {
		t.Errorf("Err = %v", src.Err())
	}
	if src.Count() != 2 || len(codes) != 2 || codes[0] != "IA200" || codes[1] != "RUX04" {
		t.Errorf("count = %d, codes = %v", src.Count(), codes)
	}
}
