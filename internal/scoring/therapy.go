package scoring

import (
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
)

// TherapyMinutesProvider supplies the weekly therapy total used for the
// rehabilitation category. reported is the total that accompanied the
// assessment (request field, DB column or CLI flag).
type TherapyMinutesProvider interface {
	TherapyMinutes(a model.Assessment, reported int) int
}

// Explicit uses the reported total, bounded to [0, model.MaxTherapyMinutes].
// It is the default: the derivation of minutes from raw Section O items is
// owned upstream.
type Explicit struct{}

func (Explicit) TherapyMinutes(_ model.Assessment, reported int) int {
	return BoundMinutes(reported)
}

// BoundMinutes clamps a weekly total to [0, model.MaxTherapyMinutes].
func BoundMinutes(m int) int {
	return max(0, min(m, model.MaxTherapyMinutes))
}

// SectionItems sums the configured Section O items. Non-numeric and
// negative values count as 0 and the sum saturates at
// model.MaxTherapyMinutes. When no item carries a value the reported total
// is used instead.
type SectionItems struct {
	Items []string
}

func (p SectionItems) TherapyMinutes(a model.Assessment, reported int) int {
	o, ok := a.Sections[model.SectionO]
	if !ok {
		return Explicit{}.TherapyMinutes(a, reported)
	}
	var total int
	var found bool
	for _, code := range p.Items {
		raw, present := o.Items[normalize.ItemCode(code)]
		if !present {
			continue
		}
		found = true
		if n, ok := normalize.ParseItem(raw); ok && n > 0 {
			total = BoundMinutes(total + BoundMinutes(n))
		}
	}
	if !found {
		return Explicit{}.TherapyMinutes(a, reported)
	}
	return total
}
