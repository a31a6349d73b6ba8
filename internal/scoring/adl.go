// Package scoring holds the four independent scorers the classifier consumes.
// Every scorer is total over normalized input: malformed values become zero
// and are reported as coercions rather than errors.
package scoring

import (
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
)

// Per-item bounds of the ADL self-performance scale.
const (
	ADLItemMin = 0
	ADLItemMax = 4
	ADLMax     = ADLItemMax * 8
)

// ADL sums the eight self-performance items of Section G, each clamped to
// [0, 4]. The result is always in [0, 32].
func ADL(g model.Section) (int, []model.Coercion) {
	var total int
	var coerced []model.Coercion
	for _, item := range model.ADLItems {
		n, c := clampedItem(model.SectionG, item.Code, g.Items[item.Code], ADLItemMin, ADLItemMax)
		if c != nil {
			coerced = append(coerced, *c)
		}
		total += n
	}
	return total, coerced
}

// clampedItem parses one item and bounds it. Non-numeric values count as 0.
func clampedItem(section model.SectionID, code string, raw any, lo, hi int) (int, *model.Coercion) {
	n, ok := normalize.ParseItem(raw)
	if !ok {
		return 0, &model.Coercion{
			Section: section,
			Item:    code,
			Raw:     normalize.RawString(raw),
			Reason:  model.CoercionNonNumeric,
			Used:    0,
		}
	}
	switch {
	case n > hi:
		return hi, &model.Coercion{Section: section, Item: code, Raw: normalize.RawString(raw), Reason: model.CoercionClamped, Used: hi}
	case n < lo:
		return lo, &model.Coercion{Section: section, Item: code, Raw: normalize.RawString(raw), Reason: model.CoercionClamped, Used: lo}
	}
	return n, nil
}
