package classify

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// Table maps each RUG category to its case-mix index.
type Table map[model.RUGCategory]float64

// DefaultTable returns a copy of the built-in regulatory table.
func DefaultTable() Table {
	t := make(Table, len(model.DefaultCaseMix))
	for k, v := range model.DefaultCaseMix {
		t[k] = v
	}
	return t
}

// WithOverrides returns a copy of t with the given entries replaced. Keys are
// RUG category codes; unknown codes and non-positive indexes are rejected.
func (t Table) WithOverrides(overrides map[string]float64) (Table, error) {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cat, ok := model.RUGCategoryByName(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown RUG category %q in case-mix table", name)
		}
		v := overrides[name]
		if !validIndex(v) {
			return nil, fmt.Errorf("case-mix index for %s must be positive, got %v", cat, v)
		}
		out[cat] = v
	}
	return out, nil
}

// Validate checks that every category has a positive index.
func (t Table) Validate() error {
	for _, c := range model.AllRUGCategories {
		v, ok := t[c]
		if !ok {
			return fmt.Errorf("case-mix table missing category %s", c)
		}
		if !validIndex(v) {
			return fmt.Errorf("case-mix index for %s must be positive, got %v", c, v)
		}
	}
	return nil
}

// Lookup returns the index for c, falling back to the built-in value when a
// table was assembled without going through Validate.
func (t Table) Lookup(c model.RUGCategory) float64 {
	if v, ok := t[c]; ok && validIndex(v) {
		return v
	}
	return model.DefaultCaseMix[c]
}

func validIndex(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
