package scoring

import (
	"testing"
	"testing/quick"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

func section(items map[string]any) model.Section {
	return model.Section{Items: items}
}

func TestADL(t *testing.T) {
	tests := []struct {
		name      string
		items     map[string]any
		want      int
		coercions int
	}{
		{"empty", map[string]any{}, 0, 8},
		{"all zero", allADL("0"), 0, 0},
		{"all four", allADL("4"), 32, 0},
		{"clamped high", allADL("8"), 32, 8},
		{"clamped low", map[string]any{"g0110a": "-3", "g0110b": "2"}, 2, 7},
		{"mixed types", map[string]any{"g0110a": 3.0, "g0110b": "1", "g0110c": 2, "g0110d": "x"}, 6, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, coerced := ADL(section(tt.items))
			if got != tt.want {
				t.Errorf("ADL = %d, want %d", got, tt.want)
			}
			if len(coerced) != tt.coercions {
				t.Errorf("coercions = %d, want %d: %+v", len(coerced), tt.coercions, coerced)
			}
		})
	}
}

func allADL(v any) map[string]any {
	m := make(map[string]any, len(model.ADLItems))
	for _, it := range model.ADLItems {
		m[it.Code] = v
	}
	return m
}

func TestADL_CoercionDetail(t *testing.T) {
	items := allADL("0")
	items["g0110h"] = "7"
	items["g0110i"] = "n/a"
	_, coerced := ADL(section(items))

	if len(coerced) != 2 {
		t.Fatalf("expected 2 coercions, got %+v", coerced)
	}
	want := map[string]model.Coercion{
		"g0110h": {Section: model.SectionG, Item: "g0110h", Raw: "7", Reason: model.CoercionClamped, Used: 4},
		"g0110i": {Section: model.SectionG, Item: "g0110i", Raw: "n/a", Reason: model.CoercionNonNumeric, Used: 0},
	}
	for _, c := range coerced {
		if c != want[c.Item] {
			t.Errorf("coercion %s = %+v, want %+v", c.Item, c, want[c.Item])
		}
	}
}

func TestADL_AlwaysInRange(t *testing.T) {
	f := func(vals [8]int16) bool {
		items := make(map[string]any, 8)
		for i, it := range model.ADLItems {
			items[it.Code] = int(vals[i])
		}
		n, _ := ADL(section(items))
		return n >= 0 && n <= ADLMax
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRehab_Thresholds(t *testing.T) {
	tests := []struct {
		minutes int
		want    model.RehabCategory
	}{
		{0, model.RehabNone},
		{1, model.RehabLow},
		{149, model.RehabLow},
		{150, model.RehabMedium},
		{324, model.RehabMedium},
		{325, model.RehabHigh},
		{499, model.RehabHigh},
		{500, model.RehabVeryHigh},
		{719, model.RehabVeryHigh},
		{720, model.RehabUltraHigh},
		{10000, model.RehabUltraHigh},
		{-5, model.RehabNone},
	}
	for _, tt := range tests {
		if got := Rehab(tt.minutes); got != tt.want {
			t.Errorf("Rehab(%d) = %s, want %s", tt.minutes, got, tt.want)
		}
	}
}

func TestRehab_Monotonic(t *testing.T) {
	f := func(a, b uint16) bool {
		lo, hi := int(a), int(b)
		if lo > hi {
			lo, hi = hi, lo
		}
		return Rehab(lo).Rank() <= Rehab(hi).Rank()
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestBehavior(t *testing.T) {
	tests := []struct {
		name  string
		items map[string]any
		want  model.BehaviorCategory
	}{
		{"none", map[string]any{"e0800": "0", "e0900": "0", "e0200a": "0", "e0200c": "0"}, model.BehaviorNone},
		{"low", map[string]any{"e0800": "1"}, model.BehaviorLow},
		{"medium", map[string]any{"e0800": "2", "e0900": "2"}, model.BehaviorMedium},
		{"high", map[string]any{"e0800": "3", "e0900": "3", "e0200a": "2"}, model.BehaviorHigh},
		{"large codes kept", map[string]any{"e0800": "9"}, model.BehaviorHigh},
		{"negative floored", map[string]any{"e0800": "-4", "e0900": "1"}, model.BehaviorLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Behavior(section(tt.items))
			if got != tt.want {
				t.Errorf("Behavior = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBehaviorFor_Monotonic(t *testing.T) {
	f := func(a, b uint8) bool {
		lo, hi := int(a), int(b)
		if lo > hi {
			lo, hi = hi, lo
		}
		return BehaviorFor(lo).Rank() <= BehaviorFor(hi).Rank()
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestAllowList(t *testing.T) {
	m := DefaultAllowList()

	tests := []struct {
		name     string
		sections map[model.SectionID]model.Section
		want     bool
	}{
		{"no sections", nil, false},
		{"flag in J", map[model.SectionID]model.Section{model.SectionJ: section(map[string]any{"dialysis": true})}, true},
		{"flag false", map[model.SectionID]model.Section{model.SectionJ: section(map[string]any{"dialysis": false})}, false},
		{"flag text", map[model.SectionID]model.Section{model.SectionI: section(map[string]any{"Ventilator": "1"})}, true},
		{"diagnosis list", map[model.SectionID]model.Section{model.SectionI: section(map[string]any{model.ActiveDiagnosesItem: []any{"copd", "IV_Medications"}})}, true},
		{"diagnosis string", map[model.SectionID]model.Section{model.SectionI: section(map[string]any{model.ActiveDiagnosesItem: "copd, isolation"})}, true},
		{"unlisted", map[model.SectionID]model.Section{model.SectionI: section(map[string]any{model.ActiveDiagnosesItem: []string{"copd"}})}, false},
		{"other section ignored", map[model.SectionID]model.Section{model.SectionO: section(map[string]any{"dialysis": true})}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := model.Assessment{Sections: tt.sections}
			if got := ComplexMedical(a, m); got != tt.want {
				t.Errorf("ComplexMedical = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComplexMedical_NilAndCustom(t *testing.T) {
	a := model.Assessment{Sections: map[model.SectionID]model.Section{
		model.SectionJ: section(map[string]any{"dialysis": true}),
	}}
	if ComplexMedical(a, nil) {
		t.Error("nil matcher must not match")
	}
	always := ConditionMatcherFunc(func(model.Assessment) bool { return true })
	if !ComplexMedical(model.Assessment{}, always) {
		t.Error("custom matcher ignored")
	}
	if len(NewAllowList("ventilator", " ", "VENTILATOR").Identifiers()) != 1 {
		t.Error("allow-list should canonicalize and dedupe identifiers")
	}
}

func TestTherapyMinutes(t *testing.T) {
	withO := model.Assessment{Sections: map[model.SectionID]model.Section{
		model.SectionO: section(map[string]any{"o0400a": "200", "o0400b": 150.0, "o0400c": "bad", "o0400d": "-10"}),
	}}

	if got := (Explicit{}).TherapyMinutes(withO, 300); got != 300 {
		t.Errorf("Explicit = %d, want 300", got)
	}
	if got := (Explicit{}).TherapyMinutes(withO, -3); got != 0 {
		t.Errorf("Explicit negative = %d, want 0", got)
	}

	p := SectionItems{Items: []string{"O0400A", "o0400b", "o0400c", "o0400d"}}
	if got := p.TherapyMinutes(withO, 999); got != 350 {
		t.Errorf("SectionItems = %d, want 350", got)
	}

	missing := SectionItems{Items: []string{"o0500"}}
	if got := missing.TherapyMinutes(withO, 42); got != 42 {
		t.Errorf("fallback = %d, want reported 42", got)
	}
}

func TestTherapyMinutes_Saturates(t *testing.T) {
	huge := "9223372036854775807"
	withO := model.Assessment{Sections: map[model.SectionID]model.Section{
		model.SectionO: section(map[string]any{"o0400a": huge, "o0400b": huge}),
	}}

	p := SectionItems{Items: []string{"o0400a", "o0400b"}}
	got := p.TherapyMinutes(withO, 0)
	if got != model.MaxTherapyMinutes {
		t.Fatalf("SectionItems = %d, want %d", got, model.MaxTherapyMinutes)
	}
	if Rehab(got) != model.RehabUltraHigh {
		t.Errorf("rehab = %s, want ultra_high", Rehab(got))
	}

	if got := (Explicit{}).TherapyMinutes(withO, model.MaxTherapyMinutes+1); got != model.MaxTherapyMinutes {
		t.Errorf("Explicit = %d, want %d", got, model.MaxTherapyMinutes)
	}
}
