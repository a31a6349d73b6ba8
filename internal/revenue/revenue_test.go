package revenue

import "testing"

func TestProject(t *testing.T) {
	tests := []struct {
		name        string
		cmi, base   float64
		wantDaily   float64
		wantMonthly float64
	}{
		{"unit index", 1.0, 200, 200, 6000},
		{"IA2", 1.15, 200, 230, 6900},
		{"RUX", 3.36, 100, 336, 10080},
		{"SSA", 1.07, 200, 214, 6420},
		{"fractional", 1.28, 187.37, 239.83, 7194.90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(tt.cmi, tt.base)
			if p.DailyRate() != tt.wantDaily {
				t.Errorf("daily = %v, want %v", p.DailyRate(), tt.wantDaily)
			}
			if p.MonthlyRevenue() != tt.wantMonthly {
				t.Errorf("monthly = %v, want %v", p.MonthlyRevenue(), tt.wantMonthly)
			}
		})
	}
}

func TestProject_MonthlyIsThirtyDays(t *testing.T) {
	for _, base := range []float64{1, 99.99, 150.5, 200, 412.17} {
		for _, cmi := range []float64{1.01, 1.15, 2.38, 3.36} {
			p := Project(cmi, base)
			if p.MonthlyRevenueCents != p.DailyRateCents*DaysPerMonth {
				t.Errorf("cmi %v base %v: monthly %d != 30 × daily %d", cmi, base, p.MonthlyRevenueCents, p.DailyRateCents)
			}
		}
	}
}
