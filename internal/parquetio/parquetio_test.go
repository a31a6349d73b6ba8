package parquetio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

func row(cat string, daily int64) *model.ClassificationRow {
	ref := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	return &model.ClassificationRow{
		RunID:               uuid.New(),
		AssessmentID:        uuid.New(),
		ResidentID:          "r-1",
		AssessmentSHA256:    "abc",
		ReferenceDate:       &ref,
		HIPPSCode:           cat + "04",
		RUGCategory:         cat,
		Branch:              "reduced_function",
		CaseMixIndex:        1.5,
		ADLScore:            4,
		DailyRateCents:      daily,
		MonthlyRevenueCents: daily * 30,
		ComputedAt:          time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestWriteThenSummarize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.parquet")

	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rows := []*model.ClassificationRow{
		row("IA2", 23000),
		row("IA2", 23000),
		row("RUX", 67200),
		row("CB2", 20600),
	}
	if err := w.WriteRows(rows...); err != nil {
		t.Fatalf("WriteRows: %v", err)
	}
	if w.Count() != 4 {
		t.Errorf("Count = %d, want 4", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	if r.NumRows() != 4 {
		t.Errorf("NumRows = %d, want 4", r.NumRows())
	}

	s, err := Summarize(r)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Rows != 4 || s.MeanCaseMixIndex != 1.5 {
		t.Errorf("rows/mean = %d/%v", s.Rows, s.MeanCaseMixIndex)
	}
	if s.DailyRateCents != 133800 || s.MonthlyRevenueCents != 133800*30 {
		t.Errorf("totals = %d/%d", s.DailyRateCents, s.MonthlyRevenueCents)
	}
	wantOrder := []string{"IA2", "CB2", "RUX"}
	if len(s.Categories) != len(wantOrder) {
		t.Fatalf("categories = %+v", s.Categories)
	}
	for i, c := range wantOrder {
		if s.Categories[i].Category != c {
			t.Errorf("category %d = %s, want %s", i, s.Categories[i].Category, c)
		}
	}
	if s.Categories[0].Count != 2 {
		t.Errorf("IA2 count = %d", s.Categories[0].Count)
	}
}

func TestFromRow(t *testing.T) {
	r := row("SSA", 21400)
	rec := FromRow(r)
	if rec.AssessmentID != r.AssessmentID.String() || rec.ReferenceDate != "2024-02-29" {
		t.Errorf("rec = %+v", rec)
	}

	r.ReferenceDate = nil
	if FromRow(r).ReferenceDate != "" {
		t.Error("nil reference date should export empty")
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
