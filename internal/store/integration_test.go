package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/db"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/engine"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/logging"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/store"
)

const (
	testPort     = 15433
	testDB       = "caremixtest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	if os.Getenv("CAREMIX_PG_TESTS") == "" {
		fmt.Fprintln(os.Stderr, "SKIP: set CAREMIX_PG_TESTS=1 to run store integration tests")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB returns a pool on a freshly migrated schema.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN, 4, 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS care CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}

	log := logging.Setup("text")
	if _, err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}
	// Migrations must be idempotent.
	if _, err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("re-apply migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func assessment(resident string, adl string, extra map[model.SectionID]model.Section) model.Assessment {
	sections := map[model.SectionID]model.Section{
		model.SectionG: {Completed: true, Items: map[string]any{"g0110a": adl, "g0110b": adl}},
	}
	for id, s := range extra {
		sections[id] = s
	}
	return model.Assessment{
		AssessmentID:  uuid.New(),
		ResidentID:    resident,
		ReferenceDate: "20240301",
		Reason:        "05",
		Sections:      sections,
	}
}

func TestSaveAndCurrentClassification(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := store.NewRepository(pool)
	eng := engine.New()

	a := assessment("r-1", "2", nil)
	rep, err := eng.Evaluate(engine.Request{Assessment: a, TherapyMinutes: 720, BaseDailyRate: 200})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if _, err := repo.Save(ctx, a, 720, rep); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.CurrentClassification(ctx, a.AssessmentID)
	if err != nil {
		t.Fatalf("CurrentClassification: %v", err)
	}
	if got.HIPPSCode != "RUX04" || got.DailyRateCents != 67200 || got.MonthlyRevenueCents != 2016000 {
		t.Errorf("stored = %s/%d/%d", got.HIPPSCode, got.DailyRateCents, got.MonthlyRevenueCents)
	}
	if got.ReferenceDate == nil || got.ReferenceDate.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("reference date = %v", got.ReferenceDate)
	}

	// A second save replaces the current row.
	rep2, _ := eng.Evaluate(engine.Request{Assessment: a, TherapyMinutes: 0, BaseDailyRate: 200})
	if _, err := repo.Save(ctx, a, 0, rep2); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err = repo.CurrentClassification(ctx, a.AssessmentID)
	if err != nil {
		t.Fatalf("CurrentClassification: %v", err)
	}
	if got.HIPPSCode != "IA204" {
		t.Errorf("current after resave = %s, want IA204", got.HIPPSCode)
	}

	var total, current int
	if err := pool.QueryRow(ctx,
		"SELECT count(*), count(*) FILTER (WHERE is_current) FROM care.classifications WHERE assessment_id = $1",
		a.AssessmentID).Scan(&total, &current); err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 2 || current != 1 {
		t.Errorf("rows = %d total / %d current, want 2/1", total, current)
	}

	if _, err := repo.CurrentClassification(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadAssessments_RoundTrip(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := store.NewRepository(pool)

	a := assessment("r-2", "3", map[model.SectionID]model.Section{
		model.SectionI: {Items: map[string]any{model.ActiveDiagnosesItem: []any{"dialysis"}}},
	})
	if err := repo.UpsertAssessment(ctx, a, 125); err != nil {
		t.Fatalf("UpsertAssessment: %v", err)
	}
	if err := repo.UpsertAssessment(ctx, assessment("r-3", "0", nil), 0); err != nil {
		t.Fatalf("UpsertAssessment: %v", err)
	}

	got, err := repo.LoadAssessments(ctx, "r-2")
	if err != nil {
		t.Fatalf("LoadAssessments: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 assessment for r-2, got %d", len(got))
	}
	sa := got[0]
	if sa.Assessment.AssessmentID != a.AssessmentID || sa.TherapyMinutes != 125 {
		t.Errorf("loaded = %s/%d", sa.Assessment.AssessmentID, sa.TherapyMinutes)
	}
	if sa.Assessment.ReferenceDate != "2024-03-01" {
		t.Errorf("reference date = %q", sa.Assessment.ReferenceDate)
	}
	if len(sa.Assessment.Sections) != 20 {
		t.Errorf("stored form should be normalized, got %d sections", len(sa.Assessment.Sections))
	}
	if !sa.Assessment.Sections[model.SectionG].Completed {
		t.Error("completed flag lost")
	}

	all, err := repo.LoadAssessments(ctx, "")
	if err != nil {
		t.Fatalf("LoadAssessments: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 assessments, got %d", len(all))
	}
}

func TestRecompute(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := store.NewRepository(pool)
	log := logging.Setup("text")
	eng := engine.New()

	var (
		ids []uuid.UUID
		as  []model.Assessment
	)
	for i := 0; i < 12; i++ {
		a := assessment(fmt.Sprintf("r-%d", i%3), fmt.Sprint(i%5), nil)
		if err := repo.UpsertAssessment(ctx, a, i*70); err != nil {
			t.Fatalf("UpsertAssessment: %v", err)
		}
		ids = append(ids, a.AssessmentID)
		as = append(as, a)
	}

	opts := store.RecomputeOptions{BaseDailyRate: 200, Workers: 3}
	summary, err := store.Recompute(ctx, repo, eng, log, opts)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if summary.AssessmentsLoaded != 12 || summary.Classified != 12 || summary.RowsStored != 12 {
		t.Errorf("summary = %+v", summary)
	}
	for _, id := range ids {
		if _, err := repo.CurrentClassification(ctx, id); err != nil {
			t.Errorf("assessment %s has no current classification: %v", id, err)
		}
	}

	t.Run("unchanged_is_skipped", func(t *testing.T) {
		again, err := store.Recompute(ctx, repo, eng, log, opts)
		if err != nil {
			t.Fatalf("Recompute: %v", err)
		}
		if again.AssessmentsSkipped != 12 || again.Classified != 0 {
			t.Errorf("second run = %+v", again)
		}
	})

	t.Run("rate_change_recomputes", func(t *testing.T) {
		changed := opts
		changed.BaseDailyRate = 250
		again, err := store.Recompute(ctx, repo, eng, log, changed)
		if err != nil {
			t.Fatalf("Recompute: %v", err)
		}
		if again.Classified != 12 {
			t.Errorf("rate change run = %+v", again)
		}
		row, _ := repo.CurrentClassification(ctx, ids[0])
		if row.BaseRateCents != 25000 {
			t.Errorf("current base rate = %d, want 25000", row.BaseRateCents)
		}
	})

	t.Run("force_by_resident", func(t *testing.T) {
		forced := opts
		forced.Force = true
		forced.ResidentID = "r-1"
		again, err := store.Recompute(ctx, repo, eng, log, forced)
		if err != nil {
			t.Fatalf("Recompute: %v", err)
		}
		if again.AssessmentsLoaded != 4 || again.Classified != 4 {
			t.Errorf("forced run = %+v", again)
		}
	})

	t.Run("minutes_change_recomputes", func(t *testing.T) {
		// ids[0] belongs to r-0 and was stored with 0 minutes at rate 250.
		if err := repo.UpsertAssessment(ctx, as[0], 800); err != nil {
			t.Fatalf("UpsertAssessment: %v", err)
		}
		changed := opts
		changed.BaseDailyRate = 250
		changed.ResidentID = "r-0"
		again, err := store.Recompute(ctx, repo, eng, log, changed)
		if err != nil {
			t.Fatalf("Recompute: %v", err)
		}
		if again.Classified != 1 || again.AssessmentsSkipped != 3 {
			t.Errorf("minutes change run = %+v", again)
		}
		row, err := repo.CurrentClassification(ctx, ids[0])
		if err != nil {
			t.Fatalf("CurrentClassification: %v", err)
		}
		if row.TherapyMinutes != 800 || row.RehabilitationCategory != string(model.RehabUltraHigh) {
			t.Errorf("current = %d minutes / %s", row.TherapyMinutes, row.RehabilitationCategory)
		}
	})

	var current int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM care.classifications WHERE is_current").Scan(&current); err != nil {
		t.Fatalf("count: %v", err)
	}
	if current != 12 {
		t.Errorf("current rows = %d, want 12", current)
	}
}

func TestMarkCurrent_RepeatedAssessmentInRun(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := store.NewRepository(pool)
	eng := engine.New()

	a := assessment("r-4", "1", nil)
	if err := repo.UpsertAssessment(ctx, a, 0); err != nil {
		t.Fatalf("UpsertAssessment: %v", err)
	}

	runID := uuid.New()
	ch := make(chan *model.ClassificationRow, 2)
	for _, minutes := range []int{0, 720} {
		rep, err := eng.Evaluate(engine.Request{Assessment: a, TherapyMinutes: minutes, BaseDailyRate: 200})
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		ch <- normalize.ClassificationRow(rep, &a, runID, time.Now())
	}
	close(ch)

	if n, err := repo.CopyRows(ctx, ch); err != nil || n != 2 {
		t.Fatalf("CopyRows = %d, %v", n, err)
	}
	if err := repo.MarkCurrent(ctx, runID); err != nil {
		t.Fatalf("MarkCurrent: %v", err)
	}
	row, err := repo.CurrentClassification(ctx, a.AssessmentID)
	if err != nil {
		t.Fatalf("CurrentClassification: %v", err)
	}
	if row.HIPPSCode != "RUX02" {
		t.Errorf("current = %s, want the later row RUX02", row.HIPPSCode)
	}
}

func TestSave_Concurrent(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := store.NewRepository(pool)
	eng := engine.New()

	a := assessment("r-5", "2", nil)
	const writers = 8
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func(minutes int) {
			rep, err := eng.Evaluate(engine.Request{Assessment: a, TherapyMinutes: minutes, BaseDailyRate: 200})
			if err == nil {
				_, err = repo.Save(ctx, a, minutes, rep)
			}
			errs <- err
		}(i * 100)
	}
	for i := 0; i < writers; i++ {
		if err := <-errs; err != nil {
			t.Errorf("Save: %v", err)
		}
	}

	var total, current int
	if err := pool.QueryRow(ctx,
		"SELECT count(*), count(*) FILTER (WHERE is_current) FROM care.classifications WHERE assessment_id = $1",
		a.AssessmentID).Scan(&total, &current); err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != writers || current != 1 {
		t.Errorf("rows = %d total / %d current, want %d/1", total, current, writers)
	}
}
