// Package engine wires normalization, scoring, classification, revenue
// projection and quality measures into one pure pipeline.
package engine

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/classify"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/quality"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/revenue"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/scoring"
)

// Request is one classification input.
type Request struct {
	Assessment     model.Assessment `json:"assessment"`
	TherapyMinutes int              `json:"therapy_minutes"`
	BaseDailyRate  float64          `json:"base_daily_rate"`
}

// Observer is notified after every successful classification.
type Observer interface {
	ObserveReport(r *model.Report)
}

// Engine is stateless after construction and safe for concurrent use.
type Engine struct {
	table    classify.Table
	matcher  scoring.ConditionMatcher
	therapy  scoring.TherapyMinutesProvider
	log      zerolog.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable sets the case-mix table. The table must already be validated.
func WithTable(t classify.Table) Option { return func(e *Engine) { e.table = t } }

// WithConditionMatcher sets the complex-medical matcher.
func WithConditionMatcher(m scoring.ConditionMatcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithTherapyMinutes sets the therapy-minutes provider.
func WithTherapyMinutes(p scoring.TherapyMinutesProvider) Option {
	return func(e *Engine) { e.therapy = p }
}

// WithLogger sets the logger used for coercion warnings.
func WithLogger(log zerolog.Logger) Option { return func(e *Engine) { e.log = log } }

// WithObserver registers an observer, e.g. a metrics recorder.
func WithObserver(o Observer) Option { return func(e *Engine) { e.observer = o } }

// New builds an engine with the default table, allow-list matcher and
// explicit therapy minutes unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		table:   classify.DefaultTable(),
		matcher: scoring.DefaultAllowList(),
		therapy: scoring.Explicit{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate normalizes a partial assessment and classifies it.
func (e *Engine) Evaluate(req Request) (*model.Report, error) {
	req.Assessment = normalize.Assessment(req.Assessment)
	return e.Classify(req)
}

// Classify classifies an already-normalized assessment. It reads a private
// copy of the assessment, so concurrent mutation by the caller cannot leak
// into the result.
func (e *Engine) Classify(req Request) (*model.Report, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	a := req.Assessment.Clone()

	minutes := e.TherapyMinutes(a, req.TherapyMinutes)
	adl, adlCoerced := scoring.ADL(a.Sections[model.SectionG])
	behavior, behaviorCoerced := scoring.Behavior(a.Sections[model.SectionE])
	scores := classify.Scores{
		ADL:            adl,
		Rehab:          scoring.Rehab(minutes),
		ComplexMedical: scoring.ComplexMedical(a, e.matcher),
		Behavior:       behavior,
	}

	out := classify.Classify(scores, e.table)
	proj := revenue.Project(out.CaseMixIndex, req.BaseDailyRate)

	rep := &model.Report{
		AssessmentID:     a.AssessmentID,
		ResidentID:       a.ResidentID,
		AssessmentSHA256: normalize.AssessmentHash(a),
		TherapyMinutes:   minutes,
		BaseDailyRate:    req.BaseDailyRate,
		Branch:           out.Branch,
		Classification: model.Result{
			HIPPSCode:               out.HIPPSCode,
			RUGCategory:             out.Category,
			CaseMixIndex:            out.CaseMixIndex,
			ADLScore:                scores.ADL,
			EstimatedDailyRate:      proj.DailyRate(),
			EstimatedMonthlyRevenue: proj.MonthlyRevenue(),
			SpecialCareHigh:         out.SpecialCareHigh,
			SpecialCareLow:          out.SpecialCareLow,
			RehabilitationCategory:  scores.Rehab,
			ComplexMedical:          scores.ComplexMedical,
			BehaviorCategory:        scores.Behavior,
			ReducedPhysicalFunction: out.ReducedPhysicalFunction,
		},
		QualityMeasures: quality.Evaluate(a),
		Coercions:       append(adlCoerced, behaviorCoerced...),
	}

	for _, c := range rep.Coercions {
		e.log.Warn().
			Str("assessment_id", a.AssessmentID.String()).
			Str("section", string(c.Section)).
			Str("item", c.Item).
			Str("raw", c.Raw).
			Str("reason", string(c.Reason)).
			Int("used", c.Used).
			Msg("item value coerced")
	}
	e.log.Debug().
		Str("assessment_id", a.AssessmentID.String()).
		Str("hipps_code", out.HIPPSCode).
		Str("branch", out.Branch).
		Float64("case_mix_index", out.CaseMixIndex).
		Msg("assessment classified")

	if e.observer != nil {
		e.observer.ObserveReport(rep)
	}
	return rep, nil
}

// TherapyMinutes returns the weekly therapy total the engine classifies a
// with, given the total reported alongside it.
func (e *Engine) TherapyMinutes(a model.Assessment, reported int) int {
	return scoring.BoundMinutes(e.therapy.TherapyMinutes(a, reported))
}

func validate(req Request) error {
	for _, id := range model.SectionIDs() {
		if _, ok := req.Assessment.Sections[id]; !ok {
			return &InvalidInputError{Field: "sections." + string(id), Reason: "section missing"}
		}
	}
	r := req.BaseDailyRate
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return &InvalidInputError{Field: "base_daily_rate", Reason: "must be a positive amount"}
	}
	if req.TherapyMinutes < 0 {
		return &InvalidInputError{Field: "therapy_minutes", Reason: "must not be negative"}
	}
	if req.TherapyMinutes > model.MaxTherapyMinutes {
		return &InvalidInputError{Field: "therapy_minutes", Reason: "exceeds the minutes in a week"}
	}
	return nil
}
