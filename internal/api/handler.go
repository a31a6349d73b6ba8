// Package api serves the classification engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/engine"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/store"
)

// Store is the persistence the handler needs. *store.Repository satisfies it.
type Store interface {
	CurrentClassification(ctx context.Context, assessmentID uuid.UUID) (*model.ClassificationRow, error)
	Save(ctx context.Context, a model.Assessment, therapyMinutes int, rep *model.Report) (*model.ClassificationRow, error)
}

// InvalidInputRecorder counts boundary rejections.
type InvalidInputRecorder interface {
	RecordInvalidInput(field string)
}

type Handler struct {
	eng      *engine.Engine
	store    Store
	invalid  InvalidInputRecorder
	baseRate float64
	log      zerolog.Logger
}

// NewHandler builds a handler. baseRate is used when a request omits
// base_daily_rate. st may be nil, in which case reads return 503 and
// persist requests are rejected.
func NewHandler(eng *engine.Engine, st Store, baseRate float64, log zerolog.Logger) *Handler {
	return &Handler{eng: eng, store: st, baseRate: baseRate, log: log}
}

// WithInvalidInputRecorder attaches a counter for rejected requests.
func (h *Handler) WithInvalidInputRecorder(r InvalidInputRecorder) *Handler {
	h.invalid = r
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	v1 := e.Group("/v1")
	v1.POST("/classifications", h.CreateClassification)
	v1.GET("/assessments/:id/classification", h.GetClassification)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"persistence": h.store != nil,
	})
}

// CreateClassification classifies a partial assessment. With ?persist=true
// the assessment and result are stored and become current.
func (h *Handler) CreateClassification(c echo.Context) error {
	var req engine.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.BaseDailyRate == 0 {
		req.BaseDailyRate = h.baseRate
	}

	persist := c.QueryParam("persist") == "true"
	if persist && h.store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "persistence not configured")
	}

	rep, err := h.eng.Evaluate(req)
	if err != nil {
		var inv *engine.InvalidInputError
		if errors.As(err, &inv) {
			if h.invalid != nil {
				h.invalid.RecordInvalidInput(inv.Field)
			}
			return echo.NewHTTPError(http.StatusUnprocessableEntity, inv.Error())
		}
		return err
	}

	if !persist {
		return c.JSON(http.StatusOK, rep)
	}

	if req.Assessment.AssessmentID == uuid.Nil || req.Assessment.ResidentID == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity,
			"assessment_id and resident_id are required to persist")
	}
	if _, err := h.store.Save(c.Request().Context(), req.Assessment, req.TherapyMinutes, rep); err != nil {
		h.log.Error().Err(err).Str("assessment_id", req.Assessment.AssessmentID.String()).Msg("save classification")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store classification")
	}
	return c.JSON(http.StatusCreated, rep)
}

// StoredClassification is the API view of a persisted classification.
type StoredClassification struct {
	AssessmentID     uuid.UUID    `json:"assessment_id"`
	ResidentID       string       `json:"resident_id"`
	RunID            uuid.UUID    `json:"run_id"`
	AssessmentSHA256 string       `json:"assessment_sha256"`
	ReferenceDate    string       `json:"reference_date,omitempty"`
	Branch           string       `json:"branch"`
	TherapyMinutes   int32        `json:"therapy_minutes"`
	BaseDailyRate    float64      `json:"base_daily_rate"`
	CoercionCount    int32        `json:"coercion_count"`
	ComputedAt       time.Time    `json:"computed_at"`
	Classification   model.Result `json:"classification"`
}

// toStored converts a row into its API view. Rows whose categories are not
// part of the current enumerations are rejected rather than echoed.
func toStored(r *model.ClassificationRow) (StoredClassification, error) {
	if _, ok := model.RUGCategoryByName(r.RUGCategory); !ok {
		return StoredClassification{}, fmt.Errorf("unknown rug_category %q", r.RUGCategory)
	}
	if !model.RehabCategory(r.RehabilitationCategory).Valid() {
		return StoredClassification{}, fmt.Errorf("unknown rehabilitation_category %q", r.RehabilitationCategory)
	}
	if !model.BehaviorCategory(r.BehaviorCategory).Valid() {
		return StoredClassification{}, fmt.Errorf("unknown behavior_category %q", r.BehaviorCategory)
	}
	out := StoredClassification{
		AssessmentID:     r.AssessmentID,
		ResidentID:       r.ResidentID,
		RunID:            r.RunID,
		AssessmentSHA256: r.AssessmentSHA256,
		Branch:           r.Branch,
		TherapyMinutes:   r.TherapyMinutes,
		BaseDailyRate:    normalize.CentsToDollars(r.BaseRateCents),
		CoercionCount:    r.CoercionCount,
		ComputedAt:       r.ComputedAt,
		Classification: model.Result{
			HIPPSCode:               r.HIPPSCode,
			RUGCategory:             model.RUGCategory(r.RUGCategory),
			CaseMixIndex:            r.CaseMixIndex,
			ADLScore:                int(r.ADLScore),
			EstimatedDailyRate:      normalize.CentsToDollars(r.DailyRateCents),
			EstimatedMonthlyRevenue: normalize.CentsToDollars(r.MonthlyRevenueCents),
			SpecialCareHigh:         r.SpecialCareHigh,
			SpecialCareLow:          r.SpecialCareLow,
			RehabilitationCategory:  model.RehabCategory(r.RehabilitationCategory),
			ComplexMedical:          r.ComplexMedical,
			BehaviorCategory:        model.BehaviorCategory(r.BehaviorCategory),
			ReducedPhysicalFunction: r.ReducedPhysicalFunction,
		},
	}
	if r.ReferenceDate != nil {
		out.ReferenceDate = r.ReferenceDate.Format("2006-01-02")
	}
	return out, nil
}

func (h *Handler) GetClassification(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if h.store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "persistence not configured")
	}
	row, err := h.store.CurrentClassification(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "classification not found")
	}
	if err != nil {
		h.log.Error().Err(err).Str("assessment_id", id.String()).Msg("load classification")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load classification")
	}
	out, err := toStored(row)
	if err != nil {
		h.log.Error().Err(err).Str("assessment_id", id.String()).Msg("stored classification is invalid")
		return echo.NewHTTPError(http.StatusInternalServerError, "stored classification is invalid")
	}
	return c.JSON(http.StatusOK, out)
}
