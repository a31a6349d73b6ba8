// Package quality exposes the seven quality indicators reported alongside a
// classification. No clinical rules source is wired in yet, so every measure
// reports the not-calculated placeholder; the keys are part of the report
// contract and are always present.
package quality

import "github.com/Efenterprise/serene-care-flow-sub003/internal/model"

// Measure keys.
const (
	PainManagement          = "pain_management"
	PressureUlcerPrevention = "pressure_ulcer_prevention"
	RestraintUse            = "restraint_use"
	UrinaryTractInfection   = "urinary_tract_infection"
	WeightLoss              = "weight_loss"
	FallsWithInjury         = "falls_with_injury"
	AntipsychoticUse        = "antipsychotic_use"
)

// StatusNotCalculated marks a measure without an implementation.
const StatusNotCalculated = "not_calculated"

// Measure computes one indicator from an assessment.
type Measure func(a model.Assessment) model.QualityMeasure

func notCalculated(model.Assessment) model.QualityMeasure {
	return model.QualityMeasure{Value: 0, Status: StatusNotCalculated}
}

// Measures maps each key to its implementation.
var Measures = map[string]Measure{
	PainManagement:          notCalculated,
	PressureUlcerPrevention: notCalculated,
	RestraintUse:            notCalculated,
	UrinaryTractInfection:   notCalculated,
	WeightLoss:              notCalculated,
	FallsWithInjury:         notCalculated,
	AntipsychoticUse:        notCalculated,
}

// Keys lists the measure keys in report order.
var Keys = []string{
	PainManagement,
	PressureUlcerPrevention,
	RestraintUse,
	UrinaryTractInfection,
	WeightLoss,
	FallsWithInjury,
	AntipsychoticUse,
}

// Evaluate computes every measure for a.
func Evaluate(a model.Assessment) map[string]model.QualityMeasure {
	out := make(map[string]model.QualityMeasure, len(Keys))
	for _, k := range Keys {
		out[k] = Measures[k](a)
	}
	return out
}
