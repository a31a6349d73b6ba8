package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/classify"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/config"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/engine"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/scoring"
)

// buildEngine turns engine config into an Engine. An empty config yields
// the regulatory defaults.
func buildEngine(ec config.EngineConfig, log zerolog.Logger, obs engine.Observer) (*engine.Engine, error) {
	table, err := classify.DefaultTable().WithOverrides(ec.CaseMixIndex)
	if err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("case-mix table: %w", err)
	}

	opts := []engine.Option{
		engine.WithTable(table),
		engine.WithLogger(log),
	}
	if len(ec.ComplexMedicalConditions) > 0 {
		opts = append(opts, engine.WithConditionMatcher(scoring.NewAllowList(ec.ComplexMedicalConditions...)))
	}
	if len(ec.TherapyItems) > 0 {
		opts = append(opts, engine.WithTherapyMinutes(scoring.SectionItems{Items: ec.TherapyItems}))
	}
	if obs != nil {
		opts = append(opts, engine.WithObserver(obs))
	}
	return engine.New(opts...), nil
}
