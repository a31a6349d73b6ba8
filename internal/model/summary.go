package model

import "time"

// RecomputeSummary captures metrics from a single recompute run.
type RecomputeSummary struct {
	RunID              string
	AssessmentsLoaded  int64
	AssessmentsSkipped int64
	Classified         int64
	Rejected           int64
	RowsStored         int64
	ByCategory         map[RUGCategory]int64
	DurationLoad       time.Duration
	DurationClassify   time.Duration
	DurationStore      time.Duration
	DurationTotal      time.Duration
}
