package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an assessment has no current classification.
var ErrNotFound = errors.New("classification not found")

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Recompute phases.
const (
	PhaseLoad     = "load"
	PhaseClassify = "classify"
	PhaseStore    = "store"
	PhaseFinalize = "finalize"
)
