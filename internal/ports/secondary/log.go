package secondary

import (
	"context"
	"time"
)

// RunLogger defines the interface for recording evaluated scenarios.
// Implementations read the run ID from context.
type RunLogger interface {
	// LogRun records a successfully evaluated scenario.
	LogRun(ctx context.Context, record RunRecord) error

	// LogRejected records a reduction the engine refused.
	LogRejected(ctx context.Context, reduction float64, reason error) error
}

// RunRecord is the loggable summary of one scenario run.
type RunRecord struct {
	Reduction  float64
	Delta      float64
	Input      float64
	Circular   float64
	Accessible float64
	Lost       float64
	Elapsed    time.Duration
}
