// Package zaplog implements secondary.RunLogger on top of zap.
package zaplog

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/ncirc/internal/ctxutil"
	"github.com/example/ncirc/internal/ports/secondary"
)

// RunLogger writes scenario runs as structured log entries.
type RunLogger struct {
	logger *zap.Logger
}

// NewRunLogger creates a new RunLogger.
func NewRunLogger(logger *zap.Logger) *RunLogger {
	return &RunLogger{logger: logger.Named("scenario")}
}

// LogRun records a successfully evaluated scenario at debug level.
func (l *RunLogger) LogRun(ctx context.Context, record secondary.RunRecord) error {
	l.logger.Debug("scenario evaluated",
		zap.String("run_id", ctxutil.RunIDFromContext(ctx)),
		zap.Float64("reduction_pct", record.Reduction),
		zap.Float64("delta", record.Delta),
		zap.Float64("input", record.Input),
		zap.Float64("circular", record.Circular),
		zap.Float64("accessible", record.Accessible),
		zap.Float64("lost", record.Lost),
		zap.Duration("elapsed", record.Elapsed),
	)
	return nil
}

// LogRejected records a refused reduction at warn level.
func (l *RunLogger) LogRejected(ctx context.Context, reduction float64, reason error) error {
	l.logger.Warn("scenario rejected",
		zap.String("run_id", ctxutil.RunIDFromContext(ctx)),
		zap.Float64("reduction_pct", reduction),
		zap.Error(reason),
	)
	return nil
}

var _ secondary.RunLogger = (*RunLogger)(nil)
