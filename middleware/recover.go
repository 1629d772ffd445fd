package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// PanicError wraps a recovered panic value. Callers can detect panics
// with errors.As and treat them differently from ordinary handler
// errors.
type PanicError struct {
	Job   string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in job %s: %v", e.Job, e.Value)
}

// Recover returns middleware that recovers from panics in the handler
// chain. Panics are converted to *PanicError and logged with a stack
// trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("job handler panicked",
					slog.String("job", j.Name),
					slog.String("job_id", j.ID.String()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = &PanicError{Job: j.Name, Value: r}
			}
		}()
		return next(ctx)
	}
}
