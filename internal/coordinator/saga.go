// Package coordinator runs the persistence half of order creation as a
// sequence of steps and records each transition in the workflow log.
//
// There is no compensation. A step failing after the order row exists
// leaves that order PENDING; the FAILED log entry is what an operator
// reconciles from.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/orders-service/internal/coordinator/sagalog"
)

// Step is a single unit of work. Each step depends on the previous one
// having succeeded.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
}

// StepError reports which step stopped the run and how many had completed.
type StepError struct {
	Step      string
	Completed int
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

type Orchestrator struct {
	sagaID  string
	payload string
	steps   []Step
	log     sagalog.Repository
}

// NewOrchestrator builds a run identified by sagaID. log may be nil.
func NewOrchestrator(sagaID string, steps []Step, log sagalog.Repository) *Orchestrator {
	return &Orchestrator{sagaID: sagaID, steps: steps, log: log}
}

// WithPayload sets the input recorded on the STARTED entry.
func (o *Orchestrator) WithPayload(payload string) *Orchestrator {
	o.payload = payload
	return o
}

// Start runs the steps in order and stops at the first failure, returning
// a *StepError for it.
func (o *Orchestrator) Start(ctx context.Context) error {
	ctx, span := otel.Tracer("coordinator").Start(ctx, "Orchestrator.Start")
	defer span.End()
	span.SetAttributes(attribute.String("saga_id", o.sagaID))

	o.record(ctx, sagalog.StatusStarted, "", o.payload, nil)

	for i, step := range o.steps {
		slog.DebugContext(ctx, "executing step", "saga_id", o.sagaID, "step", step.Name())

		if err := step.Execute(ctx); err != nil {
			slog.ErrorContext(ctx, "step failed", "saga_id", o.sagaID, "step", step.Name(), "error", err)
			o.record(ctx, sagalog.StatusFailed, step.Name(), "", []string{err.Error()})

			span.RecordError(err)
			span.SetStatus(codes.Error, step.Name())
			return &StepError{Step: step.Name(), Completed: i, Err: err}
		}

		o.record(ctx, sagalog.StatusStepDone, step.Name(), "", nil)
	}

	o.record(ctx, sagalog.StatusCompleted, "", "", nil)
	slog.InfoContext(ctx, "workflow completed", "saga_id", o.sagaID)
	return nil
}

// record never fails the run; the log is an audit trail, not a dependency.
func (o *Orchestrator) record(ctx context.Context, status sagalog.Status, step, payload string, errs []string) {
	if o.log == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.sagaID, status, step, payload, errs)
	if err := o.log.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to write workflow log", "saga_id", o.sagaID, "status", status, "error", err)
	}
}
