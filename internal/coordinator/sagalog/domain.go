// Package sagalog records every state transition of an order workflow run.
//
// The log is append-only. The latest row for a saga id is the run's current
// state; a run whose latest row is FAILED left its order in PENDING and
// needs an operator.
package sagalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no entry exists for a saga id.
var ErrNotFound = errors.New("sagalog: saga not found")

type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusStepDone  Status = "STEP_DONE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// SagaLog is a single row of the workflow log.
type SagaLog struct {
	// SagaID is the order id the run was started for.
	SagaID string `json:"sagaId"`

	Status Status `json:"status"`

	// CurrentStep is the step that just finished or failed. Empty on
	// STARTED and COMPLETED.
	CurrentStep string `json:"currentStep"`

	// Payload is the JSON input of the run, only set on STARTED.
	Payload string `json:"payload,omitempty"`

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string `json:"errorMessages"`

	TraceID   string    `json:"traceId,omitempty"`
	SpanID    string    `json:"spanId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Errors decodes ErrorMessages. Malformed content yields nil.
func (l SagaLog) Errors() []string {
	return decodeErrors(l.ErrorMessages)
}
