package orchestrator

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/user/vidanim/pkg/ports"
)

// WorkerOutcome is how one worker ended.
type WorkerOutcome struct {
	Err      error
	Panicked bool
	// Panic holds the recovered value and stack trace.
	Panic string
}

// Failed reports whether the worker returned an error or panicked.
func (w WorkerOutcome) Failed() bool {
	return w.Err != nil || w.Panicked
}

// String is the per-worker line of the failure report.
func (w WorkerOutcome) String() string {
	switch {
	case w.Panicked:
		return "Thread panicked."
	case w.Err != nil:
		return fmt.Sprintf("Errored: %v", w.Err)
	default:
		return "Finished without errors."
	}
}

// Result describes a run whose workers were started.
type Result struct {
	Decoder    WorkerOutcome
	Encoder    WorkerOutcome
	Stats      ports.Stats
	OutputPath string

	Stream ports.StreamInfo
	// Frames is the frame count the run was sized for.
	Frames int64
	Still  bool
}

// Mode is "still" or "animation".
func (r Result) Mode() string {
	if r.Still {
		return "still"
	}
	return "animation"
}

// Failed reports whether either worker failed.
func (r Result) Failed() bool {
	return r.Decoder.Failed() || r.Encoder.Failed()
}

// Err combines the worker failures into a *RunError, nil on success.
func (r Result) Err() error {
	if !r.Failed() {
		return nil
	}

	var merr *multierror.Error
	for _, w := range []struct {
		name    string
		outcome WorkerOutcome
	}{
		{WorkerDecoder, r.Decoder},
		{WorkerEncoder, r.Encoder},
	} {
		switch {
		case w.outcome.Panicked:
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", strings.ToLower(w.name), ErrWorkerPanicked))
		case w.outcome.Err != nil:
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", strings.ToLower(w.name), w.outcome.Err))
		}
	}
	merr.ErrorFormat = joinErrors
	return &RunError{Decoder: r.Decoder, Encoder: r.Encoder, errs: merr}
}

func joinErrors(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// RunError is returned when a worker failed or panicked. errors.Is and
// errors.As see through to every worker error.
type RunError struct {
	Decoder WorkerOutcome
	Encoder WorkerOutcome
	errs    *multierror.Error
}

func (e *RunError) Error() string {
	return e.errs.Error()
}

// Unwrap returns the combined worker errors.
func (e *RunError) Unwrap() error {
	return e.errs.Unwrap()
}

// Errors returns the worker errors in decoder, encoder order.
func (e *RunError) Errors() []error {
	return e.errs.WrappedErrors()
}
